package runner

import (
	"digital.vasic.softassert/pkg/logging"
	"digital.vasic.softassert/pkg/metrics"
)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHard makes every file stop at its first failing check.
func WithHard(hard bool) RunnerOption {
	return func(r *Runner) {
		r.hard = hard
	}
}

// WithParallelism sets how many files are evaluated at once.
// Values below 1 mean sequential evaluation.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.parallelism = n
	}
}

// WithMetrics records every file run in m.
func WithMetrics(m metrics.CheckMetrics) RunnerOption {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPreHook adds a hook called before a file is evaluated.
// With parallelism above 1, hooks are called concurrently.
func WithPreHook(h Hook) RunnerOption {
	return func(r *Runner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook called with the finished Result.
func WithPostHook(h Hook) RunnerOption {
	return func(r *Runner) {
		r.postHooks = append(r.postHooks, h)
	}
}
