// Package runner evaluates check files sequentially or in
// parallel. Each file runs in its own soft session, so files
// never share captured failures.
package runner

import (
	"context"
	"time"

	"digital.vasic.softassert/pkg/checkfile"
	"digital.vasic.softassert/pkg/logging"
	"digital.vasic.softassert/pkg/metrics"
)

// Evaluator runs one check file. *checkfile.Engine implements
// it through Run and RunHard.
type Evaluator interface {
	Run(f checkfile.File) error
	RunHard(f checkfile.File) error
}

// Result is the outcome of one check file.
type Result struct {
	File     string
	Source   string
	Err      error
	Duration time.Duration
	// Skipped is set when the context was done before the file
	// started.
	Skipped bool
}

// Passed reports whether the file ran and every check passed.
func (r Result) Passed() bool {
	return !r.Skipped && r.Err == nil
}

// Hook is invoked around file evaluation.
type Hook func(r Result)

// Runner evaluates check files with an Evaluator.
type Runner struct {
	eval        Evaluator
	hard        bool
	parallelism int
	metrics     metrics.CheckMetrics
	logger      logging.Logger
	preHooks    []Hook
	postHooks   []Hook
}

// NewRunner creates a Runner that evaluates files with eval.
func NewRunner(eval Evaluator, opts ...RunnerOption) *Runner {
	r := &Runner{
		eval:        eval,
		parallelism: 1,
		metrics:     metrics.NoopMetrics{},
		logger:      logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates files and returns one Result per file in input
// order. Files still waiting when ctx is done are returned as
// skipped and the context error is returned.
func (r *Runner) Run(
	ctx context.Context, files []checkfile.File,
) ([]Result, error) {
	if r.parallelism > 1 && len(files) > 1 {
		return runParallel(ctx, r, files, r.parallelism)
	}

	results := make([]Result, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(files); j++ {
				results[j] = skipped(files[j])
			}
			return results, err
		}
		results[i] = r.runFile(f)
	}
	return results, nil
}

func skipped(f checkfile.File) Result {
	return Result{File: f.Name, Source: f.Source, Skipped: true}
}

func (r *Runner) runFile(f checkfile.File) Result {
	result := Result{File: f.Name, Source: f.Source}
	for _, h := range r.preHooks {
		h(result)
	}

	start := time.Now()
	if r.hard {
		result.Err = r.eval.RunHard(f)
	} else {
		result.Err = r.eval.Run(f)
	}
	result.Duration = time.Since(start)

	r.metrics.RecordFileRun(f.Name, result.Err == nil, result.Duration)
	r.logger.Debug("Check file evaluated",
		logging.FileField(f.Name),
		logging.BoolField("passed", result.Err == nil),
		logging.DurationField("duration_ms", result.Duration),
	)

	for _, h := range r.postHooks {
		h(result)
	}
	return result
}

// Summary counts results.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Summarize counts passed, failed and skipped results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			s.Skipped++
		case r.Err != nil:
			s.Failed++
		default:
			s.Passed++
		}
	}
	return s
}
