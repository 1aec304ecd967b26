package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"digital.vasic.softassert/pkg/assertion"
	"digital.vasic.softassert/pkg/checkfile"
	"digital.vasic.softassert/pkg/history"
	"digital.vasic.softassert/pkg/logging"
	"digital.vasic.softassert/pkg/metrics"
	"digital.vasic.softassert/pkg/monitor"
	"digital.vasic.softassert/pkg/runner"
)

const stopTimeout = 5 * time.Second

var (
	colorPass = color.New(color.FgGreen, color.Bold)
	colorFail = color.New(color.FgRed, color.Bold)
	colorSkip = color.New(color.FgYellow)
)

// app wires one command invocation: logger, checker with its
// observers, engine and the optional monitor server.
type app struct {
	out       io.Writer
	logger    logging.Logger
	engine    *checkfile.Engine
	counters  *metrics.Counters
	collector *monitor.EventCollector
	dashboard *monitor.Dashboard
	server    *monitor.Server
	history   history.Store
	runID     string
	cancel    context.CancelFunc
	done      chan error
}

func newApp(opts *options, stdout, stderr io.Writer) (*app, error) {
	logger, err := opts.buildLogger(stderr)
	if err != nil {
		return nil, err
	}

	runID := newRunID(time.Now())
	a := &app{
		out:       stdout,
		logger:    logger,
		runID:     runID,
		counters:  metrics.NewCounters(),
		collector: monitor.NewEventCollector(),
		dashboard: monitor.NewDashboard(runID),
	}

	if opts.historyPath != "" {
		store, err := history.Open(opts.historyPath)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		a.history = store
	}

	checker := assertion.New(
		logging.NewSink(logger),
		assertion.WithObserver(metrics.Observer(a.counters), a.collector),
	)
	a.engine = checkfile.NewEngine(checker, checkfile.WithLogger(logger))

	if opts.monitorAddr != "" {
		a.startMonitor(opts.monitorAddr)
	} else {
		a.collector.OnEvent(a.dashboard.UpdateFromEvent)
	}
	return a, nil
}

// newRunID names a run by its start time down to the
// microsecond, so runs started in the same second stay distinct
// in the history.
func newRunID(now time.Time) string {
	return now.UTC().Format("20060102-150405.000000")
}

func (a *app) startMonitor(addr string) {
	a.server = monitor.NewServer(
		addr, a.collector, a.dashboard, monitor.WithLogger(a.logger),
	)
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan error, 1)
	go func() { a.done <- a.server.Start(ctx) }()
}

// runFiles evaluates every file and prints one result line per
// file in input order. It returns errChecksFailed if any file
// failed.
func (a *app) runFiles(
	ctx context.Context, files []checkfile.File, hard bool, parallelism int,
) error {
	r := runner.NewRunner(a.engine,
		runner.WithHard(hard),
		runner.WithParallelism(parallelism),
		runner.WithMetrics(a.counters),
		runner.WithLogger(a.logger),
		runner.WithPreHook(func(res runner.Result) {
			a.collector.EmitFileStarted(res.File)
		}),
		runner.WithPostHook(func(res runner.Result) {
			if res.Err != nil {
				a.collector.EmitFileFailed(res.File, res.Err.Error(), res.Duration)
				return
			}
			a.collector.EmitFileCompleted(res.File, res.Duration)
		}),
		runner.WithPostHook(a.record),
	)

	results, runErr := r.Run(ctx, files)
	for _, res := range results {
		if res.Skipped {
			a.record(res)
		}
		a.printResult(res)
	}

	sum := runner.Summarize(results)
	passedChecks, failedChecks := a.counters.Totals()
	a.logger.Debug("Run finished",
		logging.IntField("files", sum.Total),
		logging.IntField("checks_passed", passedChecks),
		logging.IntField("checks_failed", failedChecks),
	)
	fmt.Fprintf(a.out, "\n%d passed, %d failed", sum.Passed, sum.Failed)
	if sum.Skipped > 0 {
		fmt.Fprintf(a.out, ", %d skipped", sum.Skipped)
	}
	fmt.Fprintln(a.out)

	if runErr != nil {
		a.dashboard.SetStatus("failed")
		return runErr
	}
	if sum.Failed > 0 {
		a.dashboard.SetStatus("failed")
		return errChecksFailed
	}
	a.dashboard.SetStatus("passed")
	return nil
}

// record appends a finished file to the run history, if one is
// configured.
func (a *app) record(res runner.Result) {
	if a.history == nil {
		return
	}
	e := history.Entry{
		RunID:    a.runID,
		File:     res.File,
		Source:   res.Source,
		Status:   history.StatusPassed,
		Duration: res.Duration,
	}
	switch {
	case res.Skipped:
		e.Status = history.StatusSkipped
	case res.Err != nil:
		e.Status = history.StatusFailed
		e.Message = res.Err.Error()
	}
	if _, err := a.history.Append(e); err != nil {
		a.logger.Warn("Failed to record run history",
			logging.FileField(res.File), logging.ErrorField(err))
	}
}

func (a *app) printResult(res runner.Result) {
	name, err := res.File, res.Err
	if res.Skipped {
		fmt.Fprintf(a.out, "%s %s\n", colorSkip.Sprint("SKIP"), name)
		return
	}
	if err == nil {
		fmt.Fprintf(a.out, "%s %s\n", colorPass.Sprint("PASS"), name)
		return
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "\n") {
		msg = " " + msg
	}
	fmt.Fprintf(a.out, "%s %s:%s\n", colorFail.Sprint("FAIL"), name, msg)
}

// close stops the monitor, closes the history and flushes the
// logger.
func (a *app) close() error {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("Failed to close run history", logging.ErrorField(err))
		}
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := a.server.Stop(ctx); err != nil {
			a.logger.Warn("Monitor shutdown failed", logging.ErrorField(err))
		}
		a.cancel()
		if err := <-a.done; err != nil {
			a.logger.Warn("Monitor stopped with error", logging.ErrorField(err))
		}
	}
	return a.logger.Close()
}
