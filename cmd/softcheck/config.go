package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"digital.vasic.softassert/pkg/env"
	"digital.vasic.softassert/pkg/logging"
)

const (
	formatConsole = "console"
	formatJSON    = "json"
)

// Environment variables read when the matching flag is unset.
const (
	envLogFormat   = "SOFTCHECK_LOG_FORMAT"
	envLogFile     = "SOFTCHECK_LOG_FILE"
	envVerbose     = "SOFTCHECK_VERBOSE"
	envRedact      = "SOFTCHECK_REDACT"
	envMonitorAddr = "SOFTCHECK_MONITOR_ADDR"
	envHistory     = "SOFTCHECK_HISTORY"
)

type options struct {
	envFile     string
	logFormat   string
	logFile     string
	verbose     bool
	redact      []string
	monitorAddr string
	historyPath string
}

// resolve fills options that were not set on the command line
// from the environment and validates them.
func (o *options) resolve(cmd *cobra.Command) error {
	loader := env.NewLoader()
	if o.envFile != "" {
		if err := loader.Load(o.envFile); err != nil {
			return err
		}
	}
	o.applyEnv(loader, cmd.Flags().Changed)

	o.logFormat = strings.ToLower(strings.TrimSpace(o.logFormat))
	switch o.logFormat {
	case formatConsole, formatJSON:
	default:
		return fmt.Errorf(
			"unsupported log format %q (want %s or %s)",
			o.logFormat, formatConsole, formatJSON,
		)
	}
	return nil
}

func (o *options) applyEnv(l env.Loader, changed func(string) bool) {
	if !changed("log-format") {
		o.logFormat = l.GetWithDefault(envLogFormat, o.logFormat)
	}
	if !changed("log-file") {
		o.logFile = l.GetWithDefault(envLogFile, o.logFile)
	}
	if !changed("verbose") {
		o.verbose = l.GetBool(envVerbose, o.verbose)
	}
	if !changed("redact") {
		if secrets := l.GetList(envRedact); len(secrets) > 0 {
			o.redact = secrets
		}
	}
	if !changed("monitor") {
		o.monitorAddr = l.GetWithDefault(envMonitorAddr, o.monitorAddr)
	}
	if !changed("history") {
		o.historyPath = l.GetWithDefault(envHistory, o.historyPath)
	}
}

// buildLogger assembles the logger stack: the selected format on
// w, an optional JSON log file, and redaction on top of both.
func (o *options) buildLogger(w io.Writer) (logging.Logger, error) {
	level := logging.LevelInfo
	if o.verbose {
		level = logging.LevelDebug
	}

	var primary logging.Logger
	if o.logFormat == formatJSON {
		jl, err := logging.NewJSONLogger(logging.LoggerConfig{
			Writer:  w,
			Level:   level,
			Verbose: o.verbose,
		})
		if err != nil {
			return nil, err
		}
		primary = jl
	} else {
		primary = logging.NewConsoleLoggerTo(w, o.verbose)
	}

	logger := primary
	if o.logFile != "" {
		fl, err := logging.NewJSONLogger(logging.LoggerConfig{
			OutputPath: o.logFile,
			Level:      level,
			Verbose:    o.verbose,
		})
		if err != nil {
			return nil, err
		}
		logger = logging.NewMultiLogger(primary, fl)
	}

	if len(o.redact) > 0 {
		logger = logging.NewRedactingLogger(logger, o.redact...)
	}
	return logger, nil
}
