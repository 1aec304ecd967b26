package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// errChecksFailed is returned once failing checks have been
// reported; main exits non-zero without printing it again.
var errChecksFailed = errors.New("checks failed")

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "softcheck",
		Short: "Evaluate soft assertion check files",
		Long: `softcheck evaluates checks declared in YAML or JSON files.

All checks of a file run in one soft assertion session: a failing
check does not stop the file, and every failure is reported together
when the file finishes. Use --hard to stop at the first failure.

Configuration is read from flags, then SOFTCHECK_* environment
variables, then an optional .env file given with --env-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", "",
		"load configuration from a .env file")
	pf.StringVar(&opts.logFormat, "log-format", formatConsole,
		"log format: console or json ($SOFTCHECK_LOG_FORMAT)")
	pf.StringVar(&opts.logFile, "log-file", "",
		"also write JSON logs to this file ($SOFTCHECK_LOG_FILE)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging ($SOFTCHECK_VERBOSE)")
	pf.StringSliceVar(&opts.redact, "redact", nil,
		"secrets to mask in log output ($SOFTCHECK_REDACT)")
	pf.StringVar(&opts.monitorAddr, "monitor", "",
		"serve live outcomes on this address ($SOFTCHECK_MONITOR_ADDR)")
	pf.StringVar(&opts.historyPath, "history", "",
		"record runs in this history database ($SOFTCHECK_HISTORY)")

	root.AddCommand(
		newEvalCmd(opts),
		newCheckCmd(opts),
		newKindsCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}
