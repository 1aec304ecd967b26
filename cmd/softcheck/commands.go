package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.softassert/pkg/checkfile"
	"digital.vasic.softassert/pkg/history"
)

func newEvalCmd(opts *options) *cobra.Command {
	var (
		hard        bool
		parallelism int
	)
	cmd := &cobra.Command{
		Use:   "eval PATH...",
		Short: "Evaluate check files or directories of check files",
		Example: `  softcheck eval checks/login.yaml
  softcheck eval --hard checks/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := checkfile.LoadPaths(args...)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no check files found")
			}
			return withApp(cmd, opts, func(a *app) error {
				return a.runFiles(cmd.Context(), files, hard, parallelism)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "stop each file at its first failing check")
	cmd.Flags().IntVarP(&parallelism, "parallel", "p", 1, "number of files evaluated at once")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "check CHECK...",
		Short: "Evaluate checks given as kind:arg1,arg2",
		Example: `  softcheck check "equal:1,2" "list_has_item:[1,2,4],4"
  softcheck check "date_format:2023-01-31,%Y-%m-%d"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := checkfile.File{Name: "command-line"}
			for _, arg := range args {
				f.Checks = append(f.Checks, checkfile.ParseCheckString(arg))
			}
			return withApp(cmd, opts, func(a *app) error {
				return a.runFiles(cmd.Context(), []checkfile.File{f}, hard, 1)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "stop at the first failing check")
	return cmd
}

func newKindsCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the supported check kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, kind := range checkfile.NewEngine(nil).Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
			return nil
		},
	}
}

func withApp(cmd *cobra.Command, opts *options, fn func(*app) error) error {
	a, err := newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newHistoryCmd(opts *options) *cobra.Command {
	var q history.Query
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs, newest first",
		Example: `  softcheck history --history runs.db
  softcheck history --history runs.db --file login --status failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.historyPath == "" {
				return errors.New("no history database: set --history or " + envHistory)
			}
			store, err := history.Open(opts.historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.ID,
					e.Timestamp.Format(time.RFC3339),
					e.RunID,
					e.File,
					e.Status,
					e.Duration.Round(time.Millisecond),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&q.File, "file", "", "only show runs of this check file")
	cmd.Flags().StringVar(&q.Status, "status", "", "only show runs with this status (passed, failed, skipped)")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")
	return cmd
}
