package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wscheck/internal/diag"
	"wscheck/internal/diagfmt"
	"wscheck/internal/driver"
	"wscheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <directory>",
	Short: "Re-check files whenever they change",
	Long:  `Watch checks the directory once, then re-checks every file that is written or created until interrupted`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultInterval, "quiet period before changed files are re-checked")
	watchCmd.Flags().Bool("fix", false, "remove trailing whitespace from changed files")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	autoFix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return err
	}
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("watch needs a directory, got %s", dir)
	}

	opts, err := g.driverOptions(dir)
	if err != nil {
		return err
	}
	// one registry for every re-check
	opts.Registry = opts.Config.Registry()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	pretty := diagfmt.PrettyOpts{Color: g.useColor(os.Stdout), PathMode: diagfmt.PathModeAuto}

	report := func(res *driver.CheckResult) {
		bag := res.Bag()
		diagfmt.Pretty(out, bag, res.FileSet, pretty)
		if autoFix {
			if applied, err := driver.Fix(ctx, res, fixAllOptions()); err == nil && !g.quiet {
				for _, change := range applied.FileChanges {
					fmt.Fprintf(out, "fixed %s (%d edits)\n", change.Path, change.EditCount)
				}
			}
		}
		if !g.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %d file(s) checked, %d warning(s)\n",
				time.Now().Format(time.TimeOnly), len(res.Files), bag.CountBySeverity(diag.SevWarning))
		}
	}

	initial, err := driver.CheckDir(ctx, dir, opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	report(initial)

	logf := func(format string, args ...any) {
		if !g.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		}
	}
	w, err := watch.New(dir, watch.Options{Interval: debounce, Config: opts.Config, Logf: logf})
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Run(ctx, func(paths []string) {
		for _, p := range paths {
			res, err := driver.CheckFile(ctx, p, opts)
			if err != nil {
				logf("%s: %v", p, err)
				continue
			}
			report(res)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
