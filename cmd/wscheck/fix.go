package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wscheck/internal/diag"
	"wscheck/internal/diagfmt"
	"wscheck/internal/driver"
	"wscheck/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Remove trailing whitespace from a file or directory",
	Long: `Fix checks the target and removes the reported whitespace. By default every
safe fix is applied; --once applies the first one and --id a specific one.
Files with lexical errors are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes (default)")
	fixCmd.Flags().Bool("once", false, "apply the first available fix")
	fixCmd.Flags().String("id", "", "apply fixes with a specific identifier, e.g. WS2001-3-7")
	fixCmd.Flags().Bool("dry-run", false, "compute changes without writing files")
	fixCmd.Flags().Bool("diff", false, "print a unified diff of every changed file")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeAll
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyOnce:
		mode = fix.ApplyModeOnce
	}

	opts, err := g.driverOptions(target)
	if err != nil {
		return err
	}
	opts.Jobs = jobs

	res, err := driver.Check(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("fix: check failed: %w", err)
	}
	reportUnfixable(cmd.ErrOrStderr(), res, g)

	applied, applyErr := driver.Fix(cmd.Context(), res, fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	})
	if showDiff && applied != nil {
		for _, change := range applied.FileChanges {
			if err := diagfmt.UnifiedDiff(cmd.OutOrStdout(), change.Path, change.Before, change.After, 3); err != nil {
				return err
			}
		}
	}
	if g.quiet && applyErr == nil {
		return nil
	}
	return handleApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

// reportUnfixable prints the errors of files fix will not touch.
func reportUnfixable(out io.Writer, res *driver.CheckResult, g globalFlags) {
	bag := diag.NewBag(0)
	for _, fr := range res.Files {
		if fr.Skipped != "" {
			bag.Merge(fr.Bag)
		}
	}
	bag.Filter(func(d diag.Diagnostic) bool { return d.Severity == diag.SevError })
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
		Color:    g.useColor(os.Stderr),
		PathMode: diagfmt.PathModeAuto,
	})
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 && !dryRun {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}

func fixAllOptions() fix.ApplyOptions {
	return fix.ApplyOptions{Mode: fix.ApplyModeAll}
}
