package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wscheck/internal/diag"
	"wscheck/internal/diagfmt"
	"wscheck/internal/driver"
	"wscheck/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>",
	Short: "Report trailing whitespace in a file or directory",
	Long: `Check lexes every file with a syntax chosen by its extension and reports
spaces and tabs before each line break and at the end of the file. Exits
with status 1 when anything is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show each fix as before/after lines")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "empty the disk cache before checking (implies --cache)")
	checkCmd.Flags().String("ui", "auto", "progress display for directories (auto|on|off)")
}

type checkFlags struct {
	format    string
	jobs      int
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	cache     bool
	clear     bool
	ui        switchMode
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		f   checkFlags
		err error
	)
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "sarif", "short":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.cache, err = flags.GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if f.clear, err = flags.GetBool("clear-cache"); err != nil {
		return f, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = parseSwitch("ui", uiValue); err != nil {
		return f, err
	}
	return f, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}

	opts, err := g.driverOptions(target)
	if err != nil {
		return err
	}
	opts.Jobs = cf.jobs
	if cf.cache || cf.clear || opts.Config.Cache {
		cache, err := driver.OpenDiskCache("wscheck")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if cf.clear {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		opts.Cache = cache
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var res *driver.CheckResult
	if st.IsDir() && cf.format == "pretty" && !g.quiet && cf.ui.enabled(os.Stdout, os.Stderr) {
		res, err = runCheckWithUI(cmd.Context(), target, opts)
	} else {
		res, err = driver.Check(cmd.Context(), target, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := res.Bag()
	if err := writeDiagnostics(cmd, bag, res, g, cf); err != nil {
		return err
	}
	if g.timings {
		printTimings(cmd.ErrOrStderr(), res)
	}
	if !g.quiet && cf.format == "pretty" {
		printCheckSummary(cmd, bag, res)
	}

	if bag.HasErrors() || bag.HasWarnings() {
		return exitCodeError{code: 1}
	}
	return nil
}

func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, res *driver.CheckResult, g globalFlags, cf checkFlags) error {
	out := cmd.OutOrStdout()
	pathMode := pathModeFor(cf.fullPath)
	showFixes := cf.suggest || cf.preview

	switch cf.format {
	case "pretty":
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       g.useColor(os.Stdout),
			Context:     0,
			PathMode:    pathMode,
			ShowNotes:   cf.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: cf.preview,
		})
	case "short":
		if output := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, cf.withNotes); output != "" {
			fmt.Fprintln(out, output)
		}
	case "json":
		if err := diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     cf.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  cf.preview,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "wscheck",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

func printCheckSummary(cmd *cobra.Command, bag *diag.Bag, res *driver.CheckResult) {
	var skipped, cached int
	for _, fr := range res.Files {
		if fr.Skipped != "" {
			skipped++
		}
		if fr.Cached {
			cached++
		}
	}
	msg := fmt.Sprintf("%d file(s) checked, %d warning(s), %d error(s)",
		len(res.Files), bag.CountBySeverity(diag.SevWarning), bag.CountBySeverity(diag.SevError))
	if skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", skipped)
	}
	if cached > 0 {
		msg += fmt.Sprintf(", %d from cache", cached)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
}
