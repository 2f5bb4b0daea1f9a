package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wscheck/internal/diagfmt"
	"wscheck/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file>",
	Short: "Dump the tokens and trivia of a file",
	Long:  `Tokenize prints every token with its leading and trailing trivia, the view trailing whitespace detection works on`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig(filePath)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, cfg.Registry(), g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   g.useColor(os.Stderr),
			Context: 1,
		})
	}
	if !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "syntax: %s\n", result.Syntax.Name)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
