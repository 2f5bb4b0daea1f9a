package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wscheck/internal/version"
)

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show wscheck build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			renderVersionPretty(cmd.OutOrStdout(), info, versionShowFull, g.useColor(os.Stdout))
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info, versionShowFull)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer, info version.Info, full, useColor bool) {
	name := color.New(color.FgCyan, color.Bold)
	label := color.New(color.Faint)
	for _, c := range []*color.Color{name, label} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if !full {
		fmt.Fprintln(out, info.String())
		return
	}
	fmt.Fprintf(out, "%s %s\n", name.Sprint("wscheck"), info.Version)
	fmt.Fprintf(out, "%s %s\n", label.Sprint("commit:"), valueOrUnknown(info.GitCommit))
	fmt.Fprintf(out, "%s %s\n", label.Sprint("built: "), valueOrUnknown(info.BuildDate))
	fmt.Fprintf(out, "%s %s\n", label.Sprint("go:    "), valueOrUnknown(info.GoVersion))
}

func renderVersionJSON(out io.Writer, info version.Info, full bool) error {
	if !full {
		info = version.Info{Version: info.Version}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
