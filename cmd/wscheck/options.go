package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wscheck/internal/config"
	"wscheck/internal/diagfmt"
	"wscheck/internal/driver"
)

// globalFlags holds the persistent flags every command reads.
type globalFlags struct {
	color          switchMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	configPath     string
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var (
		g   globalFlags
		err error
	)
	flags := cmd.Root().PersistentFlags()
	colorValue, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.color, err = parseSwitch("color", colorValue); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must not be negative")
	}
	if g.configPath, err = flags.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	return g, nil
}

// switchMode is the auto|on|off value of --color and --ui.
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch m := switchMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return switchAuto, nil
	case switchAuto, switchOn, switchOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto to true only when every stream is a terminal.
func (m switchMode) enabled(streams ...*os.File) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	for _, f := range streams {
		if !isTerminal(f) {
			return false
		}
	}
	return true
}

func (g globalFlags) useColor(f *os.File) bool { return g.color.enabled(f) }

// loadConfig reads --config when given, otherwise searches from target.
func (g globalFlags) loadConfig(target string) (*config.Config, error) {
	if g.configPath != "" {
		return config.Load(g.configPath)
	}
	return config.Discover(target)
}

// driverOptions builds check options shared by check, fix and watch.
func (g globalFlags) driverOptions(target string) (driver.Options, error) {
	cfg, err := g.loadConfig(target)
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		Config:         cfg,
		Timings:        g.timings,
	}, nil
}

func pathModeFor(fullPath bool) diagfmt.PathMode {
	if fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeAuto
}
