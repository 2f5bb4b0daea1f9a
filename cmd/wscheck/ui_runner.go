package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wscheck/internal/driver"
	"wscheck/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI checks dir while a progress view runs on stderr. The view
// ends when the check closes the event channel.
func runCheckWithUI(ctx context.Context, dir string, opts driver.Options) (*driver.CheckResult, error) {
	files, err := driver.ListFiles(dir, opts.Config)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckDir(ctx, dir, o)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	title := fmt.Sprintf("checking %s", dir)
	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may stop early; keep the check from blocking on sends
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
