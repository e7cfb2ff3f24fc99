package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"contenttag/internal/driver"
	"contenttag/internal/pipeline"
	"contenttag/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs the driver while the progress model renders its events.
func runWithUI(ctx context.Context, title string, req *driver.Request) (*driver.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing driver request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, pipeline.DisplayPaths(req.Files, req.BaseDir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// runDriver picks the UI or the plain path.
func runDriver(ctx context.Context, title string, req *driver.Request, withUI bool) (*driver.Result, error) {
	if withUI {
		return runWithUI(ctx, title, req)
	}
	return driver.Run(ctx, req)
}
