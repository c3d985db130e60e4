package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/services/stream"
)

// exportStartedMsg hands the worker channels to the UI loop.
type exportStartedMsg struct {
	events <-chan stream.Event
	result <-chan error
}

type exportEventMsg struct {
	event stream.Event
}

type exportFinishedMsg struct {
	err error
}

type clipboardMsg struct {
	err error
}

// startExport launches the export worker. The worker stores its result before
// closing the event channel, so the result is ready once the channel drains.
func startExport(ctx context.Context, runner *export.Runner, options export.Options) tea.Cmd {
	return func() tea.Msg {
		events := make(chan stream.Event)
		result := make(chan error, 1)
		go func() {
			result <- runner.Run(ctx, options, events)
			close(events)
		}()
		return exportStartedMsg{events: events, result: result}
	}
}

// waitForEvent delivers the next worker event as a message.
func waitForEvent(events <-chan stream.Event, result <-chan error) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return exportFinishedMsg{err: <-result}
		}
		return exportEventMsg{event: event}
	}
}

func copyDocument(copier clipboard.Copier, path string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.CopyFile(copier, path)}
	}
}
