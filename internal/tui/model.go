// Package tui implements the interactive checkbox tree used by `ctxpack select`.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/selection"
	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/services/stream"
)

const (
	defaultListHeight = 20
	minimumListHeight = 3
	reservedLines     = 10
	maximumLogLines   = 6

	statusRunningMessage  = "An export is already running."
	statusDoneMessage     = "Export complete: %s"
	statusCopiedMessage   = "Output copied to the clipboard."
	bannerExportFormat    = "Export failed: %v"
	bannerClipboardFormat = "Clipboard copy failed: %v"
	bannerSelectionFormat = "Selection error: %v"
)

// Options wires the screen to its selection model and export machinery.
type Options struct {
	Context   context.Context
	Selection *selection.Model
	Runner    *export.Runner
	// Export is the template of every run; Source and IncludeTree are set per run.
	Export export.Options
	// Copier receives the finished document; nil disables copying.
	Copier clipboard.Copier
}

type logLine struct {
	level stream.Level
	text  string
}

// Model is the Bubble Tea model of the selection screen. Rows hold selection
// node IDs; the selection model is the only source of include state.
type Model struct {
	options  Options
	keys     keyMap
	help     help.Model
	styles   styles
	expanded map[selection.NodeID]bool

	rows       []selection.NodeID
	cursor     int
	offset     int
	listHeight int

	includeTree bool
	running     bool
	events      <-chan stream.Event
	result      <-chan error
	log         []logLine
	banner      string
	status      string
	quitting    bool
}

// New returns the initial screen with the root expanded.
func New(options Options) Model {
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Runner == nil {
		options.Runner = &export.Runner{}
	}
	model := Model{
		options:     options,
		keys:        defaultKeyMap(),
		help:        help.New(),
		styles:      newStyles(),
		expanded:    map[selection.NodeID]bool{selection.RootID: true},
		listHeight:  defaultListHeight,
		includeTree: options.Export.IncludeTree,
	}
	model.refreshRows()
	return model
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		model.listHeight = typed.Height - reservedLines
		if model.listHeight < minimumListHeight {
			model.listHeight = minimumListHeight
		}
		model.help.Width = typed.Width
		model.clampOffset()
		return model, nil
	case tea.KeyMsg:
		return model.handleKey(typed)
	case exportStartedMsg:
		model.events = typed.events
		model.result = typed.result
		return model, waitForEvent(model.events, model.result)
	case exportEventMsg:
		model.appendLog(typed.event.LevelOf(), typed.event.Text())
		return model, waitForEvent(model.events, model.result)
	case exportFinishedMsg:
		return model.finishExport(typed.err)
	case clipboardMsg:
		if typed.err != nil {
			model.banner = fmt.Sprintf(bannerClipboardFormat, typed.err)
			return model, nil
		}
		model.status = statusCopiedMessage
		return model, nil
	}
	return model, nil
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		model.quitting = true
		return model, tea.Quit
	case key.Matches(msg, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(msg, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(msg, model.keys.Toggle):
		if id, ok := model.currentID(); ok {
			if err := model.options.Selection.Toggle(id); err != nil {
				model.banner = fmt.Sprintf(bannerSelectionFormat, err)
			}
		}
	case key.Matches(msg, model.keys.Expand):
		if node, ok := model.currentNode(); ok && node.IsDirectory {
			model.expanded[node.ID] = true
			model.refreshRows()
		}
	case key.Matches(msg, model.keys.Collapse):
		model.collapse()
	case key.Matches(msg, model.keys.TreeToggle):
		model.includeTree = !model.includeTree
	case key.Matches(msg, model.keys.Dismiss):
		model.banner = ""
	case key.Matches(msg, model.keys.Export):
		return model.beginExport()
	}
	return model, nil
}

// beginExport snapshots the selection so the worker never reads the model
// while the UI keeps mutating it.
func (model Model) beginExport() (tea.Model, tea.Cmd) {
	if model.running || model.options.Runner.Running() {
		model.status = statusRunningMessage
		return model, nil
	}
	snapshot, err := model.options.Selection.Candidates(model.options.Export.Root)
	if err != nil {
		model.banner = fmt.Sprintf(bannerSelectionFormat, err)
		return model, nil
	}
	options := model.options.Export
	options.Source = commands.FixedSource(snapshot)
	options.IncludeTree = model.includeTree

	model.running = true
	model.banner = ""
	model.status = ""
	model.log = nil
	return model, startExport(model.options.Context, model.options.Runner, options)
}

func (model Model) finishExport(err error) (tea.Model, tea.Cmd) {
	model.running = false
	model.events = nil
	model.result = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return model, nil
		}
		model.banner = fmt.Sprintf(bannerExportFormat, err)
		return model, nil
	}
	outputPath, absoluteError := filepath.Abs(model.options.Export.OutputPath)
	if absoluteError != nil {
		outputPath = model.options.Export.OutputPath
	}
	model.status = fmt.Sprintf(statusDoneMessage, outputPath)
	if model.options.Copier != nil {
		return model, copyDocument(model.options.Copier, outputPath)
	}
	return model, nil
}

func (model *Model) collapse() {
	node, ok := model.currentNode()
	if !ok {
		return
	}
	if node.IsDirectory && model.expanded[node.ID] {
		delete(model.expanded, node.ID)
		model.refreshRows()
		return
	}
	if node.Parent < 0 {
		return
	}
	for index, id := range model.rows {
		if id == node.Parent {
			model.cursor = index
			model.clampOffset()
			return
		}
	}
}

func (model *Model) moveCursor(delta int) {
	if len(model.rows) == 0 {
		return
	}
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	model.clampOffset()
}

func (model *Model) clampOffset() {
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+model.listHeight {
		model.offset = model.cursor - model.listHeight + 1
	}
	if model.offset < 0 {
		model.offset = 0
	}
}

func (model *Model) refreshRows() {
	if model.options.Selection == nil {
		model.rows = nil
		return
	}
	current, hadCurrent := model.currentID()
	model.rows = model.options.Selection.Visible(func(id selection.NodeID) bool {
		return model.expanded[id]
	})
	model.cursor = 0
	if hadCurrent {
		for index, id := range model.rows {
			if id == current {
				model.cursor = index
				break
			}
		}
	}
	model.clampOffset()
}

func (model Model) currentID() (selection.NodeID, bool) {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return 0, false
	}
	return model.rows[model.cursor], true
}

func (model Model) currentNode() (selection.Node, bool) {
	id, ok := model.currentID()
	if !ok {
		return selection.Node{}, false
	}
	return model.options.Selection.Node(id)
}

func (model *Model) appendLog(level stream.Level, text string) {
	if text == "" {
		return
	}
	model.log = append(model.log, logLine{level: level, text: text})
}

// Running reports whether an export started from this screen is in flight.
func (model Model) Running() bool {
	return model.running
}

// IncludeTree reports the current tree block toggle.
func (model Model) IncludeTree() bool {
	return model.includeTree
}
