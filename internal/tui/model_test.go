package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/selection"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/services/stream"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

func newTestModel(t *testing.T, outputPath string, copier *recordingCopier) (Model, *selection.Model) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "project")
	for _, relativePath := range []string{"a.txt", "b.png", "sub/c.txt"} {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
		require.NoError(t, os.WriteFile(absolutePath, []byte(relativePath), 0o644))
	}
	builder := commands.TreeBuilder{}
	tree, err := builder.Build(root)
	require.NoError(t, err)
	model := selection.New(tree)
	model.ApplyRules(exclusion.NewRuleSet([]string{".png"}, nil, nil), nil)

	options := Options{
		Context:   context.Background(),
		Selection: model,
		Runner:    &export.Runner{},
		Export: export.Options{
			Root:        root,
			OutputPath:  outputPath,
			IncludeTree: true,
			Format:      output.DefaultDocumentFormat(),
		},
	}
	if copier != nil {
		options.Copier = copier
	}
	return New(options), model
}

func runeKey(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func update(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(msg)
	typed, ok := updated.(Model)
	require.True(t, ok)
	return typed, cmd
}

// drain feeds command results back into the model until no command remains.
func drain(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		model, cmd = update(t, model, cmd())
	}
	return model
}

func TestInitialRowsShowExpandedRoot(t *testing.T) {
	model, _ := newTestModel(t, filepath.Join(t.TempDir(), "out.txt"), nil)
	// project, sub, a.txt, b.png
	require.Len(t, model.rows, 4)
	require.Equal(t, selection.RootID, model.rows[0])
	view := model.View()
	require.Contains(t, view, "[~] project/")
	require.Contains(t, view, "[ ] b.png")
	require.Contains(t, view, "tree block: on | 2/3 files selected")
}

func TestNavigationAndExpansion(t *testing.T) {
	model, selectionModel := newTestModel(t, filepath.Join(t.TempDir(), "out.txt"), nil)
	subID, found := selectionModel.Lookup("sub")
	require.True(t, found)

	model, _ = update(t, model, runeKey("j"))
	require.Equal(t, subID, model.rows[model.cursor])

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
	require.Len(t, model.rows, 5)
	require.Contains(t, model.View(), "▾ [x] sub/")

	model, _ = update(t, model, runeKey("j"))
	childID, _ := selectionModel.Lookup("sub/c.txt")
	require.Equal(t, childID, model.rows[model.cursor])

	model, _ = update(t, model, runeKey("h"))
	require.Equal(t, subID, model.rows[model.cursor])

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyLeft})
	require.Len(t, model.rows, 4)
	require.Equal(t, subID, model.rows[model.cursor])

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyUp})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, model.cursor)
}

func TestToggleUpdatesSelectionModel(t *testing.T) {
	model, selectionModel := newTestModel(t, filepath.Join(t.TempDir(), "out.txt"), nil)
	model, _ = update(t, model, runeKey("j"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace})

	require.Equal(t, []string{"a.txt"}, includedFiles(t, selectionModel))
	require.Contains(t, model.View(), "[ ] sub/")

	model, _ = update(t, model, runeKey("t"))
	require.False(t, model.IncludeTree())
	require.Contains(t, model.View(), "tree block: off")
}

func TestExportRunsInBackgroundAndLogsEvents(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	copier := &recordingCopier{}
	model, _ := newTestModel(t, outputPath, copier)

	model, cmd := update(t, model, runeKey("e"))
	require.True(t, model.Running())
	require.NotNil(t, cmd)

	model, _ = update(t, model, runeKey("e"))
	require.Equal(t, statusRunningMessage, model.status)

	model = drain(t, model, cmd)
	require.False(t, model.Running())
	require.Empty(t, model.banner)
	require.Equal(t, statusCopiedMessage, model.status)

	document, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(document), "專案完整目錄結構:\n```\nproject/\n"))
	require.Contains(t, string(document), "(a.txt的內容)")
	require.Contains(t, string(document), "(sub/c.txt的內容)")
	require.NotContains(t, string(document), "(b.png的內容)")
	require.Equal(t, []string{string(document)}, copier.copied)

	var sawSkipped, sawDone bool
	for _, line := range model.log {
		if line.level == stream.LevelSkipped && strings.Contains(line.text, "b.png") {
			sawSkipped = true
		}
		if line.level == stream.LevelSuccess && strings.Contains(line.text, outputPath) {
			sawDone = true
		}
	}
	require.True(t, sawSkipped)
	require.True(t, sawDone)
}

func TestExportFailureShowsBanner(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "missing", "out.txt")
	model, _ := newTestModel(t, outputPath, nil)

	model, cmd := update(t, model, runeKey("e"))
	model = drain(t, model, cmd)

	require.False(t, model.Running())
	require.Contains(t, model.banner, "opening output file")
	require.Contains(t, model.View(), "Export failed")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, model.banner)
}

func TestClipboardFailureShowsBanner(t *testing.T) {
	copier := &recordingCopier{err: errors.New("no clipboard")}
	model, _ := newTestModel(t, filepath.Join(t.TempDir(), "out.txt"), copier)

	model, cmd := update(t, model, runeKey("e"))
	model = drain(t, model, cmd)
	require.Contains(t, model.banner, "no clipboard")
}

func TestQuitAndWindowSize(t *testing.T) {
	model, _ := newTestModel(t, filepath.Join(t.TempDir(), "out.txt"), nil)
	model, _ = update(t, model, tea.WindowSizeMsg{Width: 80, Height: 5})
	require.Equal(t, minimumListHeight, model.listHeight)

	model, cmd := update(t, model, runeKey("q"))
	require.NotNil(t, cmd)
	require.Equal(t, "", model.View())
}

func includedFiles(t *testing.T, model *selection.Model) []string {
	t.Helper()
	candidates, err := model.Candidates(model.RootPath())
	require.NoError(t, err)
	var files []string
	for _, candidate := range candidates {
		if candidate.Included() {
			files = append(files, candidate.RelativePath)
		}
	}
	return files
}
