package selection_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/selection"
)

func buildModel(t *testing.T) (*selection.Model, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "project")
	for _, relativePath := range []string{"a.txt", "b.png", "sub/c.txt", "sub/deep/d.go", "node_modules/m.js"} {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
		require.NoError(t, os.WriteFile(absolutePath, []byte(relativePath), 0o644))
	}
	builder := commands.TreeBuilder{}
	tree, err := builder.Build(root)
	require.NoError(t, err)
	return selection.New(tree), root
}

func mustLookup(t *testing.T, model *selection.Model, relativePath string) selection.NodeID {
	t.Helper()
	id, found := model.Lookup(relativePath)
	require.True(t, found, "missing %s", relativePath)
	return id
}

func TestNewIncludesEverything(t *testing.T) {
	model, root := buildModel(t)
	require.Equal(t, root, model.RootPath())

	included, total := model.Counts()
	require.Equal(t, 5, total)
	require.Equal(t, 5, included)
	require.Equal(t, selection.StateIncluded, model.State(selection.RootID))

	rootNode, found := model.Node(selection.RootID)
	require.True(t, found)
	require.Equal(t, "project", rootNode.Name)
	require.True(t, rootNode.IsDirectory)

	require.Equal(t, []string{"a.txt", "b.png", "node_modules/m.js", "sub/c.txt", "sub/deep/d.go"}, includedFiles(t, model))
}

func TestToggleDirectoryPropagatesToDescendants(t *testing.T) {
	model, _ := buildModel(t)
	subID := mustLookup(t, model, "sub")

	require.NoError(t, model.Toggle(subID))
	for _, relativePath := range []string{"sub", "sub/c.txt", "sub/deep", "sub/deep/d.go"} {
		node, _ := model.Node(mustLookup(t, model, relativePath))
		require.False(t, node.Included, relativePath)
	}
	require.Equal(t, selection.StateExcluded, model.State(subID))
	require.Equal(t, selection.StatePartial, model.State(selection.RootID))

	require.NoError(t, model.Toggle(subID))
	require.Equal(t, selection.StateIncluded, model.State(subID))
	require.Equal(t, selection.StateIncluded, model.State(selection.RootID))
}

func TestPartialStateAfterFileToggle(t *testing.T) {
	model, _ := buildModel(t)
	require.NoError(t, model.Toggle(mustLookup(t, model, "sub/deep/d.go")))

	require.Equal(t, selection.StatePartial, model.State(mustLookup(t, model, "sub")))
	require.Equal(t, selection.StateExcluded, model.State(mustLookup(t, model, "sub/deep")))
	require.Equal(t, selection.StateExcluded, model.State(mustLookup(t, model, "sub/deep/d.go")))
}

func TestDeselectUnknownPath(t *testing.T) {
	model, _ := buildModel(t)
	require.ErrorIs(t, model.Deselect("nope.txt"), selection.ErrUnknownPath)
	require.ErrorIs(t, model.Toggle(selection.NodeID(999)), selection.ErrUnknownNode)
	require.NoError(t, model.Deselect("./sub/c.txt"))
	require.NotContains(t, includedFiles(t, model), "sub/c.txt")
}

func TestApplyRulesAndCandidates(t *testing.T) {
	model, root := buildModel(t)
	model.ApplyRules(exclusion.NewRuleSet([]string{"png"}, []string{"node_modules"}, nil), exclusion.NewGitignoreMatcher("*.go"))
	require.NoError(t, model.Deselect("sub/c.txt"))

	candidates, err := model.Candidates(root)
	require.NoError(t, err)

	reasons := map[string]exclusion.Reason{}
	for _, candidate := range candidates {
		reasons[candidate.RelativePath] = candidate.Reason
		require.Equal(t, filepath.Join(root, filepath.FromSlash(candidate.RelativePath)), candidate.AbsolutePath)
	}
	require.Equal(t, exclusion.ReasonNone, reasons["a.txt"])
	require.Equal(t, exclusion.ReasonExtension, reasons["b.png"])
	require.Equal(t, exclusion.ReasonDirectory, reasons["node_modules"])
	require.Equal(t, exclusion.ReasonDeselected, reasons["sub/c.txt"])
	require.Equal(t, exclusion.ReasonGitignore, reasons["sub/deep/d.go"])
	require.Len(t, candidates, 5)

	var order []string
	for _, candidate := range candidates {
		order = append(order, candidate.RelativePath)
	}
	require.Equal(t, []string{"a.txt", "b.png", "node_modules", "sub/c.txt", "sub/deep/d.go"}, order)
}

func TestReincludedRuleMatchExports(t *testing.T) {
	model, root := buildModel(t)
	model.ApplyRules(exclusion.NewRuleSet(nil, []string{"node_modules"}, nil), nil)
	require.NoError(t, model.Toggle(mustLookup(t, model, "node_modules/m.js")))

	candidates, err := model.Candidates(root)
	require.NoError(t, err)
	for _, candidate := range candidates {
		require.False(t, candidate.IsDirectory)
		require.True(t, candidate.Included(), candidate.RelativePath)
	}
}

func TestVisibleRows(t *testing.T) {
	model, _ := buildModel(t)
	subID := mustLookup(t, model, "sub")

	collapsed := model.Visible(func(id selection.NodeID) bool { return id == selection.RootID })
	require.Len(t, collapsed, 5)
	require.Equal(t, selection.RootID, collapsed[0])

	expanded := model.Visible(func(id selection.NodeID) bool { return id == selection.RootID || id == subID })
	require.Len(t, expanded, 7)

	everything := model.Visible(func(selection.NodeID) bool { return true })
	require.Len(t, everything, model.Len())
	for index, id := range everything {
		require.Equal(t, selection.NodeID(index), id)
	}
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
