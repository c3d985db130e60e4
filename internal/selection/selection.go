// Package selection holds the include/exclude state of every entry of a project tree.
// Views address entries only through NodeID values handed out by the model.
package selection

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/types"
)

// NodeID identifies a node for the lifetime of a Model. The root is always 0.
type NodeID int

const (
	RootID   NodeID = 0
	noParent NodeID = -1

	errorUnknownPathFormat = "%w: %s"
	errorUnknownNodeFormat = "%w: %d"
)

var (
	// ErrUnknownPath is returned for relative paths that are not part of the tree.
	ErrUnknownPath = errors.New("path not found in selection")
	// ErrUnknownNode is returned for IDs the model never issued.
	ErrUnknownNode = errors.New("unknown selection node")
)

// State is the rendered checkbox state of a node.
type State int

const (
	StateExcluded State = iota
	StateIncluded
	StatePartial
)

// Node is one entry of the selection tree.
type Node struct {
	ID     NodeID
	Parent NodeID
	Name   string
	// RelativePath uses forward slashes and is empty for the root.
	RelativePath string
	AbsolutePath string
	IsDirectory  bool
	Depth        int
	Children     []NodeID
	Included     bool
	// Reason records the rule that excluded the node when it was seeded.
	Reason exclusion.Reason
}

// Model is the tree-shaped selection set. It is not safe for concurrent use;
// the owner serializes access.
type Model struct {
	rootPath string
	nodes    []*Node
	byPath   map[string]NodeID
}

// New builds a model from tree with every node included. IDs follow a
// depth-first pre-order walk, so they match the row order of a fully expanded tree.
func New(tree *types.TreeNode) *Model {
	model := &Model{byPath: map[string]NodeID{}}
	if tree == nil {
		return model
	}
	model.rootPath = tree.Path
	model.addNode(tree, noParent, "")
	return model
}

func (model *Model) addNode(treeNode *types.TreeNode, parent NodeID, relativePath string) NodeID {
	id := NodeID(len(model.nodes))
	node := &Node{
		ID:           id,
		Parent:       parent,
		Name:         treeNode.Name,
		RelativePath: relativePath,
		AbsolutePath: treeNode.Path,
		IsDirectory:  treeNode.IsDirectory(),
		Depth:        treeNode.Depth,
		Included:     true,
	}
	model.nodes = append(model.nodes, node)
	model.byPath[relativePath] = id
	for _, child := range treeNode.Children {
		childPath := child.Name
		if relativePath != "" {
			childPath = relativePath + "/" + child.Name
		}
		node.Children = append(node.Children, model.addNode(child, id, childPath))
	}
	return id
}

// RootPath returns the absolute directory the model was built from.
func (model *Model) RootPath() string {
	return model.rootPath
}

// Len returns the number of nodes including the root.
func (model *Model) Len() int {
	return len(model.nodes)
}

// Node returns a copy of the node with the given ID.
func (model *Model) Node(id NodeID) (Node, bool) {
	node, found := model.lookup(id)
	if !found {
		return Node{}, false
	}
	copied := *node
	copied.Children = append([]NodeID(nil), node.Children...)
	return copied, true
}

// Lookup resolves a forward-slash relative path to its node ID.
func (model *Model) Lookup(relativePath string) (NodeID, bool) {
	id, found := model.byPath[normalizeRelativePath(relativePath)]
	return id, found
}

// Toggle flips the node and gives every descendant the same new value.
func (model *Model) Toggle(id NodeID) error {
	node, found := model.lookup(id)
	if !found {
		return fmt.Errorf(errorUnknownNodeFormat, ErrUnknownNode, id)
	}
	return model.SetIncluded(id, !node.Included)
}

// SetIncluded sets the node and all of its descendants to included.
func (model *Model) SetIncluded(id NodeID, included bool) error {
	node, found := model.lookup(id)
	if !found {
		return fmt.Errorf(errorUnknownNodeFormat, ErrUnknownNode, id)
	}
	model.setSubtree(node, included, exclusion.ReasonNone)
	return nil
}

// Deselect excludes the entry at relativePath together with its descendants.
func (model *Model) Deselect(relativePath string) error {
	id, found := model.Lookup(relativePath)
	if !found {
		return fmt.Errorf(errorUnknownPathFormat, ErrUnknownPath, relativePath)
	}
	return model.SetIncluded(id, false)
}

// ApplyRules excludes every node matched by rules or gitignore, recording the
// reason. Directory rules exclude the whole subtree.
func (model *Model) ApplyRules(rules exclusion.RuleSet, gitignore *exclusion.GitignoreMatcher) {
	if len(model.nodes) == 0 {
		return
	}
	model.applyRules(model.nodes[RootID], rules, gitignore)
}

func (model *Model) applyRules(node *Node, rules exclusion.RuleSet, gitignore *exclusion.GitignoreMatcher) {
	for _, childID := range node.Children {
		child := model.nodes[childID]
		if child.IsDirectory {
			if rules.ExcludesDirectory(child.Name) {
				model.setSubtree(child, false, exclusion.ReasonDirectory)
				continue
			}
			model.applyRules(child, rules, gitignore)
			continue
		}
		if reason, excluded := rules.MatchFile(child.Name); excluded {
			model.setSubtree(child, false, reason)
		} else if gitignore.Matches(child.RelativePath) {
			model.setSubtree(child, false, exclusion.ReasonGitignore)
		}
	}
}

func (model *Model) setSubtree(node *Node, included bool, reason exclusion.Reason) {
	node.Included = included
	node.Reason = reason
	for _, childID := range node.Children {
		model.setSubtree(model.nodes[childID], included, reason)
	}
}

// State returns the checkbox state. A directory whose descendants disagree is
// partial; otherwise it shows their common value, or its own flag when empty.
func (model *Model) State(id NodeID) State {
	node, found := model.lookup(id)
	if !found {
		return StateExcluded
	}
	if !node.IsDirectory || len(node.Children) == 0 {
		return stateOf(node.Included)
	}
	var sawIncluded, sawExcluded bool
	model.visitDescendants(node, func(descendant *Node) bool {
		if descendant.Included {
			sawIncluded = true
		} else {
			sawExcluded = true
		}
		return !(sawIncluded && sawExcluded)
	})
	switch {
	case sawIncluded && sawExcluded:
		return StatePartial
	case sawIncluded:
		return StateIncluded
	default:
		return StateExcluded
	}
}

func stateOf(included bool) State {
	if included {
		return StateIncluded
	}
	return StateExcluded
}

// visitDescendants calls visit for every descendant in pre-order until visit returns false.
func (model *Model) visitDescendants(node *Node, visit func(*Node) bool) bool {
	for _, childID := range node.Children {
		child := model.nodes[childID]
		if !visit(child) {
			return false
		}
		if !model.visitDescendants(child, visit) {
			return false
		}
	}
	return true
}

// Counts returns how many files are included and how many exist.
func (model *Model) Counts() (included int, total int) {
	for _, node := range model.nodes {
		if node.IsDirectory {
			continue
		}
		total++
		if node.Included {
			included++
		}
	}
	return included, total
}

// Candidates implements commands.CandidateSource. Included files are exported;
// excluded ones are reported with their seeded reason or as deselected. A
// directory excluded as a whole by a directory rule yields a single candidate.
func (model *Model) Candidates(rootDirectoryPath string) ([]commands.Candidate, error) {
	if len(model.nodes) == 0 {
		return nil, nil
	}
	var candidates []commands.Candidate
	model.collectCandidates(model.nodes[RootID], rootDirectoryPath, &candidates)
	commands.SortCandidates(candidates)
	return candidates, nil
}

func (model *Model) collectCandidates(node *Node, rootDirectoryPath string, candidates *[]commands.Candidate) {
	for _, childID := range node.Children {
		child := model.nodes[childID]
		absolutePath := filepath.Join(rootDirectoryPath, filepath.FromSlash(child.RelativePath))
		if child.IsDirectory {
			if child.Reason == exclusion.ReasonDirectory && model.State(child.ID) == StateExcluded {
				*candidates = append(*candidates, commands.Candidate{
					AbsolutePath: absolutePath,
					RelativePath: child.RelativePath,
					IsDirectory:  true,
					Reason:       exclusion.ReasonDirectory,
				})
				continue
			}
			model.collectCandidates(child, rootDirectoryPath, candidates)
			continue
		}
		candidate := commands.Candidate{AbsolutePath: absolutePath, RelativePath: child.RelativePath}
		if !child.Included {
			candidate.Reason = child.Reason
			if candidate.Reason == exclusion.ReasonNone {
				candidate.Reason = exclusion.ReasonDeselected
			}
		}
		*candidates = append(*candidates, candidate)
	}
}

// Visible returns the IDs of the rows shown when only directories for which
// expanded returns true are opened. The root itself is the first row.
func (model *Model) Visible(expanded func(NodeID) bool) []NodeID {
	if len(model.nodes) == 0 {
		return nil
	}
	rows := []NodeID{RootID}
	if expanded(RootID) {
		rows = model.appendVisible(rows, model.nodes[RootID], expanded)
	}
	return rows
}

func (model *Model) appendVisible(rows []NodeID, node *Node, expanded func(NodeID) bool) []NodeID {
	for _, childID := range node.Children {
		rows = append(rows, childID)
		if model.nodes[childID].IsDirectory && expanded(childID) {
			rows = model.appendVisible(rows, model.nodes[childID], expanded)
		}
	}
	return rows
}

func (model *Model) lookup(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(model.nodes) {
		return nil, false
	}
	return model.nodes[id], true
}

func normalizeRelativePath(relativePath string) string {
	normalized := strings.Trim(filepath.ToSlash(strings.TrimSpace(relativePath)), "/")
	if normalized == "." {
		return ""
	}
	return strings.TrimPrefix(normalized, "./")
}
