// Package output renders directory trees, export documents and progress events.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/ctxpack/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"
)

// RenderTree returns the tree block lines for node: the root name followed by
// one connector line per descendant. Directory names carry a trailing slash.
func RenderTree(node *types.TreeNode) []string {
	if node == nil {
		return nil
	}
	lines := []string{node.Name + directorySuffix}
	for index, child := range node.Children {
		lines = appendTreeNode(lines, child, "", index == len(node.Children)-1)
	}
	return lines
}

// WriteTree writes the lines produced by RenderTree, one per line.
func WriteTree(writer io.Writer, node *types.TreeNode) error {
	for _, line := range RenderTree(node) {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func appendTreeNode(lines []string, node *types.TreeNode, prefix string, isLast bool) []string {
	if node == nil {
		return lines
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isLast)
	if !node.IsDirectory() {
		return append(lines, linePrefix+node.Name)
	}
	lines = append(lines, linePrefix+node.Name+directorySuffix)
	for index, child := range node.Children {
		lines = appendTreeNode(lines, child, childPrefix, index == len(node.Children)-1)
	}
	return lines
}

// FormatSummaryLine renders the closing line of an export run.
func FormatSummaryLine(summary *types.ExportSummary) string {
	if summary == nil {
		summary = &types.ExportSummary{}
	}
	label := "files"
	if summary.Processed == 1 {
		label = "file"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Summary: %d %s exported, %d skipped, %d failed, %s", summary.Processed, label, summary.Skipped, summary.Failed, summary.TotalSize)
	if summary.Tokens > 0 {
		fmt.Fprintf(&builder, ", %d tokens", summary.Tokens)
		if summary.Model != "" {
			fmt.Fprintf(&builder, " (model: %s)", summary.Model)
		}
	}
	return builder.String()
}
