// Package types defines every cross‑package data structure used by the ctxpack CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandExport = "export"

	ProgressRaw  = "raw"
	ProgressJSON = "json"
)

// TreeNode is one directory entry of a traversed hierarchy. The caller owns the
// returned tree; nothing retains a reference after building completes.
type TreeNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Depth    int         `json:"depth"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

// CountEntries returns the number of files and directories below node, excluding node itself.
func (node *TreeNode) CountEntries() (files int, directories int) {
	if node == nil {
		return 0, 0
	}
	for _, child := range node.Children {
		if child.IsDirectory() {
			directories++
			childFiles, childDirectories := child.CountEntries()
			files += childFiles
			directories += childDirectories
		} else {
			files++
		}
	}
	return files, directories
}

// ExportSummary captures aggregate information about a finished export.
type ExportSummary struct {
	Processed     int    `json:"processed"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
	// Bytes counts exported file content; DocumentBytes the whole output document.
	Bytes         int64  `json:"bytes"`
	DocumentBytes int64  `json:"documentBytes"`
	TotalSize     string `json:"totalSize"`
	Tokens        int    `json:"tokens,omitempty"`
	Model         string `json:"model,omitempty"`
}
