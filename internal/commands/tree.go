// Package commands contains the core logic for collecting tree and content data.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be processed.
	warningSkipSubdirFormat = "Warning: skipping subdirectory %s due to error: %v"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "inspecting %s: %w"
)

// ErrNotDirectory is returned when a tree root is not a directory.
var ErrNotDirectory = errors.New("path is not a directory")

// Build walks rootDirectoryPath and returns its hierarchy as a nested node. At every
// level directories precede files and both groups are sorted by name. The root node
// has depth 0. Warnings for unreadable subdirectories go to the Warn callback and
// leave the directory without children.
func (treeBuilder *TreeBuilder) Build(rootDirectoryPath string) (*types.TreeNode, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootDirPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootDirPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorBuildTreeFormat, absoluteRootDirPath, ErrNotDirectory)
	}

	rootNode := &types.TreeNode{
		Path: absoluteRootDirPath,
		Name: filepath.Base(absoluteRootDirPath),
		Type: types.NodeTypeDirectory,
	}
	children, buildError := treeBuilder.buildTreeNodes(absoluteRootDirPath, 1)
	if buildError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, absoluteRootDirPath, buildError)
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes recursively builds child nodes for the directory tree.
func (treeBuilder *TreeBuilder) buildTreeNodes(currentDirectoryPath string, depth int) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	var directories []*types.TreeNode
	var files []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		if !treeBuilder.IncludeHidden && utils.IsHiddenName(directoryEntry.Name()) {
			continue
		}
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		node := &types.TreeNode{
			Path:  childPath,
			Name:  directoryEntry.Name(),
			Depth: depth,
		}
		if isSymlinkedDirectory(childPath, directoryEntry) {
			node.Type = types.NodeTypeDirectory
			directories = append(directories, node)
			continue
		}
		if !directoryEntry.IsDir() {
			node.Type = types.NodeTypeFile
			files = append(files, node)
			continue
		}
		node.Type = types.NodeTypeDirectory
		childNodes, buildError := treeBuilder.buildTreeNodes(childPath, depth+1)
		if buildError != nil {
			treeBuilder.warn(fmt.Sprintf(warningSkipSubdirFormat, childPath, buildError))
		} else {
			node.Children = childNodes
		}
		directories = append(directories, node)
	}

	sortNodesByName(directories)
	sortNodesByName(files)
	return append(directories, files...), nil
}

// isSymlinkedDirectory reports whether entry is a symbolic link resolving to a
// directory. Such links are listed as empty directories and never descended into.
func isSymlinkedDirectory(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func sortNodesByName(nodes []*types.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
}
