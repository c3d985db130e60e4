// Package utils contains general helper functions used across ctxpack.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	hiddenNamePrefix = "."
	listSeparator    = ","
)

// DeduplicatePatterns removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath using forward slashes.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsHiddenName reports whether an entry name denotes a dot-prefixed hidden entry.
func IsHiddenName(name string) bool {
	return name != "." && name != ".." && strings.HasPrefix(name, hiddenNamePrefix)
}

// SplitList splits comma-separated values, trimming whitespace and dropping empty items.
// Each element of values may itself hold several comma-separated items.
func SplitList(values ...string) []string {
	var items []string
	for _, value := range values {
		for _, part := range strings.Split(value, listSeparator) {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			items = append(items, trimmed)
		}
	}
	return DeduplicatePatterns(items)
}
