// Package exclusion decides which paths are left out of content export.
package exclusion

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/ctxpack/internal/utils"
)

// Reason names why a path was excluded from content export.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonExtension  Reason = "extension"
	ReasonDirectory  Reason = "directory"
	ReasonFileName   Reason = "file name"
	ReasonGitignore  Reason = "gitignore"
	ReasonDeselected Reason = "deselected"
	ReasonOutputFile Reason = "output file"
)

const extensionPrefix = "."

// DefaultExtensions lists the extensions excluded when no configuration overrides them.
var DefaultExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".svg", ".webp",
	".zip", ".rar", ".7z", ".tar", ".gz",
	".exe", ".dll", ".db", ".sqlite3", ".log", ".pyc", ".o", ".a", ".so",
	".pt", ".pth", ".pkl", ".bin",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".mp3", ".mp4", ".avi", ".mov", ".csv",
}

// DefaultDirectories lists the directory names excluded by default.
var DefaultDirectories = []string{".git", ".vscode", "__pycache__", "node_modules", "venv", ".idea", "build", "dist"}

// DefaultFiles lists the file names excluded by default.
var DefaultFiles = []string{".DS_Store", "Thumbs.db", "desktop.ini", ".gitkeep"}

// RuleSet holds exclusion rules matched by plain string comparison.
type RuleSet struct {
	extensions  map[string]struct{}
	directories map[string]struct{}
	files       map[string]struct{}
}

// NewRuleSet normalizes the provided lists. Extensions are lower-cased and gain a
// leading dot when missing; blank entries are dropped.
func NewRuleSet(extensions, directories, files []string) RuleSet {
	ruleSet := RuleSet{
		extensions:  map[string]struct{}{},
		directories: map[string]struct{}{},
		files:       map[string]struct{}{},
	}
	for _, extension := range utils.SplitList(extensions...) {
		normalized := strings.ToLower(extension)
		if !strings.HasPrefix(normalized, extensionPrefix) {
			normalized = extensionPrefix + normalized
		}
		ruleSet.extensions[normalized] = struct{}{}
	}
	for _, directory := range utils.SplitList(directories...) {
		ruleSet.directories[strings.TrimSuffix(directory, "/")] = struct{}{}
	}
	for _, file := range utils.SplitList(files...) {
		ruleSet.files[file] = struct{}{}
	}
	return ruleSet
}

// ExcludesDirectory reports whether a directory with the given name is pruned.
func (ruleSet RuleSet) ExcludesDirectory(name string) bool {
	_, excluded := ruleSet.directories[name]
	return excluded
}

// MatchFile reports whether a file name is excluded and by which rule.
// Extension rules are checked before file name rules.
func (ruleSet RuleSet) MatchFile(name string) (Reason, bool) {
	if extension := FileExtension(name); extension != "" {
		if _, excluded := ruleSet.extensions[extension]; excluded {
			return ReasonExtension, true
		}
	}
	if _, excluded := ruleSet.files[name]; excluded {
		return ReasonFileName, true
	}
	return ReasonNone, false
}

// Extensions returns the normalized extension rules in sorted order.
func (ruleSet RuleSet) Extensions() []string { return sortedKeys(ruleSet.extensions) }

// Directories returns the directory rules in sorted order.
func (ruleSet RuleSet) Directories() []string { return sortedKeys(ruleSet.directories) }

// Files returns the file name rules in sorted order.
func (ruleSet RuleSet) Files() []string { return sortedKeys(ruleSet.files) }

// FileExtension returns the lower-cased extension of name including its dot.
// Leading dots are not treated as an extension separator, so ".gitignore" has none.
func FileExtension(name string) string {
	trimmed := strings.TrimLeft(name, extensionPrefix)
	return strings.ToLower(filepath.Ext(trimmed))
}

func sortedKeys(values map[string]struct{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
