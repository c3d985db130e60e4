package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	// warningAccessPathFormat is used when a walked path cannot be accessed.
	warningAccessPathFormat = "Warning: error accessing path %s: %v"
	// errorWalkRootFormat is used when the root directory walk fails.
	errorWalkRootFormat = "walking %s: %w"
	// errorEscapingPathFormat rejects explicit paths that leave the root.
	errorEscapingPathFormat = "path %s is outside of %s"
)

// Candidate is one path considered for content export. Directories appear only when
// they were pruned as a whole.
type Candidate struct {
	AbsolutePath string
	// RelativePath is relative to the export root and always uses forward slashes.
	RelativePath string
	IsDirectory  bool
	Reason       exclusion.Reason
}

// Included reports whether the candidate content is exported.
func (candidate Candidate) Included() bool {
	return candidate.Reason == exclusion.ReasonNone
}

// CandidateSource yields the candidates of an export rooted at an absolute directory.
type CandidateSource interface {
	Candidates(rootDirectoryPath string) ([]Candidate, error)
}

// RuleSource selects files by walking the root and applying exclusion rules.
type RuleSource struct {
	Rules         exclusion.RuleSet
	Gitignore     *exclusion.GitignoreMatcher
	IncludeHidden bool
	Warn          func(message string)
}

// Candidates walks rootDirectoryPath and returns every visible file plus every pruned
// directory, sorted by relative path.
func (source RuleSource) Candidates(rootDirectoryPath string) ([]Candidate, error) {
	var candidates []Candidate
	walkError := filepath.WalkDir(rootDirectoryPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			if walkedPath == rootDirectoryPath {
				return accessError
			}
			if source.Warn != nil {
				source.Warn(fmt.Sprintf(warningAccessPathFormat, walkedPath, accessError))
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, rootDirectoryPath)
		if relativePath == "." {
			return nil
		}
		if !source.IncludeHidden && utils.IsHiddenName(directoryEntry.Name()) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if isSymlinkedDirectory(walkedPath, directoryEntry) {
			return nil
		}

		candidate := Candidate{
			AbsolutePath: walkedPath,
			RelativePath: relativePath,
			IsDirectory:  directoryEntry.IsDir(),
		}
		if directoryEntry.IsDir() {
			if source.Rules.ExcludesDirectory(directoryEntry.Name()) {
				candidate.Reason = exclusion.ReasonDirectory
				candidates = append(candidates, candidate)
				return filepath.SkipDir
			}
			return nil
		}

		if reason, excluded := source.Rules.MatchFile(directoryEntry.Name()); excluded {
			candidate.Reason = reason
		} else if source.Gitignore.Matches(relativePath) {
			candidate.Reason = exclusion.ReasonGitignore
		}
		candidates = append(candidates, candidate)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkRootFormat, rootDirectoryPath, walkError)
	}
	SortCandidates(candidates)
	return candidates, nil
}

// ListSource selects an explicit list of files relative to the root.
type ListSource struct {
	Files []string
}

// Candidates returns the listed files in sorted order. Listed paths are not checked
// for existence; unreadable files fail later at read time.
func (source ListSource) Candidates(rootDirectoryPath string) ([]Candidate, error) {
	seen := map[string]struct{}{}
	var candidates []Candidate
	for _, listedPath := range source.Files {
		trimmed := strings.TrimSpace(listedPath)
		if trimmed == "" {
			continue
		}
		absolutePath := trimmed
		if !filepath.IsAbs(absolutePath) {
			absolutePath = filepath.Join(rootDirectoryPath, filepath.FromSlash(trimmed))
		}
		absolutePath = filepath.Clean(absolutePath)
		relativePath := utils.RelativePathOrSelf(absolutePath, rootDirectoryPath)
		if relativePath == "." || relativePath == ".." || strings.HasPrefix(relativePath, "../") || filepath.IsAbs(relativePath) {
			return nil, fmt.Errorf(errorEscapingPathFormat, listedPath, rootDirectoryPath)
		}
		if _, duplicate := seen[relativePath]; duplicate {
			continue
		}
		seen[relativePath] = struct{}{}
		candidates = append(candidates, Candidate{AbsolutePath: absolutePath, RelativePath: relativePath})
	}
	SortCandidates(candidates)
	return candidates, nil
}

// FixedSource replays a candidate list captured earlier, typically a snapshot of
// an interactive selection taken before the export worker starts.
type FixedSource []Candidate

// Candidates returns a sorted copy of the captured list.
func (source FixedSource) Candidates(string) ([]Candidate, error) {
	candidates := append([]Candidate(nil), source...)
	SortCandidates(candidates)
	return candidates, nil
}

// SortCandidates orders candidates by relative path.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelativePath < candidates[j].RelativePath
	})
}

// ResolveRoot returns the cleaned absolute form of a directory path.
func ResolveRoot(rootPath string) (string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)
	info, statError := os.Stat(cleanedRootPath)
	if statError != nil {
		return "", fmt.Errorf(errorStatRootFormat, cleanedRootPath, statError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorBuildTreeFormat, cleanedRootPath, ErrNotDirectory)
	}
	return cleanedRootPath, nil
}
