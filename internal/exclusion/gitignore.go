package exclusion

import (
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/ctxpack/internal/utils"
)

const errorCompileGitignoreFormat = "compiling %s: %w"

// GitignoreMatcher matches forward-slash relative paths against the root .gitignore.
type GitignoreMatcher struct {
	compiled *ignore.GitIgnore
}

// LoadGitignore compiles rootDirectory/.gitignore. A missing file yields a nil matcher
// and no error; a nil matcher matches nothing.
func LoadGitignore(rootDirectory string) (*GitignoreMatcher, error) {
	gitignorePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	if _, statError := os.Stat(gitignorePath); statError != nil {
		if os.IsNotExist(statError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorCompileGitignoreFormat, gitignorePath, statError)
	}
	compiled, compileError := ignore.CompileIgnoreFile(gitignorePath)
	if compileError != nil {
		return nil, fmt.Errorf(errorCompileGitignoreFormat, gitignorePath, compileError)
	}
	return &GitignoreMatcher{compiled: compiled}, nil
}

// NewGitignoreMatcher compiles the given pattern lines.
func NewGitignoreMatcher(lines ...string) *GitignoreMatcher {
	return &GitignoreMatcher{compiled: ignore.CompileIgnoreLines(lines...)}
}

// Matches reports whether relativePath is ignored.
func (matcher *GitignoreMatcher) Matches(relativePath string) bool {
	if matcher == nil || matcher.compiled == nil {
		return false
	}
	return matcher.compiled.MatchesPath(relativePath)
}
