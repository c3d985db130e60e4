package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `export:
  output: %s
  include_tree: true
exclude:
  extensions: %s
  directories: %s
  files: %s
paths:
  hidden: false
  use_gitignore: false
tokens:
  enabled: false
  model: %s
document:
  tree_header: %s
  file_header: %s
clipboard: false
`

	errorInitDirectoryFormat = "create configuration directory %s: %w"
	errorInitExistsFormat    = "%w: %s"
	errorInitWriteFormat     = "write configuration to %s: %w"
	errorInitHomeFormat      = "resolve home directory: %w"
	errorInitTargetFormat    = "unsupported init target %q"
)

// ErrConfigurationExists is returned by InitializeConfiguration when the target
// file exists and Force is not set.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultConfigurationTemplate renders the configuration written by init.
func DefaultConfigurationTemplate() string {
	return fmt.Sprintf(defaultConfigurationTemplate,
		strconv.Quote(DefaultOutputFileName),
		flowSequence(exclusion.DefaultExtensions),
		flowSequence(exclusion.DefaultDirectories),
		flowSequence(exclusion.DefaultFiles),
		tokenizer.DefaultModel,
		strconv.Quote(output.DefaultTreeHeader),
		strconv.Quote(output.DefaultFileHeaderFormat),
	)
}

func flowSequence(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, strconv.Quote(value))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// InitializeConfiguration writes the default configuration for options.Target and
// returns the written path. An existing file is only replaced with Force.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, err := initDestination(options)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0o755); err != nil {
		return "", fmt.Errorf(errorInitDirectoryFormat, filepath.Dir(destinationPath), err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if options.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(destinationPath, flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf(errorInitExistsFormat, ErrConfigurationExists, destinationPath)
		}
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}
	if _, err := file.WriteString(DefaultConfigurationTemplate()); err != nil {
		_ = file.Close()
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		directory := options.WorkingDirectory
		if directory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(errorWorkingDirectoryFormat, err)
			}
			directory = current
		}
		return filepath.Join(directory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		home := options.HomeDirectory
		if home == "" {
			resolved, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf(errorInitHomeFormat, err)
			}
			home = resolved
		}
		return GlobalConfigurationPath(home), nil
	default:
		return "", fmt.Errorf(errorInitTargetFormat, options.Target)
	}
}
