// Package config loads ctxpack settings from YAML files through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	DefaultOutputFileName = "project_summary.txt"

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"
	errorDirectoryFormat        = "configuration path %s: %w"
)

var errConfigurationIsDirectory = errors.New("is a directory")

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home lookup for the global file.
	HomeDirectory string
}

// ApplicationConfiguration mirrors the YAML file. Pointer and nil-slice fields
// mean "not set" so that later files and flags only override what they name.
type ApplicationConfiguration struct {
	Export    ExportConfiguration    `mapstructure:"export"`
	Exclude   ExclusionConfiguration `mapstructure:"exclude"`
	Paths     PathConfiguration      `mapstructure:"paths"`
	Tokens    TokenConfiguration     `mapstructure:"tokens"`
	Document  DocumentConfiguration  `mapstructure:"document"`
	Clipboard *bool                  `mapstructure:"clipboard"`
}

type ExportConfiguration struct {
	Output      string `mapstructure:"output"`
	IncludeTree *bool  `mapstructure:"include_tree"`
}

// ExclusionConfiguration lists exclusion rules. A list that is present, even
// empty, replaces the built-in defaults.
type ExclusionConfiguration struct {
	Extensions  []string `mapstructure:"extensions"`
	Directories []string `mapstructure:"directories"`
	Files       []string `mapstructure:"files"`
}

type PathConfiguration struct {
	Hidden       *bool `mapstructure:"hidden"`
	UseGitignore *bool `mapstructure:"use_gitignore"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

type DocumentConfiguration struct {
	TreeHeader string `mapstructure:"tree_header"`
	FileHeader string `mapstructure:"file_header"`
}

// LoadApplicationConfiguration merges the global file, the working directory
// file and an explicitly named file, in that order. Missing global and local
// files are ignored; a missing explicit file is an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalConfig, loadErr := loadConfigurationFromPath(GlobalConfigurationPath(homeDirectory), false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localConfig, loadErr := loadConfigurationFromPath(filepath.Join(workingDirectory, utils.ConfigFileName), false)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if options.ExplicitFilePath != "" {
		explicitPath := options.ExplicitFilePath
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(workingDirectory, explicitPath)
		}
		explicitConfig, explicitErr := loadConfigurationFromPath(explicitPath, true)
		if explicitErr != nil {
			return ApplicationConfiguration{}, explicitErr
		}
		merged = merged.Merge(explicitConfig)
	}

	return merged, nil
}

// GlobalConfigurationPath returns the location of the per-user configuration file.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path, errConfigurationIsDirectory)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Export.Output != "" {
		result.Export.Output = override.Export.Output
	}
	if override.Export.IncludeTree != nil {
		result.Export.IncludeTree = cloneBool(override.Export.IncludeTree)
	}
	result.Exclude = result.Exclude.merge(override.Exclude)
	if override.Paths.Hidden != nil {
		result.Paths.Hidden = cloneBool(override.Paths.Hidden)
	}
	if override.Paths.UseGitignore != nil {
		result.Paths.UseGitignore = cloneBool(override.Paths.UseGitignore)
	}
	if override.Tokens.Enabled != nil {
		result.Tokens.Enabled = cloneBool(override.Tokens.Enabled)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	if override.Document.TreeHeader != "" {
		result.Document.TreeHeader = override.Document.TreeHeader
	}
	if override.Document.FileHeader != "" {
		result.Document.FileHeader = override.Document.FileHeader
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config ExclusionConfiguration) merge(override ExclusionConfiguration) ExclusionConfiguration {
	result := config
	if override.Extensions != nil {
		result.Extensions = utils.DeduplicatePatterns(override.Extensions)
	}
	if override.Directories != nil {
		result.Directories = utils.DeduplicatePatterns(override.Directories)
	}
	if override.Files != nil {
		result.Files = utils.DeduplicatePatterns(override.Files)
	}
	return result
}

// RuleSet builds the exclusion rules, falling back to the defaults for every
// list the configuration leaves unset.
func (config ExclusionConfiguration) RuleSet() exclusion.RuleSet {
	extensions := config.Extensions
	if extensions == nil {
		extensions = exclusion.DefaultExtensions
	}
	directories := config.Directories
	if directories == nil {
		directories = exclusion.DefaultDirectories
	}
	files := config.Files
	if files == nil {
		files = exclusion.DefaultFiles
	}
	return exclusion.NewRuleSet(extensions, directories, files)
}

// DocumentFormat returns the document headers with defaults applied.
func (config DocumentConfiguration) DocumentFormat() output.DocumentFormat {
	format := output.DefaultDocumentFormat()
	if config.TreeHeader != "" {
		format.TreeHeader = config.TreeHeader
	}
	if config.FileHeader != "" {
		format.FileHeader = config.FileHeader
	}
	return format
}

// OutputPath returns the configured output file or the default name.
func (config ExportConfiguration) OutputPath() string {
	if config.Output != "" {
		return config.Output
	}
	return DefaultOutputFileName
}

// TokenModel returns the configured model or the tokenizer default.
func (config TokenConfiguration) TokenModel() string {
	if config.Model != "" {
		return config.Model
	}
	return tokenizer.DefaultModel
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
