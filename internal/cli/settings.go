package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/config"
	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	outputFlagName             = "output"
	outputFlagShorthand        = "o"
	excludeExtensionFlagName   = "exclude-ext"
	excludeDirectoryFlagName   = "exclude-dir"
	excludeFileFlagName        = "exclude-file"
	treeFlagName               = "tree"
	hiddenFlagName             = "hidden"
	gitignoreFlagName          = "gitignore"
	tokensFlagName             = "tokens"
	modelFlagName              = "model"
	copyFlagName               = "copy"
	configFlagName             = "config"
	outputFlagDescription      = "output file (default from configuration or " + config.DefaultOutputFileName + ")"
	excludeExtensionFlagUsage  = "file extensions to exclude, comma-separated; replaces the configured list"
	excludeDirectoryFlagUsage  = "directory names to exclude, comma-separated; replaces the configured list"
	excludeFileFlagUsage       = "file names to exclude, comma-separated; replaces the configured list"
	treeFlagDescription        = "prepend the directory tree block (yes/no)"
	hiddenFlagDescription      = "include dot-prefixed files and directories"
	gitignoreFlagDescription   = "exclude files matched by the root .gitignore"
	tokensFlagDescription      = "report a token estimate of the exported content"
	modelFlagDescription       = "tokenizer model used for the token estimate"
	copyFlagDescription        = "copy the finished document to the clipboard"
	configFlagDescription      = "path to an additional configuration file"
	errorLoadConfigurationFmt  = "load configuration: %w"
	errorResolveRootFormat     = "resolve project directory: %w"
	errorTokenizerFormat       = "prepare token counter: %w"
	errorLoadGitignoreFormat   = "load .gitignore: %w"
	errorWorkingDirectoryFmt   = "determine working directory: %w"
	unsupportedProgressMessage = "unsupported progress format %q (expected %s or %s)"
)

// exportFlags holds the values of the flags shared by export and select.
type exportFlags struct {
	outputPath         string
	excludeExtensions  []string
	excludeDirectories []string
	excludeFiles       []string
	includeTree        bool
	includeHidden      bool
	useGitignore       bool
	tokens             bool
	model              string
	copyToClipboard    bool
	configPath         string
}

func addExportFlags(command *cobra.Command, flags *exportFlags) {
	flagSet := command.Flags()
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flagSet.StringArrayVar(&flags.excludeExtensions, excludeExtensionFlagName, nil, excludeExtensionFlagUsage)
	flagSet.StringArrayVar(&flags.excludeDirectories, excludeDirectoryFlagName, nil, excludeDirectoryFlagUsage)
	flagSet.StringArrayVar(&flags.excludeFiles, excludeFileFlagName, nil, excludeFileFlagUsage)
	registerBooleanFlag(flagSet, &flags.includeTree, treeFlagName, true, treeFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	registerBooleanFlag(flagSet, &flags.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
}

// exportSettings is the outcome of merging configuration files with flags.
type exportSettings struct {
	rootPath        string
	outputPath      string
	rules           exclusion.RuleSet
	gitignore       *exclusion.GitignoreMatcher
	useGitignore    bool
	includeTree     bool
	includeHidden   bool
	format          output.DocumentFormat
	tokenCounter    tokenizer.Counter
	tokenModel      string
	copyToClipboard bool
}

// resolveExportSettings loads configuration and lets every flag the user set override it.
func resolveExportSettings(command *cobra.Command, deps *dependencies, flags exportFlags, arguments []string) (exportSettings, error) {
	workingDirectory, loaded, err := loadConfiguration(deps, flags.configPath)
	if err != nil {
		return exportSettings{}, err
	}
	applyFlagOverrides(command, flags, &loaded)

	rootPath, err := resolveRootArgument(workingDirectory, arguments)
	if err != nil {
		return exportSettings{}, err
	}

	outputPath := loaded.Export.OutputPath()
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(workingDirectory, outputPath)
	}

	settings := exportSettings{
		rootPath:        rootPath,
		outputPath:      outputPath,
		rules:           loaded.Exclude.RuleSet(),
		useGitignore:    config.BoolValue(loaded.Paths.UseGitignore, false),
		includeTree:     config.BoolValue(loaded.Export.IncludeTree, true),
		includeHidden:   config.BoolValue(loaded.Paths.Hidden, false),
		format:          loaded.Document.DocumentFormat(),
		copyToClipboard: config.BoolValue(loaded.Clipboard, false),
	}
	if settings.useGitignore {
		matcher, loadErr := exclusion.LoadGitignore(rootPath)
		if loadErr != nil {
			return exportSettings{}, fmt.Errorf(errorLoadGitignoreFormat, loadErr)
		}
		settings.gitignore = matcher
	}
	if config.BoolValue(loaded.Tokens.Enabled, false) {
		counter, model, counterErr := tokenizer.NewCounter(tokenizer.Config{Model: loaded.Tokens.TokenModel()})
		if counterErr != nil {
			return exportSettings{}, fmt.Errorf(errorTokenizerFormat, counterErr)
		}
		settings.tokenCounter = counter
		settings.tokenModel = model
	}
	deps.logger.Debug("resolved export settings",
		zap.String("root", settings.rootPath),
		zap.String("output", settings.outputPath),
		zap.Bool("tree", settings.includeTree),
		zap.Bool("hidden", settings.includeHidden),
		zap.Bool("gitignore", settings.useGitignore),
		zap.Strings("extensions", settings.rules.Extensions()),
	)
	return settings, nil
}

// loadConfiguration merges the global, local and explicit configuration files
// seen from the working directory.
func loadConfiguration(deps *dependencies, explicitPath string) (string, config.ApplicationConfiguration, error) {
	workingDirectory, err := deps.workingDir()
	if err != nil {
		return "", config.ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFmt, err)
	}
	homeDirectory, _ := deps.homeDir()
	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitPath,
		HomeDirectory:    homeDirectory,
	})
	if err != nil {
		return "", config.ApplicationConfiguration{}, fmt.Errorf(errorLoadConfigurationFmt, err)
	}
	return workingDirectory, loaded, nil
}

// resolveRootArgument returns the absolute project directory named by the first
// argument, relative to the working directory, or the working directory itself.
func resolveRootArgument(workingDirectory string, arguments []string) (string, error) {
	rootArgument := defaultPath
	if len(arguments) > 0 {
		rootArgument = arguments[0]
	}
	if !filepath.IsAbs(rootArgument) {
		rootArgument = filepath.Join(workingDirectory, rootArgument)
	}
	rootPath, err := commands.ResolveRoot(rootArgument)
	if err != nil {
		return "", fmt.Errorf(errorResolveRootFormat, err)
	}
	return rootPath, nil
}

func applyFlagOverrides(command *cobra.Command, flags exportFlags, loaded *config.ApplicationConfiguration) {
	changed := func(name string) bool {
		return command.Flags().Changed(name)
	}
	if changed(outputFlagName) {
		loaded.Export.Output = flags.outputPath
	}
	if changed(excludeExtensionFlagName) {
		loaded.Exclude.Extensions = nonNilList(flags.excludeExtensions)
	}
	if changed(excludeDirectoryFlagName) {
		loaded.Exclude.Directories = nonNilList(flags.excludeDirectories)
	}
	if changed(excludeFileFlagName) {
		loaded.Exclude.Files = nonNilList(flags.excludeFiles)
	}
	if changed(treeFlagName) {
		loaded.Export.IncludeTree = boolPointer(flags.includeTree)
	}
	if changed(hiddenFlagName) {
		loaded.Paths.Hidden = boolPointer(flags.includeHidden)
	}
	if changed(gitignoreFlagName) {
		loaded.Paths.UseGitignore = boolPointer(flags.useGitignore)
	}
	if changed(tokensFlagName) {
		loaded.Tokens.Enabled = boolPointer(flags.tokens)
	}
	if changed(modelFlagName) {
		loaded.Tokens.Model = flags.model
	}
	if changed(copyFlagName) {
		loaded.Clipboard = boolPointer(flags.copyToClipboard)
	}
}

// nonNilList splits comma-separated flag values; an empty flag value yields an
// empty list, which clears the rule list.
func nonNilList(values []string) []string {
	split := utils.SplitList(values...)
	if split == nil {
		return []string{}
	}
	return split
}

func boolPointer(value bool) *bool {
	return &value
}

func validateProgressFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case types.ProgressRaw, types.ProgressJSON:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedProgressMessage, format, types.ProgressRaw, types.ProgressJSON)
	}
}
