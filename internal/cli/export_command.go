package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/selection"
	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/services/stream"
	"github.com/temirov/ctxpack/internal/types"
)

const (
	exportUse              = "export [path]"
	exportAlias            = "x"
	exportShortDescription = "write the project document using exclusion rules (" + exportAlias + ")"
	exportLongDescription  = `Write a single text document holding the directory tree block followed by
one fenced block per file. Files are selected by exclusion rules taken from the
configuration file and overridden by flags. Progress is reported on stdout as
styled lines or, with --progress json, as one JSON event per line.`
	exportUsageExample = `  # Export the current directory into project_summary.txt
  ctxpack export

  # Skip images and the tree block, write to a custom file
  ctxpack export ./app -o prompt.txt --exclude-ext .png,.jpg --tree no

  # Leave out one directory of the selection
  ctxpack export --deselect docs/generated`

	deselectFlagName        = "deselect"
	deselectFlagDescription = "relative path to leave out of the export (repeatable)"
	progressFlagName        = "progress"
	progressFlagDescription = "progress format: raw or json"
	copiedMessage           = "Output copied to the clipboard."
	errorDeselectFormat     = "deselect: %w"
	errorClipboardFormat    = "copy to clipboard: %w"
)

func createExportCommand(deps *dependencies) *cobra.Command {
	var flags exportFlags
	var deselected []string
	var progressFormat string

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Aliases: []string{exportAlias},
		Short:   exportShortDescription,
		Long:    exportLongDescription,
		Example: exportUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			format, err := validateProgressFormat(progressFormat)
			if err != nil {
				return err
			}
			settings, err := resolveExportSettings(command, deps, flags, arguments)
			if err != nil {
				return err
			}
			source, err := buildSource(settings, deselected)
			if err != nil {
				return err
			}
			renderer := output.NewRawStreamRenderer(command.OutOrStdout(), command.ErrOrStderr())
			if format == types.ProgressJSON {
				renderer = output.NewJSONStreamRenderer(command.OutOrStdout())
			}
			return runExport(command.Context(), deps, settings, source, renderer)
		},
	}
	addExportFlags(exportCommand, &flags)
	exportCommand.Flags().StringArrayVar(&deselected, deselectFlagName, nil, deselectFlagDescription)
	exportCommand.Flags().StringVar(&progressFormat, progressFlagName, types.ProgressRaw, progressFlagDescription)
	return exportCommand
}

// buildSource walks the root with the exclusion rules, or, when paths were
// deselected, builds a selection model seeded from the same rules.
func buildSource(settings exportSettings, deselected []string) (commands.CandidateSource, error) {
	if len(deselected) == 0 {
		return commands.RuleSource{
			Rules:         settings.rules,
			Gitignore:     settings.gitignore,
			IncludeHidden: settings.includeHidden,
		}, nil
	}
	model, err := buildSelectionModel(settings, nil)
	if err != nil {
		return nil, err
	}
	for _, relativePath := range deselected {
		if deselectErr := model.Deselect(relativePath); deselectErr != nil {
			return nil, fmt.Errorf(errorDeselectFormat, deselectErr)
		}
	}
	return model, nil
}

func buildSelectionModel(settings exportSettings, warn func(string)) (*selection.Model, error) {
	builder := commands.TreeBuilder{IncludeHidden: settings.includeHidden, Warn: warn}
	tree, err := builder.Build(settings.rootPath)
	if err != nil {
		return nil, err
	}
	model := selection.New(tree)
	model.ApplyRules(settings.rules, settings.gitignore)
	return model, nil
}

func exportOptions(settings exportSettings) export.Options {
	rules := settings.rules
	return export.Options{
		Root:          settings.rootPath,
		OutputPath:    settings.outputPath,
		Rules:         &rules,
		UseGitignore:  settings.useGitignore,
		IncludeTree:   settings.includeTree,
		IncludeHidden: settings.includeHidden,
		Format:        settings.format,
		TokenCounter:  settings.tokenCounter,
		TokenModel:    settings.tokenModel,
	}
}

func runExport(ctx context.Context, deps *dependencies, settings exportSettings, source commands.CandidateSource, renderer output.StreamRenderer) error {
	options := exportOptions(settings)
	options.Source = source
	runner := &export.Runner{}

	deps.logger.Debug("starting export", zap.String("root", options.Root), zap.String("output", options.OutputPath))
	err := export.Dispatch(ctx, func(streamCtx context.Context, events chan<- stream.Event) error {
		return runner.Run(streamCtx, options, events)
	}, renderer.Handle)
	if flushErr := renderer.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil || !settings.copyToClipboard {
		return nil
	}
	if copyErr := clipboard.CopyFile(deps.copier, options.OutputPath); copyErr != nil {
		return fmt.Errorf(errorClipboardFormat, copyErr)
	}
	_, err = fmt.Fprintln(deps.stdout, copiedMessage)
	return err
}
