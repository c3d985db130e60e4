package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/tui"
)

const (
	selectUse              = "select [path]"
	selectAlias            = "s"
	selectShortDescription = "choose files in an interactive checkbox tree (" + selectAlias + ")"
	selectLongDescription  = `Open a checkbox tree of the project. Entries matched by the exclusion rules
start unchecked. Toggle entries with space, toggle the tree block with t and
press e to export; the progress log appears below the tree.`
	selectUsageExample = `  # Pick files of the current directory and export to prompt.txt
  ctxpack select -o prompt.txt`
	selectWarningFormat = "Warning: %s\n"
	errorSelectUIFormat = "run selection screen: %w"
)

func createSelectCommand(deps *dependencies) *cobra.Command {
	var flags exportFlags

	selectCommand := &cobra.Command{
		Use:     selectUse,
		Aliases: []string{selectAlias},
		Short:   selectShortDescription,
		Long:    selectLongDescription,
		Example: selectUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := resolveExportSettings(command, deps, flags, arguments)
			if err != nil {
				return err
			}
			model, err := buildSelectionModel(settings, func(message string) {
				fmt.Fprintf(command.ErrOrStderr(), selectWarningFormat, message)
			})
			if err != nil {
				return err
			}
			var copier clipboard.Copier
			if settings.copyToClipboard {
				copier = deps.copier
			}
			screen := tui.New(tui.Options{
				Context:   command.Context(),
				Selection: model,
				Runner:    &export.Runner{},
				Export:    exportOptions(settings),
				Copier:    copier,
			})
			if runErr := deps.runProgram(command.Context(), screen); runErr != nil {
				return fmt.Errorf(errorSelectUIFormat, runErr)
			}
			return nil
		},
	}
	addExportFlags(selectCommand, &flags)
	return selectCommand
}
