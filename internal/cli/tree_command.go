package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/config"
	"github.com/temirov/ctxpack/internal/output"
)

const (
	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "print the directory tree block (" + treeAlias + ")"
	treeLongDescription  = `Print the directory tree of a project exactly as it appears at the top of an
exported document. Exclusion rules never prune the tree; hidden entries are
listed only with --hidden or paths.hidden in the configuration.`
	treeUsageExample = `  # Preview the tree of the current directory
  ctxpack tree

  # Include dot-prefixed entries
  ctxpack tree --hidden ./service`
	treeWarningFormat = "Warning: %s\n"
)

func createTreeCommand(deps *dependencies) *cobra.Command {
	var includeHidden bool
	var configPath string

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, loaded, err := loadConfiguration(deps, configPath)
			if err != nil {
				return err
			}
			if command.Flags().Changed(hiddenFlagName) {
				loaded.Paths.Hidden = boolPointer(includeHidden)
			}
			rootPath, err := resolveRootArgument(workingDirectory, arguments)
			if err != nil {
				return err
			}
			builder := commands.TreeBuilder{
				IncludeHidden: config.BoolValue(loaded.Paths.Hidden, false),
				Warn: func(message string) {
					fmt.Fprintf(command.ErrOrStderr(), treeWarningFormat, message)
				},
			}
			tree, err := builder.Build(rootPath)
			if err != nil {
				return err
			}
			return output.WriteTree(command.OutOrStdout(), tree)
		},
	}
	registerBooleanFlag(treeCommand.Flags(), &includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	treeCommand.Flags().StringVar(&configPath, configFlagName, "", configFlagDescription)
	return treeCommand
}
