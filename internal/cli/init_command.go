package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpack/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to .ctxpack.yaml in the working directory,
or to ~/.ctxpack/config.yaml with --global. Existing files are kept unless
--force is given.`
	globalFlagName        = "global"
	globalFlagDescription = "write the per-user configuration instead of the local one"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	initDoneFormat        = "Configuration written to %s\n"
)

func createInitCommand(deps *dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options := config.InitOptions{Target: config.InitTargetLocal, Force: force}
			if global {
				options.Target = config.InitTargetGlobal
				homeDirectory, err := deps.homeDir()
				if err != nil {
					return err
				}
				options.HomeDirectory = homeDirectory
			} else {
				workingDirectory, err := deps.workingDir()
				if err != nil {
					return fmt.Errorf(errorWorkingDirectoryFmt, err)
				}
				options.WorkingDirectory = workingDirectory
			}
			path, err := config.InitializeConfiguration(options)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), initDoneFormat, path)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
