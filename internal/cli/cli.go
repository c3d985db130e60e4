// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "ctxpack version: %s\n"
	verboseFlagName        = "verbose"
	verboseFlagDescription = "log diagnostic details to stderr"
	defaultPath            = "."
	rootUse                = "ctxpack"
	rootShortDescription   = "pack a project into one text file for LLM prompts"
	rootLongDescription    = `ctxpack exports a project directory into a single text document.
The document starts with a directory tree followed by one fenced block per file.
Use export for rule-based selection, select for an interactive checkbox tree,
tree to preview the hierarchy and init to write a default configuration file.`
)

// dependencies are the side-effecting collaborators of the commands.
type dependencies struct {
	stdout     io.Writer
	stderr     io.Writer
	logger     *zap.Logger
	copier     clipboard.Copier
	runProgram func(ctx context.Context, model tea.Model) error
	workingDir func() (string, error)
	homeDir    func() (string, error)
}

func defaultDependencies(logger *zap.Logger) dependencies {
	return dependencies{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		logger:     logger,
		copier:     clipboard.NewService(),
		runProgram: runTeaProgram,
		workingDir: os.Getwd,
		homeDir:    os.UserHomeDir,
	}
}

func runTeaProgram(ctx context.Context, model tea.Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Execute runs the ctxpack application with the process arguments. Interrupts
// cancel the running command between files.
func Execute(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:], defaultDependencies(logger))
}

func run(ctx context.Context, arguments []string, deps dependencies) error {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	rootCommand := createRootCommand(deps)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	rootCommand.SetOut(deps.stdout)
	rootCommand.SetErr(deps.stderr)
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var showVersion bool
	var verbose bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if verbose {
				if verboseLogger, err := utils.NewApplicationLogger(true); err == nil {
					deps.logger = verboseLogger
				}
			}
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)

	// Subcommands read deps.logger lazily so the verbose switch reaches them.
	rootCommand.AddCommand(
		createTreeCommand(&deps),
		createExportCommand(&deps),
		createSelectCommand(&deps),
		createInitCommand(&deps),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}
