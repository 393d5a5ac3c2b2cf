package repos

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/rename"
	"github.com/temirov/reposhell/internal/repos/shared"
	flagutils "github.com/temirov/reposhell/internal/utils/flags"
)

const (
	moveUseConstant                  = "move <glob>... --destination <path>"
	moveShortDescriptionConstant     = "Rename a repository or move repositories into a folder"
	moveLongDescriptionConstant      = "move renames a single repository, or moves every matched repository and folder beneath the destination folder. The destination may also be given as the last argument."
	moveDestinationFlagNameConstant  = "destination"
	moveDestinationFlagShorthand     = "d"
	moveDestinationFlagUsageConstant = "Destination repository or folder"
	moveMinimumPositionalArguments   = 2
	missingMoveDestinationMessage    = "Destination is required"
	moveDestinationDefaultConstant   = ""
)

// MoveCommandBuilder assembles the move command.
type MoveCommandBuilder struct {
	LoggerProvider      LoggerProvider
	EnvironmentProvider EnvironmentProvider
}

// Build constructs the move command.
func (builder *MoveCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     moveUseConstant,
		Short:   moveShortDescriptionConstant,
		Long:    moveLongDescriptionConstant,
		Aliases: dispatch.AliasesFor(dispatch.VerbMove),
		Args:    cobra.MinimumNArgs(1),
		RunE:    builder.run,
	}
	command.Flags().StringP(moveDestinationFlagNameConstant, moveDestinationFlagShorthand, moveDestinationDefaultConstant, moveDestinationFlagUsageConstant)
	flagutils.BindExecutionFlags(command, moveExecutionFlagDefinitions())
	return command, nil
}

func (builder *MoveCommandBuilder) run(command *cobra.Command, arguments []string) error {
	sourceArguments, rawDestination, splitError := splitMoveArguments(command, arguments)
	if splitError != nil {
		return splitError
	}

	sources, sourceError := shared.ParseRepositoryGlobs(sourceArguments)
	if sourceError != nil {
		return sourceError
	}
	destination, destinationError := shared.NewMoveDestination(rawDestination)
	if destinationError != nil {
		return destinationError
	}

	environment, environmentError := resolveEnvironment(builder.EnvironmentProvider)
	if environmentError != nil {
		return environmentError
	}

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := rename.NewService(rename.Dependencies{
		FileSystem: environment.FileSystem,
		Enumerator: dependencies.ResolveEnumerator(environment.FileSystem, environment.Workspace, logger),
		Workspace:  environment.Workspace,
		Logger:     logger,
		Output:     command.OutOrStdout(),
		Errors:     command.ErrOrStderr(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Execute(command.Context(), rename.Options{
		Sources:     sources,
		Destination: destination,
		Mode:        flagutils.ReadExecutionMode(command, moveExecutionFlagDefinitions()),
	})
}

// splitMoveArguments separates sources from the destination, which comes from --destination
// when given and from the last positional argument otherwise.
func splitMoveArguments(command *cobra.Command, arguments []string) ([]string, string, error) {
	if command.Flags().Changed(moveDestinationFlagNameConstant) {
		destination, _ := command.Flags().GetString(moveDestinationFlagNameConstant)
		return arguments, strings.TrimSpace(destination), nil
	}
	if len(arguments) < moveMinimumPositionalArguments {
		return nil, "", shared.ExitStatusError{Code: shared.ExitCodeFailure, Message: missingMoveDestinationMessage}
	}
	lastIndex := len(arguments) - 1
	return arguments[:lastIndex], arguments[lastIndex], nil
}

func moveExecutionFlagDefinitions() flagutils.ExecutionFlagDefinitions {
	return flagutils.DefaultExecutionFlagDefinitions(true, false)
}
