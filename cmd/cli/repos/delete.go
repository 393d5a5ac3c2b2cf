package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/remove"
	"github.com/temirov/reposhell/internal/repos/shared"
	flagutils "github.com/temirov/reposhell/internal/utils/flags"
)

const (
	deleteUseConstant              = "delete <glob>..."
	deleteShortDescriptionConstant = "Delete repositories"
	deleteLongDescriptionConstant  = "delete removes every repository matched by the globs. A matched folder selects every repository beneath it. Each deletion is confirmed unless --confirm is given."
)

// DeleteCommandBuilder assembles the delete command.
type DeleteCommandBuilder struct {
	LoggerProvider      LoggerProvider
	EnvironmentProvider EnvironmentProvider
	PrompterFactory     PrompterFactory
}

// Build constructs the delete command.
func (builder *DeleteCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     deleteUseConstant,
		Short:   deleteShortDescriptionConstant,
		Long:    deleteLongDescriptionConstant,
		Aliases: dispatch.AliasesFor(dispatch.VerbDelete),
		Args:    cobra.MinimumNArgs(1),
		RunE:    builder.run,
	}
	flagutils.BindExecutionFlags(command, deleteExecutionFlagDefinitions())
	return command, nil
}

func (builder *DeleteCommandBuilder) run(command *cobra.Command, arguments []string) error {
	definitions := deleteExecutionFlagDefinitions()
	globs, globError := shared.ParseRepositoryGlobs(arguments)
	if globError != nil {
		return globError
	}

	environment, environmentError := resolveEnvironment(builder.EnvironmentProvider)
	if environmentError != nil {
		return environmentError
	}

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := remove.NewService(remove.Dependencies{
		FileSystem: environment.FileSystem,
		Enumerator: dependencies.ResolveEnumerator(environment.FileSystem, environment.Workspace, logger),
		Prompter:   resolvePrompter(builder.PrompterFactory, command),
		Workspace:  environment.Workspace,
		Logger:     logger,
		Output:     command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Execute(command.Context(), remove.Options{
		Globs:        globs,
		Mode:         flagutils.ReadExecutionMode(command, definitions),
		Confirmation: flagutils.ReadConfirmationPolicy(command, definitions),
	})
}

func deleteExecutionFlagDefinitions() flagutils.ExecutionFlagDefinitions {
	return flagutils.DefaultExecutionFlagDefinitions(true, true)
}
