package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/repos/create"
	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	createUseConstant              = "create <path>..."
	createShortDescriptionConstant = "Create new bare repositories"
	createLongDescriptionConstant  = "create initializes a bare repository for every path. Paths must end in .git; the suffix is added when missing. Nothing is created when any path already exists."
)

// CreateCommandBuilder assembles the create command.
type CreateCommandBuilder struct {
	LoggerProvider      LoggerProvider
	EnvironmentProvider EnvironmentProvider
}

// Build constructs the create command.
func (builder *CreateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     createUseConstant,
		Short:   createShortDescriptionConstant,
		Long:    createLongDescriptionConstant,
		Aliases: dispatch.AliasesFor(dispatch.VerbCreate),
		Args:    cobra.MinimumNArgs(1),
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CreateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPaths := make([]shared.RepositoryPath, 0, len(arguments))
	for _, argument := range arguments {
		repositoryPath, validationError := shared.NewRepositoryPath(argument)
		if validationError != nil {
			return validationError
		}
		repositoryPaths = append(repositoryPaths, repositoryPath)
	}

	environment, environmentError := resolveEnvironment(builder.EnvironmentProvider)
	if environmentError != nil {
		return environmentError
	}

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(environment.GitExecutor, logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := create.NewService(create.Dependencies{
		FileSystem:  environment.FileSystem,
		GitExecutor: gitExecutor,
		Workspace:   environment.Workspace,
		Logger:      logger,
		Output:      command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Execute(command.Context(), create.Options{RepositoryPaths: repositoryPaths})
}
