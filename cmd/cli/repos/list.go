package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/list"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	listUseConstant              = "list [<glob>...]"
	listShortDescriptionConstant = "List repositories"
	listLongDescriptionConstant  = "list prints every repository, or only those inside a folder or matching a glob, followed by a summary line."
	listInvertFlagNameConstant   = "invert"
	listInvertFlagUsageConstant  = "Print repositories that do not match"
	listCountFlagNameConstant    = "count"
	listCountFlagUsageConstant   = "Print only the summary line"
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	LoggerProvider      LoggerProvider
	EnvironmentProvider EnvironmentProvider
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     listUseConstant,
		Short:   listShortDescriptionConstant,
		Long:    listLongDescriptionConstant,
		Aliases: dispatch.AliasesFor(dispatch.VerbList),
		RunE:    builder.run,
	}
	command.Flags().Bool(listInvertFlagNameConstant, false, listInvertFlagUsageConstant)
	command.Flags().Bool(listCountFlagNameConstant, false, listCountFlagUsageConstant)
	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, arguments []string) error {
	invert, _ := command.Flags().GetBool(listInvertFlagNameConstant)
	countOnly, _ := command.Flags().GetBool(listCountFlagNameConstant)

	filters, filterError := shared.ParseRepositoryGlobs(arguments)
	if filterError != nil {
		return filterError
	}

	environment, environmentError := resolveEnvironment(builder.EnvironmentProvider)
	if environmentError != nil {
		return environmentError
	}

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := list.NewService(list.Dependencies{
		Enumerator: dependencies.ResolveEnumerator(environment.FileSystem, environment.Workspace, logger),
		Logger:     logger,
		Output:     command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	_, listError := service.Execute(command.Context(), list.Options{Filters: filters, Invert: invert, CountOnly: countOnly})
	return listError
}
