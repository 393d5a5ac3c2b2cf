package repos

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/reposhell/internal/dispatch"
)

const unsupportedVerbTemplateConstant = "no command builder for verb %q"

// VerbCommandFactory builds a fresh Cobra command for every management verb dispatch.
type VerbCommandFactory struct {
	LoggerProvider      LoggerProvider
	EnvironmentProvider EnvironmentProvider
	PrompterFactory     PrompterFactory
}

// BuildCommand constructs the command that implements verb.
func (factory *VerbCommandFactory) BuildCommand(verb dispatch.Verb) (*cobra.Command, error) {
	switch verb {
	case dispatch.VerbCreate:
		builder := CreateCommandBuilder{LoggerProvider: factory.LoggerProvider, EnvironmentProvider: factory.EnvironmentProvider}
		return builder.Build()
	case dispatch.VerbDelete:
		builder := DeleteCommandBuilder{LoggerProvider: factory.LoggerProvider, EnvironmentProvider: factory.EnvironmentProvider, PrompterFactory: factory.PrompterFactory}
		return builder.Build()
	case dispatch.VerbMove:
		builder := MoveCommandBuilder{LoggerProvider: factory.LoggerProvider, EnvironmentProvider: factory.EnvironmentProvider}
		return builder.Build()
	case dispatch.VerbList:
		builder := ListCommandBuilder{LoggerProvider: factory.LoggerProvider, EnvironmentProvider: factory.EnvironmentProvider}
		return builder.Build()
	default:
		return nil, fmt.Errorf(unsupportedVerbTemplateConstant, verb)
	}
}
