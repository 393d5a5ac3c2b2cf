// Package repos builds the Cobra commands behind the shell's management verbs.
package repos

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/dependencies"
	"github.com/temirov/reposhell/internal/repos/prompt"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const missingEnvironmentErrorMessageConstant = "shell environment is not configured"

// ErrEnvironmentNotConfigured indicates that a command was built without an environment provider.
var ErrEnvironmentNotConfigured = errors.New(missingEnvironmentErrorMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PrompterFactory creates confirmation prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) shared.ConfirmationPrompter

// ShellEnvironment carries the resolved workspace and its collaborators.
type ShellEnvironment struct {
	FileSystem  shared.FileSystem
	GitExecutor shared.GitExecutor
	Workspace   shared.Workspace
}

// EnvironmentProvider resolves the shell environment when a command runs.
type EnvironmentProvider func() (ShellEnvironment, error)

func resolveEnvironment(provider EnvironmentProvider) (ShellEnvironment, error) {
	if provider == nil {
		return ShellEnvironment{}, ErrEnvironmentNotConfigured
	}
	environment, environmentError := provider()
	if environmentError != nil {
		return ShellEnvironment{}, environmentError
	}
	environment.FileSystem = dependencies.ResolveFileSystem(environment.FileSystem)
	return environment, nil
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolvePrompter(factory PrompterFactory, command *cobra.Command) shared.ConfirmationPrompter {
	if factory != nil {
		prompter := factory(command)
		if prompter != nil {
			return prompter
		}
	}
	return prompt.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}
