package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForBareInitNamesTarget(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"init", "--bare", "--quiet", "/srv/repos/alice/team/app.git"},
		},
	}

	require.Equal(t, "Initializing bare repository at /srv/repos/alice/team/app.git", formatter.BuildStartedMessage(command))
	require.Equal(t, "Initialized bare repository at /srv/repos/alice/team/app.git", formatter.BuildSuccessMessage(command))
}

func TestBuildFailureMessageForTransferIncludesStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"upload-pack", "team/app.git"}},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository\n"})

	require.Equal(t, "upload-pack for team/app.git ended with exit code 128: fatal: not a git repository", message)
}

func TestBuildMessageFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"version"}, WorkingDirectory: "/tmp"},
	}

	require.Equal(t, "Running git version (in /tmp)", formatter.BuildStartedMessage(command))
	require.Equal(t, "git version (in /tmp) failed: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}
