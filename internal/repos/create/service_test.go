package create_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/create"
	"github.com/temirov/reposhell/internal/repos/filesystem"
	"github.com/temirov/reposhell/internal/repos/shared"
	"github.com/temirov/reposhell/internal/repos/testsupport"
)

func repositoryPaths(testInstance *testing.T, rawPaths ...string) []shared.RepositoryPath {
	testInstance.Helper()
	parsedPaths := make([]shared.RepositoryPath, 0, len(rawPaths))
	for _, rawPath := range rawPaths {
		parsedPath, parseError := shared.NewRepositoryPath(rawPath)
		require.NoError(testInstance, parseError)
		parsedPaths = append(parsedPaths, parsedPath)
	}
	return parsedPaths
}

func newService(testInstance *testing.T, workspace shared.Workspace, gitExecutor shared.GitExecutor, output *bytes.Buffer) *create.Service {
	testInstance.Helper()
	service, serviceError := create.NewService(create.Dependencies{
		FileSystem:  filesystem.NewOSFileSystem(),
		GitExecutor: gitExecutor,
		Workspace:   workspace,
		Logger:      zap.NewNop(),
		Output:      output,
	})
	require.NoError(testInstance, serviceError)
	return service
}

func TestServiceCreatesLinkedBareRepositories(testInstance *testing.T) {
	workspace := testsupport.NewWorkspace(testInstance)
	gitExecutor := &testsupport.GitExecutorStub{}
	outputBuffer := &bytes.Buffer{}
	service := newService(testInstance, workspace, gitExecutor, outputBuffer)

	executionError := service.Execute(context.Background(), create.Options{
		RepositoryPaths: repositoryPaths(testInstance, "team/app", "tool.git", "team/app.git"),
	})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "Created 'team/app.git'\nCreated 'tool.git'\nCreated 2 new repositories\n", outputBuffer.String())
	require.Len(testInstance, gitExecutor.ExecutedGitCommands, 2)
	require.Equal(testInstance, []string{"init", "--bare", "--quiet", workspace.PhysicalPath("team/app.git")}, gitExecutor.ExecutedGitCommands[0].Arguments)

	for _, repositoryPath := range []string{"team/app.git", "tool.git"} {
		linkTarget, readError := os.Readlink(workspace.VisiblePath(repositoryPath))
		require.NoError(testInstance, readError)
		require.Equal(testInstance, workspace.PhysicalPath(repositoryPath), linkTarget)

		physicalInfo, statError := os.Stat(workspace.PhysicalPath(repositoryPath))
		require.NoError(testInstance, statError)
		require.True(testInstance, physicalInfo.IsDir())
	}
}

func TestServiceSingleRepositoryOmitsSummary(testInstance *testing.T) {
	workspace := testsupport.NewWorkspace(testInstance)
	outputBuffer := &bytes.Buffer{}
	service := newService(testInstance, workspace, &testsupport.GitExecutorStub{}, outputBuffer)

	require.NoError(testInstance, service.Execute(context.Background(), create.Options{RepositoryPaths: repositoryPaths(testInstance, "solo")}))
	require.Equal(testInstance, "Created 'solo.git'\n", outputBuffer.String())
}

func TestServiceRejectsExistingRepositories(testInstance *testing.T) {
	testCases := []struct {
		name            string
		visibleEntries  []string
		physicalEntries []string
		requested       []string
		expectedMessage string
	}{
		{
			name:            "single_visible_conflict",
			visibleEntries:  []string{"taken.git"},
			requested:       []string{"taken", "fresh"},
			expectedMessage: "Repo already exists at 'taken.git'",
		},
		{
			name:            "physical_only_conflict",
			physicalEntries: []string{"team/orphan.git"},
			requested:       []string{"team/orphan"},
			expectedMessage: "Repo already exists at 'team/orphan.git'",
		},
		{
			name:            "multiple_conflicts",
			visibleEntries:  []string{"one.git"},
			physicalEntries: []string{"two.git"},
			requested:       []string{"one", "two", "three"},
			expectedMessage: "Repos already exist at: 'one.git', 'two.git'",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workspace := testsupport.NewWorkspace(testInstance)
			for _, visibleEntry := range testCase.visibleEntries {
				require.NoError(testInstance, os.MkdirAll(workspace.VisiblePath(visibleEntry), 0o755))
			}
			for _, physicalEntry := range testCase.physicalEntries {
				require.NoError(testInstance, os.MkdirAll(workspace.PhysicalPath(physicalEntry), 0o755))
			}

			gitExecutor := &testsupport.GitExecutorStub{}
			outputBuffer := &bytes.Buffer{}
			service := newService(testInstance, workspace, gitExecutor, outputBuffer)

			executionError := service.Execute(context.Background(), create.Options{RepositoryPaths: repositoryPaths(testInstance, testCase.requested...)})
			require.EqualError(testInstance, executionError, testCase.expectedMessage)

			var existingError create.ExistingRepositoriesError
			require.ErrorAs(testInstance, executionError, &existingError)
			require.Equal(testInstance, shared.ExitCodeFailure, shared.ExitCode(executionError))
			require.Empty(testInstance, gitExecutor.ExecutedGitCommands)
			require.Empty(testInstance, outputBuffer.String())

			lastRequested := shared.EnforceRepositorySuffix(testCase.requested[len(testCase.requested)-1])
			_, statError := os.Lstat(workspace.VisiblePath(lastRequested))
			require.ErrorIs(testInstance, statError, os.ErrNotExist)
		})
	}
}

func TestServiceStopsWhenGitFails(testInstance *testing.T) {
	workspace := testsupport.NewWorkspace(testInstance)
	gitFailure := errors.New("git exited with code 128")
	outputBuffer := &bytes.Buffer{}
	service := newService(testInstance, workspace, &testsupport.GitExecutorStub{Failure: gitFailure}, outputBuffer)

	executionError := service.Execute(context.Background(), create.Options{RepositoryPaths: repositoryPaths(testInstance, "broken")})
	require.ErrorIs(testInstance, executionError, gitFailure)
	require.Empty(testInstance, outputBuffer.String())

	_, statError := os.Lstat(workspace.VisiblePath("broken.git"))
	require.ErrorIs(testInstance, statError, os.ErrNotExist)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, missingFileSystemError := create.NewService(create.Dependencies{GitExecutor: &testsupport.GitExecutorStub{}})
	require.ErrorIs(testInstance, missingFileSystemError, create.ErrFileSystemNotConfigured)

	_, missingExecutorError := create.NewService(create.Dependencies{FileSystem: filesystem.NewMemoryFileSystem()})
	require.ErrorIs(testInstance, missingExecutorError, create.ErrGitExecutorNotConfigured)
}
