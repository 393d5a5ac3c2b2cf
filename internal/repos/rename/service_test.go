package rename_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/filesystem"
	"github.com/temirov/reposhell/internal/repos/rename"
	"github.com/temirov/reposhell/internal/repos/shared"
	"github.com/temirov/reposhell/internal/repos/testsupport"
)

type moveFixture struct {
	workspace    shared.Workspace
	dependencies rename.Dependencies
	output       *bytes.Buffer
	errors       *bytes.Buffer
}

func newMoveFixture(testInstance *testing.T, repositoryPaths ...string) moveFixture {
	testInstance.Helper()
	workspace := testsupport.NewWorkspace(testInstance)
	testsupport.SeedRepositories(testInstance, workspace, repositoryPaths...)
	fileSystem := filesystem.NewOSFileSystem()
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	return moveFixture{
		workspace: workspace,
		dependencies: rename.Dependencies{
			FileSystem: fileSystem,
			Enumerator: discovery.NewEnumerator(fileSystem, workspace.VisibleRoot, zap.NewNop()),
			Workspace:  workspace,
			Logger:     zap.NewNop(),
			Output:     outputBuffer,
			Errors:     errorBuffer,
		},
		output: outputBuffer,
		errors: errorBuffer,
	}
}

func (fixture moveFixture) execute(testInstance *testing.T, rawSources []string, rawDestination string, mode shared.ExecutionMode) error {
	testInstance.Helper()
	sources, sourcesError := shared.ParseRepositoryGlobs(rawSources)
	require.NoError(testInstance, sourcesError)
	destination, destinationError := shared.NewMoveDestination(rawDestination)
	require.NoError(testInstance, destinationError)

	service, serviceError := rename.NewService(fixture.dependencies)
	require.NoError(testInstance, serviceError)
	return service.Execute(context.Background(), rename.Options{Sources: sources, Destination: destination, Mode: mode})
}

func (fixture moveFixture) identity(testInstance *testing.T, repositoryPath string) string {
	testInstance.Helper()
	return testsupport.RepositoryIdentity(testInstance, fixture.workspace.PhysicalPath(repositoryPath))
}

func TestExecutorSwapsRepositoriesThroughStaging(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "a.git", "b.git")
	planner := rename.NewPlanner(fixture.dependencies.FileSystem, fixture.workspace, fixture.dependencies.Enumerator)

	plan, planError := planner.PlanMoves([]rename.Move{{Source: "a.git", Destination: "b.git"}, {Source: "b.git", Destination: "a.git"}})
	require.NoError(testInstance, planError)
	require.True(testInstance, plan.StagingRequired)

	executionError := rename.NewExecutor(fixture.dependencies).ExecutePlan(context.Background(), plan)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "'a.git' -> 'b.git'\n'b.git' -> 'a.git'\nMoved 2 repositories\n", fixture.output.String())
	require.Equal(testInstance, "a.git", fixture.identity(testInstance, "b.git"))
	require.Equal(testInstance, "b.git", fixture.identity(testInstance, "a.git"))
	require.Len(testInstance, testsupport.VisibleLinks(testInstance, fixture.workspace), 2)
	testsupport.RequireConsistent(testInstance, fixture.workspace)
	require.NoDirExists(testInstance, fixture.workspace.StagingRoot)
}

func TestExecutorRefusesLeftoverStagingFolder(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "a.git", "b.git")
	require.NoError(testInstance, os.MkdirAll(filepath.Join(fixture.workspace.StagingRoot, "left.git"), 0o755))
	planner := rename.NewPlanner(fixture.dependencies.FileSystem, fixture.workspace, fixture.dependencies.Enumerator)

	plan, planError := planner.PlanMoves([]rename.Move{{Source: "a.git", Destination: "b.git"}, {Source: "b.git", Destination: "a.git"}})
	require.NoError(testInstance, planError)

	executionError := rename.NewExecutor(fixture.dependencies).ExecutePlan(context.Background(), plan)
	var stagingError rename.StagingOccupiedError
	require.ErrorAs(testInstance, executionError, &stagingError)
	require.Equal(testInstance, "a.git", fixture.identity(testInstance, "a.git"))
	require.Equal(testInstance, "b.git", fixture.identity(testInstance, "b.git"))
	require.Empty(testInstance, fixture.output.String())
}

func TestExecutorRejectsPlansWithConflicts(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "a.git", "b.git")
	plan := rename.Plan{Pairs: []rename.Pair{{Source: "a.git", Destination: "b.git", Status: rename.PairStatusOccupiedConflict}}}

	executionError := rename.NewExecutor(fixture.dependencies).ExecutePlan(context.Background(), plan)
	require.Error(testInstance, executionError)
	require.Equal(testInstance, "a.git", fixture.identity(testInstance, "a.git"))
}

func TestServiceShiftsChainThroughGlobs(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "a/a/x.git", "a/x.git")

	executionError := fixture.execute(testInstance, []string{"a/a/", "a/x"}, ".", shared.ExecutionApply)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "'a/a/x.git' -> 'a/x.git'\n'a/x.git' -> 'x.git'\nMoved 2 repositories\n", fixture.output.String())
	require.Equal(testInstance, "a/a/x.git", fixture.identity(testInstance, "a/x.git"))
	require.Equal(testInstance, "a/x.git", fixture.identity(testInstance, "x.git"))
	require.Equal(testInstance, []string{"a"}, testsupport.Directories(testInstance, fixture.workspace.VisibleRoot))
	require.Equal(testInstance, []string{"a", "a/x.git", "x.git"}, testsupport.Directories(testInstance, fixture.workspace.RepositoryHome))
	testsupport.RequireConsistent(testInstance, fixture.workspace)
	require.NoDirExists(testInstance, fixture.workspace.StagingRoot)
}

func TestServiceMovesFoldersIntoDestination(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "team/one.git", "team/sub/two.git", "solo.git")

	executionError := fixture.execute(testInstance, []string{"team/", "solo"}, "archive/", shared.ExecutionApply)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance,
		"'solo.git' -> 'archive/solo.git'\n'team/one.git' -> 'archive/team/one.git'\n'team/sub/two.git' -> 'archive/team/sub/two.git'\nMoved 3 repositories\n",
		fixture.output.String(),
	)
	require.Equal(testInstance, map[string]string{
		"archive/solo.git":         fixture.workspace.PhysicalPath("archive/solo.git"),
		"archive/team/one.git":     fixture.workspace.PhysicalPath("archive/team/one.git"),
		"archive/team/sub/two.git": fixture.workspace.PhysicalPath("archive/team/sub/two.git"),
	}, testsupport.VisibleLinks(testInstance, fixture.workspace))
	require.Equal(testInstance, []string{"archive", "archive/team", "archive/team/sub"}, testsupport.Directories(testInstance, fixture.workspace.VisibleRoot))
	testsupport.RequireConsistent(testInstance, fixture.workspace)
}

func TestServiceRenamesSingleRepository(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "old/app.git", "keep.git")

	executionError := fixture.execute(testInstance, []string{"old/app"}, "new/place/app", shared.ExecutionApply)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "'old/app.git' -> 'new/place/app.git'\nRepository renamed\n", fixture.output.String())
	require.Equal(testInstance, "old/app.git", fixture.identity(testInstance, "new/place/app.git"))
	require.NoDirExists(testInstance, fixture.workspace.VisiblePath("old"))
	require.NoDirExists(testInstance, fixture.workspace.PhysicalPath("old"))
	testsupport.RequireConsistent(testInstance, fixture.workspace)
}

func TestServiceSingleRepositoryIntoFolderUsesBatch(testInstance *testing.T) {
	fixture := newMoveFixture(testInstance, "app.git")

	require.NoError(testInstance, fixture.execute(testInstance, []string{"app"}, "team/", shared.ExecutionApply))
	require.Equal(testInstance, "'app.git' -> 'team/app.git'\nMoved 1 repositories\n", fixture.output.String())
	testsupport.RequireConsistent(testInstance, fixture.workspace)
}

func TestServiceOutcomesWithoutMutation(testInstance *testing.T) {
	testCases := []struct {
		name           string
		repositories   []string
		sources        []string
		destination    string
		mode           shared.ExecutionMode
		expectedError  string
		expectedOutput string
		expectedErrors string
	}{
		{
			name:           "single_rename_nothing_to_do",
			repositories:   []string{"app.git"},
			sources:        []string{"app"},
			destination:    "app",
			expectedOutput: "Nothing to do\n",
		},
		{
			name:          "single_rename_destination_occupied",
			repositories:  []string{"app.git", "taken.git"},
			sources:       []string{"app"},
			destination:   "taken",
			expectedError: "Cannot rename 'app.git' -> 'taken.git' : Destination occupied",
		},
		{
			name:           "single_rename_dry_run",
			repositories:   []string{"app.git"},
			sources:        []string{"app"},
			destination:    "renamed",
			mode:           shared.ExecutionDryRun,
			expectedOutput: "'app.git' -> 'renamed.git'\n",
		},
		{
			name:           "batch_dry_run",
			repositories:   []string{"a.git", "b.git"},
			sources:        []string{"."},
			destination:    "x",
			mode:           shared.ExecutionDryRun,
			expectedOutput: "Plan to move 2 repositories:\n'a.git' -> 'x/a.git'\n'b.git' -> 'x/b.git'\n",
		},
		{
			name:           "batch_nothing_to_do",
			repositories:   []string{"team/a.git"},
			sources:        []string{"team/"},
			destination:    ".",
			expectedErrors: "Nothing to do\n",
		},
		{
			name:          "batch_into_repository_destination",
			repositories:  []string{"a.git", "b.git"},
			sources:       []string{"a", "b"},
			destination:   "c.git",
			expectedError: "Destination is a repository, but multiple sources match",
		},
		{
			name:          "batch_into_repository_named_after_source",
			repositories:  []string{"a.git", "b.git"},
			sources:       []string{"a.git", "b.git"},
			destination:   "folder/a.git",
			expectedError: "Destination is a repository, but multiple sources match",
		},
		{
			name:           "batch_overlap_conflict",
			repositories:   []string{"a/x.git", "b/x.git"},
			sources:        []string{"a/x", "b/x"},
			destination:    "c",
			expectedOutput: "Able to move 1 repositories:\n'a/x.git' -> 'c/x.git'\n",
			expectedError:  "1 problem:\n'b/x.git' -> 'c/x.git' : Overlapping destination : 'a/x.git' -> 'c/x.git'",
		},
		{
			name:           "batch_conflicted_dry_run",
			repositories:   []string{"a.git", "b.git", "c/a.git"},
			sources:        []string{"a", "b"},
			destination:    "c/",
			mode:           shared.ExecutionDryRun,
			expectedOutput: "Able to move 1 repositories:\n'b.git' -> 'c/b.git'\n",
			expectedError:  "1 problem:\n'a.git' -> 'c/a.git' : Destination occupied by unmoved repository",
		},
		{
			name:          "no_matches",
			repositories:  []string{"a.git"},
			sources:       []string{"missing"},
			destination:   "x",
			expectedError: "No matching repositories found",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newMoveFixture(testInstance, testCase.repositories...)
			linksBefore := testsupport.VisibleLinks(testInstance, fixture.workspace)
			directoriesBefore := testsupport.Directories(testInstance, fixture.workspace.RepositoryHome)

			executionError := fixture.execute(testInstance, testCase.sources, testCase.destination, testCase.mode)
			if len(testCase.expectedError) > 0 {
				require.EqualError(testInstance, executionError, testCase.expectedError)
				require.Equal(testInstance, shared.ExitCodeFailure, shared.ExitCode(executionError))
			} else {
				require.NoError(testInstance, executionError)
			}
			require.Equal(testInstance, testCase.expectedOutput, fixture.output.String())
			require.Equal(testInstance, testCase.expectedErrors, fixture.errors.String())
			require.Equal(testInstance, linksBefore, testsupport.VisibleLinks(testInstance, fixture.workspace))
			require.Equal(testInstance, directoriesBefore, testsupport.Directories(testInstance, fixture.workspace.RepositoryHome))
		})
	}
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, missingFileSystemError := rename.NewService(rename.Dependencies{})
	require.ErrorIs(testInstance, missingFileSystemError, rename.ErrFileSystemNotConfigured)

	_, missingEnumeratorError := rename.NewService(rename.Dependencies{FileSystem: filesystem.NewMemoryFileSystem()})
	require.ErrorIs(testInstance, missingEnumeratorError, rename.ErrEnumeratorNotConfigured)
}
