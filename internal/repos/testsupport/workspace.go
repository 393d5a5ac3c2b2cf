// Package testsupport builds real repository trees for service tests.
package testsupport

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposhell/internal/execshell"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	visibleDirectoryNameConstant     = "visible"
	repositoryHomeDirectoryConstant  = "repos"
	directoryPermissionsConstant     = fs.FileMode(0o755)
	bareRepositoryMarkerFileConstant = "HEAD"
	bareRepositoryMarkerContent      = "ref: refs/heads/main\n"
	identityFileName                 = "description"
)

// GitExecutorStub records git invocations and optionally fails them.
type GitExecutorStub struct {
	ExecutedGitCommands []execshell.CommandDetails
	Failure             error
}

// ExecuteGit records details and returns the configured failure.
func (executor *GitExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.ExecutedGitCommands = append(executor.ExecutedGitCommands, details)
	if executor.Failure != nil {
		return execshell.ExecutionResult{}, executor.Failure
	}
	return execshell.ExecutionResult{}, nil
}

// NewWorkspace creates empty visible and repository-home directories under a test temp dir.
func NewWorkspace(testInstance *testing.T) shared.Workspace {
	testInstance.Helper()
	rootDirectory := testInstance.TempDir()
	workspace := shared.NewWorkspace(
		filepath.Join(rootDirectory, visibleDirectoryNameConstant),
		filepath.Join(rootDirectory, repositoryHomeDirectoryConstant),
		shared.DefaultStagingDirectoryNameConstant,
	)
	require.NoError(testInstance, os.MkdirAll(workspace.VisibleRoot, directoryPermissionsConstant))
	require.NoError(testInstance, os.MkdirAll(workspace.RepositoryHome, directoryPermissionsConstant))
	return workspace
}

// SeedRepositories creates each repository the way the create service does: a physical
// directory under repo-home holding a marker file named after the repository, and a
// visible symlink pointing at it.
func SeedRepositories(testInstance *testing.T, workspace shared.Workspace, repositoryPaths ...string) {
	testInstance.Helper()
	for _, repositoryPath := range repositoryPaths {
		physicalPath := workspace.PhysicalPath(repositoryPath)
		visiblePath := workspace.VisiblePath(repositoryPath)
		require.NoError(testInstance, os.MkdirAll(physicalPath, directoryPermissionsConstant))
		require.NoError(testInstance, os.WriteFile(filepath.Join(physicalPath, bareRepositoryMarkerFileConstant), []byte(bareRepositoryMarkerContent), 0o644))
		require.NoError(testInstance, os.WriteFile(filepath.Join(physicalPath, identityFileName), []byte(repositoryPath), 0o644))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(visiblePath), directoryPermissionsConstant))
		require.NoError(testInstance, os.Symlink(physicalPath, visiblePath))
	}
}

// RepositoryIdentity returns the repository path the physical directory was seeded as.
func RepositoryIdentity(testInstance *testing.T, physicalPath string) string {
	testInstance.Helper()
	content, readError := os.ReadFile(filepath.Join(physicalPath, identityFileName))
	require.NoError(testInstance, readError)
	return string(content)
}

// VisibleLinks maps every visible symlink, relative to the visible root, to its target.
func VisibleLinks(testInstance *testing.T, workspace shared.Workspace) map[string]string {
	testInstance.Helper()
	links := map[string]string{}
	walkError := filepath.WalkDir(workspace.VisibleRoot, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return visitError
		}
		if entry.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		target, readError := os.Readlink(currentPath)
		if readError != nil {
			return readError
		}
		relativePath, relativeError := filepath.Rel(workspace.VisibleRoot, currentPath)
		if relativeError != nil {
			return relativeError
		}
		links[filepath.ToSlash(relativePath)] = target
		return nil
	})
	require.NoError(testInstance, walkError)
	return links
}

// Directories lists every directory below root, relative and sorted, excluding the contents of repositories.
func Directories(testInstance *testing.T, root string) []string {
	testInstance.Helper()
	var directories []string
	walkError := filepath.WalkDir(root, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return visitError
		}
		if currentPath == root || !entry.IsDir() {
			return nil
		}
		relativePath, relativeError := filepath.Rel(root, currentPath)
		if relativeError != nil {
			return relativeError
		}
		directories = append(directories, filepath.ToSlash(relativePath))
		if shared.ClassifyPath(relativePath) == shared.EntryKindRepository {
			return filepath.SkipDir
		}
		return nil
	})
	require.NoError(testInstance, walkError)
	sort.Strings(directories)
	return directories
}

// RequireConsistent asserts that every visible link targets the physical directory of the same path.
func RequireConsistent(testInstance *testing.T, workspace shared.Workspace) {
	testInstance.Helper()
	for relativePath, target := range VisibleLinks(testInstance, workspace) {
		require.Equal(testInstance, workspace.PhysicalPath(relativePath), target, relativePath)
		require.DirExists(testInstance, target, relativePath)
	}
}
