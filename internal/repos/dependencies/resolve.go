// Package dependencies supplies production defaults for repository service collaborators.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/execshell"
	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/filesystem"
	"github.com/temirov/reposhell/internal/repos/shared"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.NewOSFileSystem()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, options ...execshell.ShellExecutorOption) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), options...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveEnumerator builds an enumerator over the workspace's visible tree.
func ResolveEnumerator(fileSystem shared.FileSystem, workspace shared.Workspace, logger *zap.Logger) *discovery.Enumerator {
	return discovery.NewEnumerator(ResolveFileSystem(fileSystem), workspace.VisibleRoot, logger)
}
