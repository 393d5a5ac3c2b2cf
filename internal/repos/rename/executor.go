package rename

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/filesystem"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	moveLineTemplateConstant           = "'%s' -> '%s'\n"
	movedSummaryTemplateConstant       = "Moved %d repositories\n"
	renamedMessageConstant             = "Repository renamed\n"
	createFoldersErrorTemplateConstant = "Failed to create folders for '%s': %w"
	stageErrorTemplateConstant         = "Failed to stage repository '%s': %w"
	moveErrorTemplateConstant          = "Failed to move repository '%s' -> '%s': %w"
	linkErrorTemplateConstant          = "Failed to link repo '%s': %w"
	unlinkErrorTemplateConstant        = "Failed to unlink old location '%s': %w"
	pruneErrorTemplateConstant         = "Failed to clean up folders above '%s': %w"
	stagingCleanupErrorTemplate        = "Failed to remove staging folder '%s': %w"
	stagingInspectErrorTemplate        = "Failed to inspect staging folder '%s': %w"
	stagingOccupiedTemplateConstant    = "Staging folder '%s' is not empty; an earlier move was interrupted"
	directoryPermissionsConstant       = fs.FileMode(0o755)
	executionStartedLogMessage         = "executing move plan"
	repositoryMovedLogMessage          = "repository moved"
	repositoryStagedLogMessage         = "repository staged"
	logFieldSourceConstant             = "source"
	logFieldDestinationConstant        = "destination"
	logFieldPairCountConstant          = "pair_count"
	logFieldStagingConstant            = "staging_required"
)

// StagingOccupiedError reports a leftover staging folder from an interrupted batch.
type StagingOccupiedError struct {
	StagingRoot string
}

// Error describes the leftover folder.
func (stagingError StagingOccupiedError) Error() string {
	return fmt.Sprintf(stagingOccupiedTemplateConstant, stagingError.StagingRoot)
}

// Dependencies supplies collaborators required to plan and execute moves.
type Dependencies struct {
	FileSystem shared.FileSystem
	Enumerator *discovery.Enumerator
	Workspace  shared.Workspace
	Logger     *zap.Logger
	Output     io.Writer
	Errors     io.Writer
}

// Executor performs validated moves on both trees.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor constructs an Executor from the provided dependencies.
func NewExecutor(dependencies Dependencies) *Executor {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Executor{dependencies: dependencies}
}

// ExecutePlan runs a conflict-free plan. Physical directories are first parked in the staging
// folder when the plan requires it, so no two visible paths ever share physical storage.
// An I/O failure stops execution immediately without rollback.
func (executor *Executor) ExecutePlan(executionContext context.Context, plan Plan) error {
	if conflictError := plan.ConflictError(); conflictError != nil {
		return conflictError
	}
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}

	workspace := executor.dependencies.Workspace
	fileSystem := executor.dependencies.FileSystem
	pairs := plan.CleanPairs()

	executor.dependencies.Logger.Debug(
		executionStartedLogMessage,
		zap.Int(logFieldPairCountConstant, len(pairs)),
		zap.Bool(logFieldStagingConstant, plan.StagingRequired),
	)

	if plan.StagingRequired {
		if stagingError := executor.ensureStagingAvailable(); stagingError != nil {
			return stagingError
		}
	}

	for _, pair := range pairs {
		if creationError := executor.createParents(pair.Destination); creationError != nil {
			return creationError
		}
	}

	sourceRoot := workspace.RepositoryHome
	if plan.StagingRequired {
		for _, pair := range pairs {
			stagingPath := workspace.StagingPath(pair.Source)
			if creationError := fileSystem.MkdirAll(filepath.Dir(stagingPath), directoryPermissionsConstant); creationError != nil {
				return fmt.Errorf(stageErrorTemplateConstant, pair.Source, creationError)
			}
			if renameError := fileSystem.Rename(workspace.PhysicalPath(pair.Source), stagingPath); renameError != nil {
				return fmt.Errorf(stageErrorTemplateConstant, pair.Source, renameError)
			}
			executor.dependencies.Logger.Debug(repositoryStagedLogMessage, zap.String(logFieldSourceConstant, pair.Source))
		}
		sourceRoot = workspace.StagingRoot
	}

	for _, pair := range pairs {
		executor.printfOutput(moveLineTemplateConstant, pair.Source, pair.Destination)
		currentPhysicalPath := filepath.Join(sourceRoot, filepath.FromSlash(pair.Source))
		if renameError := fileSystem.Rename(currentPhysicalPath, workspace.PhysicalPath(pair.Destination)); renameError != nil {
			return fmt.Errorf(moveErrorTemplateConstant, pair.Source, pair.Destination, renameError)
		}
		executor.dependencies.Logger.Info(
			repositoryMovedLogMessage,
			zap.String(logFieldSourceConstant, pair.Source),
			zap.String(logFieldDestinationConstant, pair.Destination),
		)
	}

	for _, pair := range pairs {
		if linkError := executor.relink(pair.Destination); linkError != nil {
			return linkError
		}
	}

	for _, source := range plan.NotReplaced {
		if unlinkError := fileSystem.Remove(workspace.VisiblePath(source)); unlinkError != nil {
			return fmt.Errorf(unlinkErrorTemplateConstant, source, unlinkError)
		}
	}
	for _, source := range plan.NotReplaced {
		if pruneError := executor.pruneBoth(source); pruneError != nil {
			return pruneError
		}
	}

	if plan.StagingRequired {
		if cleanupError := fileSystem.RemoveAll(workspace.StagingRoot); cleanupError != nil {
			return fmt.Errorf(stagingCleanupErrorTemplate, workspace.StagingRoot, cleanupError)
		}
	}

	executor.printfOutput(movedSummaryTemplateConstant, len(pairs))
	return nil
}

// RenameRepository moves one repository to a free destination and relinks it.
func (executor *Executor) RenameRepository(executionContext context.Context, source string, destination string) error {
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}

	workspace := executor.dependencies.Workspace
	fileSystem := executor.dependencies.FileSystem

	if creationError := executor.createParents(destination); creationError != nil {
		return creationError
	}
	if renameError := fileSystem.Rename(workspace.PhysicalPath(source), workspace.PhysicalPath(destination)); renameError != nil {
		return fmt.Errorf(moveErrorTemplateConstant, source, destination, renameError)
	}
	if linkError := fileSystem.Symlink(workspace.PhysicalPath(destination), workspace.VisiblePath(destination)); linkError != nil {
		return fmt.Errorf(linkErrorTemplateConstant, destination, linkError)
	}
	if unlinkError := fileSystem.Remove(workspace.VisiblePath(source)); unlinkError != nil {
		return fmt.Errorf(unlinkErrorTemplateConstant, source, unlinkError)
	}
	if pruneError := executor.pruneBoth(source); pruneError != nil {
		return pruneError
	}

	executor.dependencies.Logger.Info(
		repositoryMovedLogMessage,
		zap.String(logFieldSourceConstant, source),
		zap.String(logFieldDestinationConstant, destination),
	)
	executor.printfOutput(renamedMessageConstant)
	return nil
}

func (executor *Executor) ensureStagingAvailable() error {
	stagingRoot := executor.dependencies.Workspace.StagingRoot
	exists, existsError := shared.PathExists(executor.dependencies.FileSystem, stagingRoot)
	if existsError != nil {
		return fmt.Errorf(stagingInspectErrorTemplate, stagingRoot, existsError)
	}
	if !exists {
		return nil
	}
	empty, emptyError := executor.dependencies.FileSystem.IsEmpty(stagingRoot)
	if emptyError != nil {
		return fmt.Errorf(stagingInspectErrorTemplate, stagingRoot, emptyError)
	}
	if !empty {
		return StagingOccupiedError{StagingRoot: stagingRoot}
	}
	return nil
}

func (executor *Executor) createParents(destination string) error {
	workspace := executor.dependencies.Workspace
	for _, parentPath := range []string{filepath.Dir(workspace.PhysicalPath(destination)), filepath.Dir(workspace.VisiblePath(destination))} {
		if creationError := executor.dependencies.FileSystem.MkdirAll(parentPath, directoryPermissionsConstant); creationError != nil {
			return fmt.Errorf(createFoldersErrorTemplateConstant, destination, creationError)
		}
	}
	return nil
}

func (executor *Executor) relink(destination string) error {
	workspace := executor.dependencies.Workspace
	visiblePath := workspace.VisiblePath(destination)

	fileInfo, statError := executor.dependencies.FileSystem.Lstat(visiblePath)
	switch {
	case statError == nil && fileInfo.Mode()&fs.ModeSymlink != 0:
		if unlinkError := executor.dependencies.FileSystem.Remove(visiblePath); unlinkError != nil {
			return fmt.Errorf(unlinkErrorTemplateConstant, destination, unlinkError)
		}
	case statError != nil && !errors.Is(statError, fs.ErrNotExist):
		return fmt.Errorf(linkErrorTemplateConstant, destination, statError)
	}

	if linkError := executor.dependencies.FileSystem.Symlink(workspace.PhysicalPath(destination), visiblePath); linkError != nil {
		return fmt.Errorf(linkErrorTemplateConstant, destination, linkError)
	}
	return nil
}

func (executor *Executor) pruneBoth(source string) error {
	workspace := executor.dependencies.Workspace
	if pruneError := filesystem.PruneEmptyParents(executor.dependencies.FileSystem, workspace.VisiblePath(source), workspace.VisibleRoot); pruneError != nil {
		return fmt.Errorf(pruneErrorTemplateConstant, source, pruneError)
	}
	if pruneError := filesystem.PruneEmptyParents(executor.dependencies.FileSystem, workspace.PhysicalPath(source), workspace.RepositoryHome); pruneError != nil {
		return fmt.Errorf(pruneErrorTemplateConstant, source, pruneError)
	}
	return nil
}

func (executor *Executor) printfOutput(format string, arguments ...any) {
	if executor.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(executor.dependencies.Output, format, arguments...)
}

func (executor *Executor) printfError(format string, arguments ...any) {
	if executor.dependencies.Errors == nil {
		return
	}
	fmt.Fprintf(executor.dependencies.Errors, format, arguments...)
}
