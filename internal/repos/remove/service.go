// Package remove deletes repositories selected by glob patterns.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/filesystem"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	planHeaderTemplateConstant          = "Plan to delete %d repositories:\n"
	planLineTemplateConstant            = "Delete '%s'\n"
	confirmationPromptTemplateConstant  = "Delete '%s' [y/N]: "
	deletedRepositoryTemplateConstant   = "Deleted '%s'\n"
	deletedSingleSummaryConstant        = "Deleted 1 repository\n"
	deletedPluralSummaryTemplate        = "Deleted %d repositories\n"
	unlinkErrorTemplateConstant         = "Failed to unlink repo '%s': %w"
	removeErrorTemplateConstant         = "Failed to remove repo '%s': %w"
	pruneErrorTemplateConstant          = "Failed to clean up folders above '%s': %w"
	confirmationErrorTemplateConstant   = "Failed to read confirmation for '%s': %w"
	deletionPlannedLogMessageConstant   = "deletion planned"
	repositoryDeletedLogMessageConstant = "repository deleted"
	repositorySkippedLogMessageConstant = "repository deletion declined"
	logFieldRepositoryConstant          = "repository"
	logFieldRepositoryCountConstant     = "repository_count"
	logFieldDryRunConstant              = "dry_run"
)

var (
	// ErrFileSystemNotConfigured indicates a missing filesystem dependency.
	ErrFileSystemNotConfigured = errors.New("delete service requires a filesystem")
	// ErrEnumeratorNotConfigured indicates a missing enumerator dependency.
	ErrEnumeratorNotConfigured = errors.New("delete service requires an enumerator")
	// ErrPrompterNotConfigured indicates that confirmation was requested without a prompter.
	ErrPrompterNotConfigured = errors.New("delete service requires a prompter unless confirmation is assumed")
)

// Options configures a deletion.
type Options struct {
	Globs        shared.RepositoryGlobSet
	Mode         shared.ExecutionMode
	Confirmation shared.ConfirmationPolicy
}

// Dependencies supplies collaborators required to delete repositories.
type Dependencies struct {
	FileSystem shared.FileSystem
	Enumerator *discovery.Enumerator
	Prompter   shared.ConfirmationPrompter
	Workspace  shared.Workspace
	Logger     *zap.Logger
	Output     io.Writer
}

// Service deletes repositories from both trees.
type Service struct {
	dependencies Dependencies
	reporter     shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Enumerator == nil {
		return nil, ErrEnumeratorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies, reporter: shared.NewWriterReporter(dependencies.Output)}, nil
}

// Execute resolves the globs and deletes every selected repository, one confirmation at a time.
func (service *Service) Execute(executionContext context.Context, options Options) error {
	if options.Confirmation.ShouldPrompt() && !options.Mode.IsDryRun() && service.dependencies.Prompter == nil {
		return ErrPrompterNotConfigured
	}

	repositories, resolveError := service.dependencies.Enumerator.ResolveGlobs(options.Globs)
	if resolveError != nil {
		return resolveError
	}
	if len(repositories) == 0 {
		return shared.NotFoundError{}
	}

	service.dependencies.Logger.Debug(
		deletionPlannedLogMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
		zap.Bool(logFieldDryRunConstant, options.Mode.IsDryRun()),
	)

	if options.Mode.IsDryRun() {
		service.reporter.Printf(planHeaderTemplateConstant, len(repositories))
		for _, repository := range repositories {
			service.reporter.Printf(planLineTemplateConstant, repository.Path)
		}
		return nil
	}

	deletedCount := 0
	for _, repository := range repositories {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if options.Confirmation.ShouldPrompt() {
			confirmed, confirmationError := service.dependencies.Prompter.Confirm(fmt.Sprintf(confirmationPromptTemplateConstant, repository.Path))
			if confirmationError != nil {
				return fmt.Errorf(confirmationErrorTemplateConstant, repository.Path, confirmationError)
			}
			if !confirmed {
				service.dependencies.Logger.Debug(repositorySkippedLogMessageConstant, zap.String(logFieldRepositoryConstant, repository.Path))
				continue
			}
		}

		if deletionError := service.deleteRepository(repository.Path); deletionError != nil {
			return deletionError
		}
		service.reporter.Printf(deletedRepositoryTemplateConstant, repository.Path)
		deletedCount++
	}

	if deletedCount == 1 {
		service.reporter.Printf(deletedSingleSummaryConstant)
	} else {
		service.reporter.Printf(deletedPluralSummaryTemplate, deletedCount)
	}
	return nil
}

func (service *Service) deleteRepository(repositoryPath string) error {
	workspace := service.dependencies.Workspace
	fileSystem := service.dependencies.FileSystem
	visiblePath := workspace.VisiblePath(repositoryPath)
	physicalPath := workspace.PhysicalPath(repositoryPath)

	if unlinkError := fileSystem.Remove(visiblePath); unlinkError != nil {
		return fmt.Errorf(unlinkErrorTemplateConstant, repositoryPath, unlinkError)
	}
	if removeError := fileSystem.RemoveAll(physicalPath); removeError != nil {
		return fmt.Errorf(removeErrorTemplateConstant, repositoryPath, removeError)
	}

	if pruneError := filesystem.PruneEmptyParents(fileSystem, visiblePath, workspace.VisibleRoot); pruneError != nil {
		return fmt.Errorf(pruneErrorTemplateConstant, repositoryPath, pruneError)
	}
	if pruneError := filesystem.PruneEmptyParents(fileSystem, physicalPath, workspace.RepositoryHome); pruneError != nil {
		return fmt.Errorf(pruneErrorTemplateConstant, repositoryPath, pruneError)
	}

	service.dependencies.Logger.Info(repositoryDeletedLogMessageConstant, zap.String(logFieldRepositoryConstant, repositoryPath))
	return nil
}
