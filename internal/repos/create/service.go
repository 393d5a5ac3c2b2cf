// Package create initializes new bare repositories and links them into the visible tree.
package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/execshell"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	createdRepositoryTemplateConstant     = "Created '%s'\n"
	createdRepositoriesTemplateConstant   = "Created %d new repositories\n"
	singleExistingTemplateConstant        = "Repo already exists at '%s'"
	multipleExistingTemplateConstant      = "Repos already exist at: %s"
	quotedPathTemplateConstant            = "'%s'"
	quotedPathSeparatorConstant           = ", "
	gitInitSubcommandConstant             = "init"
	gitBareFlagConstant                   = "--bare"
	gitQuietFlagConstant                  = "--quiet"
	directoryPermissionsConstant          = fs.FileMode(0o755)
	createPhysicalErrorTemplateConstant   = "Failed to create folders for '%s': %w"
	initializeErrorTemplateConstant       = "Failed to create repo '%s': %w"
	createVisibleErrorTemplateConstant    = "Failed to create folders for '%s': %w"
	linkErrorTemplateConstant             = "Failed to link repo '%s': %w"
	existenceCheckErrorTemplateConstant   = "Failed to inspect '%s': %w"
	creationStartedLogMessageConstant     = "creating repositories"
	repositoryCreatedLogMessageConstant   = "repository created"
	logFieldRepositoryConstant            = "repository"
	logFieldRepositoryCountConstant       = "repository_count"
	logFieldPhysicalPathConstant          = "physical_path"
	missingFileSystemMessageConstant      = "create service requires a filesystem"
	missingGitExecutorMessageConstant     = "create service requires a git executor"
	emptyRepositoryListMessageConstant    = "no repositories requested"
	minimumCountForSummaryLineConstant    = 2
	singleExistingRepositoryCountConstant = 1
)

var (
	// ErrFileSystemNotConfigured indicates a missing filesystem dependency.
	ErrFileSystemNotConfigured = errors.New(missingFileSystemMessageConstant)
	// ErrGitExecutorNotConfigured indicates a missing git executor dependency.
	ErrGitExecutorNotConfigured = errors.New(missingGitExecutorMessageConstant)
	// ErrNoRepositoriesRequested indicates an empty request.
	ErrNoRepositoriesRequested = errors.New(emptyRepositoryListMessageConstant)
)

// ExistingRepositoriesError reports requested paths that already exist on either tree.
type ExistingRepositoriesError struct {
	Paths []string
}

// Error renders the singular or plural operator message.
func (existingError ExistingRepositoriesError) Error() string {
	if len(existingError.Paths) == singleExistingRepositoryCountConstant {
		return fmt.Sprintf(singleExistingTemplateConstant, existingError.Paths[0])
	}
	quotedPaths := make([]string, 0, len(existingError.Paths))
	for _, existingPath := range existingError.Paths {
		quotedPaths = append(quotedPaths, fmt.Sprintf(quotedPathTemplateConstant, existingPath))
	}
	return fmt.Sprintf(multipleExistingTemplateConstant, strings.Join(quotedPaths, quotedPathSeparatorConstant))
}

// Options lists the repositories to create.
type Options struct {
	RepositoryPaths []shared.RepositoryPath
}

// Dependencies supplies collaborators required to create repositories.
type Dependencies struct {
	FileSystem  shared.FileSystem
	GitExecutor shared.GitExecutor
	Workspace   shared.Workspace
	Logger      *zap.Logger
	Output      io.Writer
}

// Service creates bare repositories.
type Service struct {
	dependencies Dependencies
	reporter     shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies, reporter: shared.NewWriterReporter(dependencies.Output)}, nil
}

// Execute creates every requested repository. Nothing is touched when any of them already exists.
func (service *Service) Execute(executionContext context.Context, options Options) error {
	repositoryPaths := deduplicate(options.RepositoryPaths)
	if len(repositoryPaths) == 0 {
		return ErrNoRepositoriesRequested
	}

	existingPaths, inspectionError := service.findExisting(repositoryPaths)
	if inspectionError != nil {
		return inspectionError
	}
	if len(existingPaths) > 0 {
		return ExistingRepositoriesError{Paths: existingPaths}
	}

	service.dependencies.Logger.Debug(creationStartedLogMessageConstant, zap.Int(logFieldRepositoryCountConstant, len(repositoryPaths)))

	for _, repositoryPath := range repositoryPaths {
		if creationError := service.createRepository(executionContext, repositoryPath); creationError != nil {
			return creationError
		}
		service.reporter.Printf(createdRepositoryTemplateConstant, repositoryPath)
	}

	if len(repositoryPaths) >= minimumCountForSummaryLineConstant {
		service.reporter.Printf(createdRepositoriesTemplateConstant, len(repositoryPaths))
	}
	return nil
}

func (service *Service) findExisting(repositoryPaths []string) ([]string, error) {
	workspace := service.dependencies.Workspace
	var existingPaths []string
	for _, repositoryPath := range repositoryPaths {
		for _, candidatePath := range []string{workspace.VisiblePath(repositoryPath), workspace.PhysicalPath(repositoryPath)} {
			exists, existsError := shared.PathExists(service.dependencies.FileSystem, candidatePath)
			if existsError != nil {
				return nil, fmt.Errorf(existenceCheckErrorTemplateConstant, repositoryPath, existsError)
			}
			if exists {
				existingPaths = append(existingPaths, repositoryPath)
				break
			}
		}
	}
	return existingPaths, nil
}

func (service *Service) createRepository(executionContext context.Context, repositoryPath string) error {
	workspace := service.dependencies.Workspace
	physicalPath := workspace.PhysicalPath(repositoryPath)
	visiblePath := workspace.VisiblePath(repositoryPath)

	if creationError := service.dependencies.FileSystem.MkdirAll(physicalPath, directoryPermissionsConstant); creationError != nil {
		return fmt.Errorf(createPhysicalErrorTemplateConstant, repositoryPath, creationError)
	}

	_, initializationError := service.dependencies.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitInitSubcommandConstant, gitBareFlagConstant, gitQuietFlagConstant, physicalPath},
	})
	if initializationError != nil {
		return fmt.Errorf(initializeErrorTemplateConstant, repositoryPath, initializationError)
	}

	if creationError := service.dependencies.FileSystem.MkdirAll(filepath.Dir(visiblePath), directoryPermissionsConstant); creationError != nil {
		return fmt.Errorf(createVisibleErrorTemplateConstant, repositoryPath, creationError)
	}

	if linkError := service.dependencies.FileSystem.Symlink(physicalPath, visiblePath); linkError != nil {
		return fmt.Errorf(linkErrorTemplateConstant, repositoryPath, linkError)
	}

	service.dependencies.Logger.Info(
		repositoryCreatedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldPhysicalPathConstant, physicalPath),
	)
	return nil
}

func deduplicate(repositoryPaths []shared.RepositoryPath) []string {
	seen := make(map[string]struct{}, len(repositoryPaths))
	unique := make([]string, 0, len(repositoryPaths))
	for _, repositoryPath := range repositoryPaths {
		value := repositoryPath.String()
		if _, duplicate := seen[value]; duplicate {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
