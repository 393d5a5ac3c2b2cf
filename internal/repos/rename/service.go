package rename

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	nothingToDoMessageConstant        = "Nothing to do\n"
	planHeaderTemplateConstant        = "Plan to move %d repositories:\n"
	partialPlanHeaderTemplateConstant = "Able to move %d repositories:\n"
	occupiedRenameTemplateConstant    = "Cannot rename '%s' -> '%s' : Destination occupied"
	repositoryDestinationMessage      = "Destination is a repository, but multiple sources match"
	renameModeSelectedLogMessage      = "single repository rename"
	batchModeSelectedLogMessage       = "batch move planned"
	logFieldConflictCountConstant     = "conflict_count"
	missingFileSystemMessageConstant  = "move service requires a filesystem"
	missingEnumeratorMessageConstant  = "move service requires an enumerator"
)

var (
	// ErrFileSystemNotConfigured indicates a missing filesystem dependency.
	ErrFileSystemNotConfigured = errors.New(missingFileSystemMessageConstant)
	// ErrEnumeratorNotConfigured indicates a missing enumerator dependency.
	ErrEnumeratorNotConfigured = errors.New(missingEnumeratorMessageConstant)
	// ErrRepositoryDestinationForBatch rejects a repository-shaped destination for several sources.
	ErrRepositoryDestinationForBatch = errors.New(repositoryDestinationMessage)
)

// OccupiedDestinationError reports a single rename whose destination already exists.
type OccupiedDestinationError struct {
	Source      string
	Destination string
}

// Error renders the operator message.
func (occupiedError OccupiedDestinationError) Error() string {
	return fmt.Sprintf(occupiedRenameTemplateConstant, occupiedError.Source, occupiedError.Destination)
}

// Options configures a move.
type Options struct {
	Sources     shared.RepositoryGlobSet
	Destination shared.MoveDestination
	Mode        shared.ExecutionMode
}

// Service selects between a single repository rename and a batch move.
type Service struct {
	dependencies Dependencies
	planner      *Planner
	executor     *Executor
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Enumerator == nil {
		return nil, ErrEnumeratorNotConfigured
	}
	executor := NewExecutor(dependencies)
	return &Service{
		dependencies: executor.dependencies,
		planner:      NewPlanner(dependencies.FileSystem, dependencies.Workspace, dependencies.Enumerator),
		executor:     executor,
	}, nil
}

// Execute resolves sources and performs the move. A single matched repository with a
// repository-capable destination is renamed; everything else is planned as a batch.
func (service *Service) Execute(executionContext context.Context, options Options) error {
	matchedSources, matchError := service.dependencies.Enumerator.MatchGlobs(options.Sources)
	if matchError != nil {
		return matchError
	}
	if len(matchedSources) == 0 {
		return shared.NotFoundError{}
	}

	if len(matchedSources) == 1 && matchedSources[0].IsRepository() && options.Destination.CanRepresentRepository() {
		return service.renameSingle(executionContext, matchedSources[0].Path, options)
	}
	return service.moveBatch(executionContext, matchedSources, options)
}

func (service *Service) renameSingle(executionContext context.Context, source string, options Options) error {
	destinationPath, destinationError := options.Destination.RepositoryPath()
	if destinationError != nil {
		return destinationError
	}
	destination := destinationPath.String()

	service.dependencies.Logger.Debug(
		renameModeSelectedLogMessage,
		zap.String(logFieldSourceConstant, source),
		zap.String(logFieldDestinationConstant, destination),
	)

	if source == destination {
		service.executor.printfOutput(nothingToDoMessageConstant)
		return nil
	}

	occupied, occupiedError := service.planner.destinationExists(destination)
	if occupiedError != nil {
		return occupiedError
	}
	if occupied {
		return OccupiedDestinationError{Source: source, Destination: destination}
	}

	service.executor.printfOutput(moveLineTemplateConstant, source, destination)
	if options.Mode.IsDryRun() {
		return nil
	}
	return service.executor.RenameRepository(executionContext, source, destination)
}

func (service *Service) moveBatch(executionContext context.Context, matchedSources []shared.Entry, options Options) error {
	if options.Destination.RepresentsRepository() {
		return ErrRepositoryDestinationForBatch
	}

	moves, expansionError := service.planner.ExpandBatch(matchedSources, options.Destination.FolderPath())
	if expansionError != nil {
		return expansionError
	}
	plan, planError := service.planner.PlanMoves(moves)
	if planError != nil {
		return planError
	}

	service.dependencies.Logger.Debug(
		batchModeSelectedLogMessage,
		zap.Int(logFieldPairCountConstant, len(plan.Pairs)),
		zap.Int(logFieldConflictCountConstant, len(plan.ConflictingPairs())),
		zap.Bool(logFieldStagingConstant, plan.StagingRequired),
	)

	if plan.HasConflicts() {
		cleanPairs := plan.CleanPairs()
		service.executor.printfOutput(partialPlanHeaderTemplateConstant, len(cleanPairs))
		service.printPairs(cleanPairs)
		return plan.ConflictError()
	}

	if plan.IsEmpty() {
		service.executor.printfError(nothingToDoMessageConstant)
		return nil
	}

	if options.Mode.IsDryRun() {
		service.executor.printfOutput(planHeaderTemplateConstant, len(plan.Pairs))
		service.printPairs(plan.Pairs)
		return nil
	}

	return service.executor.ExecutePlan(executionContext, plan)
}

func (service *Service) printPairs(pairs []Pair) {
	for _, pair := range pairs {
		service.executor.printfOutput(moveLineTemplateConstant, pair.Source, pair.Destination)
	}
}
