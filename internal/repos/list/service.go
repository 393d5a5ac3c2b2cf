// Package list prints the operator's repositories, optionally filtered by glob patterns.
package list

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	repositoryLineTemplateConstant   = "%s\n"
	noRepositoriesMessageConstant    = "You have no repositories.\n"
	noMatchesMessageConstant         = "No results match filter.\n"
	matchedSummaryTemplateConstant   = "Matched %d repositories out of %d total.\n"
	listingCompletedLogMessage       = "listing completed"
	logFieldMatchedCountConstant     = "matched_count"
	logFieldTotalCountConstant       = "total_count"
	logFieldFilterCountConstant      = "filter_count"
	missingEnumeratorMessageConstant = "list service requires an enumerator"
)

// ErrEnumeratorNotConfigured indicates a missing enumerator dependency.
var ErrEnumeratorNotConfigured = errors.New(missingEnumeratorMessageConstant)

// Options configures a listing.
type Options struct {
	Filters   shared.RepositoryGlobSet
	Invert    bool
	CountOnly bool
}

// Result summarizes a listing.
type Result struct {
	Matched int
	Total   int
}

// Dependencies supplies collaborators required to list repositories.
type Dependencies struct {
	Enumerator *discovery.Enumerator
	Logger     *zap.Logger
	Output     io.Writer
}

// Service lists repositories.
type Service struct {
	dependencies Dependencies
	reporter     shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Enumerator == nil {
		return nil, ErrEnumeratorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies, reporter: shared.NewWriterReporter(dependencies.Output)}, nil
}

// Execute streams every repository once, printing the matching ones followed by a summary line.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	var result Result
	for entry, enumerationError := range service.dependencies.Enumerator.Enumerate(discovery.EnumerationOptions{}, discovery.MatchRepositories) {
		if enumerationError != nil {
			return Result{}, enumerationError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return Result{}, contextError
		}
		result.Total++
		if !Matches(entry.Path, options.Filters, options.Invert) {
			continue
		}
		result.Matched++
		if !options.CountOnly {
			service.reporter.Printf(repositoryLineTemplateConstant, entry.Path)
		}
	}

	switch {
	case result.Total == 0:
		service.reporter.Printf(noRepositoriesMessageConstant)
	case result.Matched == 0:
		service.reporter.Printf(noMatchesMessageConstant)
	default:
		service.reporter.Printf(matchedSummaryTemplateConstant, result.Matched, result.Total)
	}

	service.dependencies.Logger.Debug(
		listingCompletedLogMessage,
		zap.Int(logFieldMatchedCountConstant, result.Matched),
		zap.Int(logFieldTotalCountConstant, result.Total),
		zap.Int(logFieldFilterCountConstant, len(options.Filters)),
	)
	return result, nil
}

// Matches applies the listing filter rule: with no filters everything matches, otherwise a
// repository matches when any filter selects it or one of its folders. invert flips the outcome.
func Matches(repositoryPath string, filters shared.RepositoryGlobSet, invert bool) bool {
	selected := len(filters) == 0 || filters.MatchWithin(repositoryPath)
	return selected != invert
}
