package rename

import (
	"fmt"
	"path"

	"github.com/temirov/reposhell/internal/repos/discovery"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	occupiedConflictReasonConstant      = "Destination occupied by unmoved repository"
	depthConflictReasonConstant         = "Destination has a nesting deeper than 4"
	overlapConflictReasonTemplate       = "Overlapping destination : '%s' -> '%s'"
	existenceCheckErrorTemplateConstant = "Failed to inspect '%s': %w"
)

// PairStatus is the validation outcome of one planned move.
type PairStatus int

const (
	// PairStatusOK marks a move that can be executed.
	PairStatusOK PairStatus = iota
	// PairStatusDepthConflict marks a destination nested too deeply.
	PairStatusDepthConflict
	// PairStatusOverlapConflict marks a destination already claimed by an earlier move.
	PairStatusOverlapConflict
	// PairStatusOccupiedConflict marks a destination held by a repository that is not being moved.
	PairStatusOccupiedConflict
)

// String returns the status label.
func (status PairStatus) String() string {
	switch status {
	case PairStatusOK:
		return "ok"
	case PairStatusDepthConflict:
		return "depth-conflict"
	case PairStatusOverlapConflict:
		return "overlap-conflict"
	case PairStatusOccupiedConflict:
		return "occupied-conflict"
	default:
		return "unknown"
	}
}

// Move is one requested source to destination relocation, both relative repository paths.
type Move struct {
	Source      string
	Destination string
}

// Pair is a validated move.
type Pair struct {
	Source      string
	Destination string
	Status      PairStatus
	// ConflictsWith names the source of the earlier move claiming the same destination.
	ConflictsWith string
}

// Reason describes why the pair cannot be executed. It is empty for clean pairs.
func (pair Pair) Reason() string {
	switch pair.Status {
	case PairStatusOccupiedConflict:
		return occupiedConflictReasonConstant
	case PairStatusDepthConflict:
		return depthConflictReasonConstant
	case PairStatusOverlapConflict:
		return fmt.Sprintf(overlapConflictReasonTemplate, pair.ConflictsWith, pair.Destination)
	default:
		return ""
	}
}

// Plan is a fully validated batch of moves. A plan with conflicts must never be executed.
type Plan struct {
	Pairs []Pair
	// StagingRequired is set when some destination is currently held by another source of the batch.
	StagingRequired bool
	// NotReplaced lists the sources whose visible paths are not reused by any destination.
	NotReplaced []string
}

// CleanPairs returns the executable pairs in plan order.
func (plan Plan) CleanPairs() []Pair {
	return plan.filterPairs(true)
}

// ConflictingPairs returns the rejected pairs in plan order.
func (plan Plan) ConflictingPairs() []Pair {
	return plan.filterPairs(false)
}

// HasConflicts reports whether any pair was rejected.
func (plan Plan) HasConflicts() bool {
	return len(plan.ConflictingPairs()) > 0
}

// IsEmpty reports whether the plan moves nothing.
func (plan Plan) IsEmpty() bool {
	return len(plan.Pairs) == 0
}

// ConflictError aggregates every rejected pair, or returns nil for a clean plan.
func (plan Plan) ConflictError() error {
	conflictingPairs := plan.ConflictingPairs()
	if len(conflictingPairs) == 0 {
		return nil
	}
	conflicts := make([]shared.Conflict, 0, len(conflictingPairs))
	for _, pair := range conflictingPairs {
		conflicts = append(conflicts, shared.Conflict{Source: pair.Source, Destination: pair.Destination, Reason: pair.Reason()})
	}
	return shared.ConflictError{Conflicts: conflicts}
}

func (plan Plan) filterPairs(clean bool) []Pair {
	var filtered []Pair
	for _, pair := range plan.Pairs {
		if (pair.Status == PairStatusOK) == clean {
			filtered = append(filtered, pair)
		}
	}
	return filtered
}

// Planner expands and validates moves without touching the filesystem.
type Planner struct {
	fileSystem shared.FileSystem
	workspace  shared.Workspace
	enumerator *discovery.Enumerator
}

// NewPlanner constructs a planner over the workspace trees.
func NewPlanner(fileSystem shared.FileSystem, workspace shared.Workspace, enumerator *discovery.Enumerator) *Planner {
	return &Planner{fileSystem: fileSystem, workspace: workspace, enumerator: enumerator}
}

// ExpandBatch maps matched sources under a folder destination. A repository keeps its base
// name; a folder contributes every nested repository relative to the folder's parent, so the
// folder itself reappears under the destination. Moves onto themselves are dropped.
func (planner *Planner) ExpandBatch(matchedSources []shared.Entry, destinationFolder string) ([]Move, error) {
	var moves []Move
	for _, matchedSource := range matchedSources {
		if matchedSource.IsRepository() {
			moves = appendMove(moves, matchedSource.Path, shared.JoinPath(destinationFolder, path.Base(matchedSource.Path)))
			continue
		}

		nestedRepositories, nestedError := planner.enumerator.RepositoriesWithin(matchedSource.Path)
		if nestedError != nil {
			return nil, nestedError
		}
		folderParent := parentFolder(matchedSource.Path)
		for _, nestedRepository := range nestedRepositories {
			relativeToParent := nestedRepository.Path
			if len(folderParent) > 0 {
				relativeToParent = nestedRepository.Path[len(folderParent)+len(shared.PathSeparatorConstant):]
			}
			moves = appendMove(moves, nestedRepository.Path, shared.JoinPath(destinationFolder, relativeToParent))
		}
	}
	return moves, nil
}

// PlanMoves validates moves in order and records every conflict instead of stopping at the first.
// A destination held by another source of the same batch is not a conflict; it requires staging.
func (planner *Planner) PlanMoves(moves []Move) (Plan, error) {
	batchSources := make(map[string]struct{}, len(moves))
	for _, move := range moves {
		batchSources[move.Source] = struct{}{}
	}

	plan := Plan{Pairs: make([]Pair, 0, len(moves))}
	claimedDestinations := make(map[string]string, len(moves))
	replacedSources := make(map[string]struct{}, len(moves))

	for _, move := range moves {
		pair := Pair{Source: move.Source, Destination: move.Destination, Status: PairStatusOK}

		occupied, occupiedError := planner.destinationExists(move.Destination)
		if occupiedError != nil {
			return Plan{}, occupiedError
		}
		_, destinationIsSource := batchSources[move.Destination]

		switch {
		case occupied && !destinationIsSource:
			pair.Status = PairStatusOccupiedConflict
		case shared.PathDepth(move.Destination) > shared.MaximumNestingDepthConstant:
			pair.Status = PairStatusDepthConflict
		default:
			if earlierSource, claimed := claimedDestinations[move.Destination]; claimed {
				pair.Status = PairStatusOverlapConflict
				pair.ConflictsWith = earlierSource
			}
		}

		if occupied && destinationIsSource {
			plan.StagingRequired = true
		}
		if pair.Status == PairStatusOK {
			claimedDestinations[move.Destination] = move.Source
			replacedSources[move.Destination] = struct{}{}
		}
		plan.Pairs = append(plan.Pairs, pair)
	}

	for _, pair := range plan.Pairs {
		if _, replaced := replacedSources[pair.Source]; !replaced {
			plan.NotReplaced = append(plan.NotReplaced, pair.Source)
		}
	}
	return plan, nil
}

func (planner *Planner) destinationExists(destination string) (bool, error) {
	for _, candidatePath := range []string{planner.workspace.VisiblePath(destination), planner.workspace.PhysicalPath(destination)} {
		exists, existsError := shared.PathExists(planner.fileSystem, candidatePath)
		if existsError != nil {
			return false, fmt.Errorf(existenceCheckErrorTemplateConstant, destination, existsError)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func appendMove(moves []Move, source string, destination string) []Move {
	if source == destination {
		return moves
	}
	return append(moves, Move{Source: source, Destination: destination})
}

func parentFolder(relativePath string) string {
	parent := path.Dir(relativePath)
	if parent == "." {
		return ""
	}
	return parent
}
