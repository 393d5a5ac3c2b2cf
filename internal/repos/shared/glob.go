package shared

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	maximumGlobLengthConstant        = 64
	everythingGlobPatternConstant    = "**/*"
	subtreeWildcardSuffixConstant    = "**"
	emptyGlobReasonConstant          = "Glob cannot be empty"
	globTooLongReasonConstant        = "Glob cannot exceed 64 characters"
	invalidGlobPatternReasonConstant = "Invalid glob pattern"
)

// RepositoryGlob is a validated, normalized match pattern over relative namespace paths.
type RepositoryGlob struct {
	raw     string
	pattern string
}

// NewRepositoryGlob validates raw operator input and rewrites it into a doublestar pattern.
func NewRepositoryGlob(raw string) (RepositoryGlob, error) {
	switch {
	case len(raw) == 0:
		return RepositoryGlob{}, ValidationError{Input: raw, Reason: emptyGlobReasonConstant}
	case len(raw) > maximumGlobLengthConstant:
		return RepositoryGlob{}, ValidationError{Input: raw, Reason: globTooLongReasonConstant}
	}

	if traversalError := validateTraversal(raw); traversalError != nil {
		return RepositoryGlob{}, traversalError
	}

	pattern := normalizeGlobPattern(raw)
	if !doublestar.ValidatePattern(pattern) {
		return RepositoryGlob{}, ValidationError{Input: raw, Reason: invalidGlobPatternReasonConstant}
	}

	return RepositoryGlob{raw: raw, pattern: pattern}, nil
}

// MustRepositoryGlob panics when raw is not a valid glob. Intended for static patterns.
func MustRepositoryGlob(raw string) RepositoryGlob {
	glob, globError := NewRepositoryGlob(raw)
	if globError != nil {
		panic(globError)
	}
	return glob
}

// String returns the glob as typed by the operator.
func (glob RepositoryGlob) String() string {
	return glob.raw
}

// Pattern returns the normalized doublestar pattern.
func (glob RepositoryGlob) Pattern() string {
	return glob.pattern
}

// Match reports whether relativePath matches the pattern. Wildcards never cross a separator.
func (glob RepositoryGlob) Match(relativePath string) bool {
	matched, matchError := doublestar.Match(glob.pattern, relativePath)
	return matchError == nil && matched
}

// MatchWithin reports whether relativePath or any of its ancestor folders matches the pattern.
func (glob RepositoryGlob) MatchWithin(relativePath string) bool {
	candidate := relativePath
	for len(candidate) > 0 {
		if glob.Match(candidate) {
			return true
		}
		separatorIndex := strings.LastIndex(candidate, PathSeparatorConstant)
		if separatorIndex < 0 {
			return false
		}
		candidate = candidate[:separatorIndex]
	}
	return false
}

// RepositoryGlobSet matches a path against any member glob.
type RepositoryGlobSet []RepositoryGlob

// Match reports whether any glob matches relativePath.
func (globSet RepositoryGlobSet) Match(relativePath string) bool {
	for _, glob := range globSet {
		if glob.Match(relativePath) {
			return true
		}
	}
	return false
}

// MatchWithin reports whether any glob matches relativePath or one of its ancestors.
func (globSet RepositoryGlobSet) MatchWithin(relativePath string) bool {
	for _, glob := range globSet {
		if glob.MatchWithin(relativePath) {
			return true
		}
	}
	return false
}

// ParseRepositoryGlobs validates every raw glob, failing on the first invalid one.
func ParseRepositoryGlobs(rawGlobs []string) (RepositoryGlobSet, error) {
	globSet := make(RepositoryGlobSet, 0, len(rawGlobs))
	for _, rawGlob := range rawGlobs {
		glob, globError := NewRepositoryGlob(rawGlob)
		if globError != nil {
			return nil, globError
		}
		globSet = append(globSet, glob)
	}
	return globSet, nil
}

func normalizeGlobPattern(raw string) string {
	switch {
	case raw == visibleRootLiteralConstant:
		return everythingGlobPatternConstant
	case strings.HasSuffix(raw, RepositorySuffixConstant):
		return raw
	case strings.HasSuffix(raw, PathSeparatorConstant):
		return strings.TrimSuffix(raw, PathSeparatorConstant)
	case strings.HasSuffix(raw, subtreeWildcardSuffixConstant):
		return raw
	default:
		return raw + RepositorySuffixConstant
	}
}
