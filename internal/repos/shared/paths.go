package shared

import (
	"path"
	"regexp"
	"strings"
)

const (
	// RepositorySuffixConstant marks a path as addressing a bare repository.
	RepositorySuffixConstant = ".git"
	// PathSeparatorConstant separates namespace segments regardless of platform.
	PathSeparatorConstant = "/"
	// MaximumNestingDepthConstant bounds the number of segments in any namespace path.
	MaximumNestingDepthConstant = 4
	// ReservedCommandsFolderNameConstant names the restricted-commands directory of the visible root.
	ReservedCommandsFolderNameConstant = "git-shell-commands"
	// ReservedSSHFolderNameConstant names the ssh configuration directory of the visible root.
	ReservedSSHFolderNameConstant = ".ssh"

	maximumPathLengthConstant         = 256
	visibleRootLiteralConstant        = "."
	parentDirectorySegmentConstant    = ".."
	emptyPathReasonConstant           = "Path cannot be empty"
	pathTooLongReasonConstant         = "Path cannot exceed 256 characters"
	absolutePathReasonConstant        = "Absolute paths are not allowed"
	backtrackingReasonConstant        = "Backtracking not allowed"
	nestingTooDeepReasonConstant      = "Nesting must not exceed a depth of 4"
	invalidCharactersReasonConstant   = "Repository and folder names can only contain alphanumeric characters, hyphens, and underscores"
	reservedFolderReasonConstant      = "Folder name disallowed"
	directoryNotAllowedReasonConstant = "Directory not allowed"
)

var namespacePathPattern = regexp.MustCompile(`^(?:[A-Za-z0-9_\-]+/)*[A-Za-z0-9_\-]+(?:\.git|/)?$`)

// RepositoryPath is a validated, relative repository location that always ends in .git.
type RepositoryPath struct {
	value string
}

// NewRepositoryPath validates raw operator input and appends the repository suffix when missing.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	parsed, parseError := parseNamespacePath(raw)
	if parseError != nil {
		return RepositoryPath{}, parseError
	}
	if len(parsed) == 0 || strings.HasSuffix(parsed, PathSeparatorConstant) {
		return RepositoryPath{}, ValidationError{Input: raw, Reason: directoryNotAllowedReasonConstant}
	}
	return RepositoryPath{value: EnforceRepositorySuffix(parsed)}, nil
}

// String returns the relative path.
func (repositoryPath RepositoryPath) String() string {
	return repositoryPath.value
}

// MoveDestination is a validated move target: a repository path, a folder, or the visible root.
type MoveDestination struct {
	value string
}

// NewMoveDestination validates raw operator input without enforcing the repository suffix.
func NewMoveDestination(raw string) (MoveDestination, error) {
	parsed, parseError := parseNamespacePath(raw)
	if parseError != nil {
		return MoveDestination{}, parseError
	}
	return MoveDestination{value: parsed}, nil
}

// String returns the destination as typed, with the visible root rendered as an empty string.
func (destination MoveDestination) String() string {
	return destination.value
}

// RepresentsRepository reports whether the destination names a repository explicitly.
func (destination MoveDestination) RepresentsRepository() bool {
	return ClassifyPath(destination.value) == EntryKindRepository
}

// CanRepresentRepository reports whether the destination could name a single repository.
func (destination MoveDestination) CanRepresentRepository() bool {
	return len(destination.value) > 0 && !strings.HasSuffix(destination.value, PathSeparatorConstant)
}

// RepositoryPath converts the destination into a repository path.
func (destination MoveDestination) RepositoryPath() (RepositoryPath, error) {
	if !destination.CanRepresentRepository() {
		return RepositoryPath{}, ValidationError{Input: destination.value, Reason: directoryNotAllowedReasonConstant}
	}
	return RepositoryPath{value: EnforceRepositorySuffix(destination.value)}, nil
}

// FolderPath returns the destination interpreted as a folder, empty for the visible root.
func (destination MoveDestination) FolderPath() string {
	return strings.TrimSuffix(destination.value, PathSeparatorConstant)
}

// EnforceRepositorySuffix appends the repository suffix to the final segment when absent.
func EnforceRepositorySuffix(relativePath string) string {
	if strings.HasSuffix(relativePath, RepositorySuffixConstant) {
		return relativePath
	}
	return relativePath + RepositorySuffixConstant
}

// JoinPath joins namespace segments, treating an empty prefix as the visible root.
func JoinPath(elements ...string) string {
	joined := path.Join(elements...)
	if joined == visibleRootLiteralConstant {
		return ""
	}
	return joined
}

// PathDepth counts the segments of a relative namespace path.
func PathDepth(relativePath string) int {
	return len(pathSegments(relativePath))
}

func parseNamespacePath(raw string) (string, error) {
	switch {
	case len(raw) == 0:
		return "", ValidationError{Input: raw, Reason: emptyPathReasonConstant}
	case len(raw) > maximumPathLengthConstant:
		return "", ValidationError{Input: raw, Reason: pathTooLongReasonConstant}
	}

	if raw == visibleRootLiteralConstant {
		return "", nil
	}

	if traversalError := validateTraversal(raw); traversalError != nil {
		return "", traversalError
	}

	segments := pathSegments(raw)
	if len(segments) > MaximumNestingDepthConstant {
		return "", ValidationError{Input: raw, Reason: nestingTooDeepReasonConstant}
	}

	if !namespacePathPattern.MatchString(raw) {
		return "", ValidationError{Input: raw, Reason: invalidCharactersReasonConstant}
	}

	if segments[0] == ReservedCommandsFolderNameConstant {
		return "", ValidationError{Input: raw, Reason: reservedFolderReasonConstant}
	}

	return raw, nil
}

func validateTraversal(raw string) error {
	if path.IsAbs(raw) {
		return ValidationError{Input: raw, Reason: absolutePathReasonConstant}
	}
	for _, segment := range strings.Split(raw, PathSeparatorConstant) {
		if segment == parentDirectorySegmentConstant {
			return ValidationError{Input: raw, Reason: backtrackingReasonConstant}
		}
	}
	return nil
}

func pathSegments(relativePath string) []string {
	rawSegments := strings.Split(relativePath, PathSeparatorConstant)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if len(segment) == 0 || segment == visibleRootLiteralConstant {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
