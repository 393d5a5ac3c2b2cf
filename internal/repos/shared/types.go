package shared

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/reposhell/internal/execshell"
)

const (
	// DefaultStagingDirectoryNameConstant names the staging root inside repo-home.
	DefaultStagingDirectoryNameConstant = ".tmp"
)

// EntryKind classifies a namespace path.
type EntryKind int

const (
	// EntryKindFolder is an intermediate directory that groups repositories.
	EntryKindFolder EntryKind = iota
	// EntryKindRepository is a path carrying the repository suffix.
	EntryKindRepository
)

// String returns a lowercase label for the kind.
func (kind EntryKind) String() string {
	switch kind {
	case EntryKindRepository:
		return "repository"
	case EntryKindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ClassifyPath derives the kind of a relative path from its suffix alone.
func ClassifyPath(relativePath string) EntryKind {
	if strings.HasSuffix(relativePath, RepositorySuffixConstant) {
		return EntryKindRepository
	}
	return EntryKindFolder
}

// Entry is one enumerated namespace path with its classification.
type Entry struct {
	Path string
	Kind EntryKind
}

// NewEntry classifies relativePath and wraps it.
func NewEntry(relativePath string) Entry {
	return Entry{Path: relativePath, Kind: ClassifyPath(relativePath)}
}

// IsRepository reports whether the entry addresses a repository.
func (entry Entry) IsRepository() bool {
	return entry.Kind == EntryKindRepository
}

// Workspace holds the roots of the visible tree, the physical tree, and the staging area.
type Workspace struct {
	VisibleRoot    string
	RepositoryHome string
	StagingRoot    string
}

// NewWorkspace builds a workspace whose staging root lives inside repositoryHome.
func NewWorkspace(visibleRoot string, repositoryHome string, stagingDirectoryName string) Workspace {
	trimmedStagingDirectoryName := strings.TrimSpace(stagingDirectoryName)
	if len(trimmedStagingDirectoryName) == 0 {
		trimmedStagingDirectoryName = DefaultStagingDirectoryNameConstant
	}
	return Workspace{
		VisibleRoot:    filepath.Clean(visibleRoot),
		RepositoryHome: filepath.Clean(repositoryHome),
		StagingRoot:    filepath.Join(repositoryHome, trimmedStagingDirectoryName),
	}
}

// VisiblePath maps a relative namespace path into the visible tree.
func (workspace Workspace) VisiblePath(relativePath string) string {
	return filepath.Join(workspace.VisibleRoot, filepath.FromSlash(relativePath))
}

// PhysicalPath maps a relative namespace path into repo-home.
func (workspace Workspace) PhysicalPath(relativePath string) string {
	return filepath.Join(workspace.RepositoryHome, filepath.FromSlash(relativePath))
}

// StagingPath maps a relative namespace path into the staging root.
func (workspace Workspace) StagingPath(relativePath string) string {
	return filepath.Join(workspace.StagingRoot, filepath.FromSlash(relativePath))
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Lstat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
	RemoveAll(path string) error
	Symlink(target string, linkPath string) error
	Walk(root string, walkFunction filepath.WalkFunc) error
	IsEmpty(path string) (bool, error)
}

// ConfirmationPrompter collects operator confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PathExists reports whether path exists without following a trailing symlink.
func PathExists(fileSystem FileSystem, path string) (bool, error) {
	_, statError := fileSystem.Lstat(path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, statError
}
