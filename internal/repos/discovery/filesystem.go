package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	traversalErrorTemplateConstant = "Error traversing repos: %w"
	enumerationStartedMessage      = "enumerating repositories"
	logFieldRootConstant           = "root"
	logFieldScopeConstant          = "scope"
	logFieldMatchFoldersConstant   = "match_folders"
)

var errEnumerationStopped = errors.New("enumeration stopped by consumer")

var reservedTopLevelEntries = map[string]struct{}{
	shared.ReservedSSHFolderNameConstant:      {},
	shared.ReservedCommandsFolderNameConstant: {},
}

// EnumerationOptions scopes a walk of the visible tree.
type EnumerationOptions struct {
	// Scope is a relative folder to walk instead of the whole visible tree.
	Scope        string
	MatchFolders bool
}

// Predicate selects which candidate entries are yielded.
type Predicate func(entry shared.Entry) bool

// MatchAll accepts every candidate.
func MatchAll(shared.Entry) bool {
	return true
}

// Enumerator lazily walks the visible tree and classifies repository candidates.
type Enumerator struct {
	fileSystem  shared.FileSystem
	visibleRoot string
	logger      *zap.Logger
}

// NewEnumerator constructs an enumerator rooted at visibleRoot.
func NewEnumerator(fileSystem shared.FileSystem, visibleRoot string, logger *zap.Logger) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{fileSystem: fileSystem, visibleRoot: filepath.Clean(visibleRoot), logger: logger}
}

// Enumerate yields every candidate accepted by predicate, in lexical order per directory.
//
// Repository entries are never descended into. Symlinks are never followed. When
// options.MatchFolders is set, a matched folder is yielded once and its subtree is
// skipped. A traversal failure is yielded as a terminal error.
func (enumerator *Enumerator) Enumerate(options EnumerationOptions, predicate Predicate) iter.Seq2[shared.Entry, error] {
	if predicate == nil {
		predicate = MatchAll
	}

	return func(yield func(shared.Entry, error) bool) {
		scoped := len(options.Scope) > 0
		walkRoot := enumerator.visibleRoot
		if scoped {
			walkRoot = filepath.Join(enumerator.visibleRoot, filepath.FromSlash(options.Scope))
		}

		enumerator.logger.Debug(
			enumerationStartedMessage,
			zap.String(logFieldRootConstant, enumerator.visibleRoot),
			zap.String(logFieldScopeConstant, options.Scope),
			zap.Bool(logFieldMatchFoldersConstant, options.MatchFolders),
		)

		walkError := enumerator.fileSystem.Walk(walkRoot, func(currentPath string, fileInfo fs.FileInfo, visitError error) error {
			if visitError != nil {
				return visitError
			}
			if currentPath == walkRoot {
				return nil
			}

			relativePath, relativeError := filepath.Rel(enumerator.visibleRoot, currentPath)
			if relativeError != nil {
				return relativeError
			}
			relativePath = filepath.ToSlash(relativePath)

			isDirectory := fileInfo.IsDir()
			if !scoped && isReservedTopLevelEntry(relativePath) {
				return skipEntry(isDirectory)
			}

			entry := shared.NewEntry(relativePath)
			isSymlink := fileInfo.Mode()&fs.ModeSymlink != 0

			candidate := entry.IsRepository() || isSymlink || (isDirectory && options.MatchFolders)
			if candidate && predicate(entry) {
				if !yield(entry, nil) {
					return errEnumerationStopped
				}
				return skipEntry(isDirectory)
			}

			if entry.IsRepository() {
				return skipEntry(isDirectory)
			}
			return nil
		})

		if walkError != nil && !errors.Is(walkError, errEnumerationStopped) {
			yield(shared.Entry{}, fmt.Errorf(traversalErrorTemplateConstant, walkError))
		}
	}
}

// Collect drains Enumerate into a slice, failing on the first traversal error.
func (enumerator *Enumerator) Collect(options EnumerationOptions, predicate Predicate) ([]shared.Entry, error) {
	var entries []shared.Entry
	for entry, enumerationError := range enumerator.Enumerate(options, predicate) {
		if enumerationError != nil {
			return nil, enumerationError
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MatchRepositories accepts repository entries only.
func MatchRepositories(entry shared.Entry) bool {
	return entry.IsRepository()
}

// RepositoriesWithin lists every repository nested under folder.
func (enumerator *Enumerator) RepositoriesWithin(folder string) ([]shared.Entry, error) {
	return enumerator.Collect(EnumerationOptions{Scope: folder}, MatchRepositories)
}

// ResolveRepositories expands matched entries into repositories: repositories are kept,
// folders are replaced by every repository nested beneath them.
func (enumerator *Enumerator) ResolveRepositories(matchedEntries []shared.Entry) ([]shared.Entry, error) {
	var repositories []shared.Entry
	for _, matchedEntry := range matchedEntries {
		if matchedEntry.IsRepository() {
			repositories = append(repositories, matchedEntry)
			continue
		}
		nestedRepositories, nestedError := enumerator.RepositoriesWithin(matchedEntry.Path)
		if nestedError != nil {
			return nil, nestedError
		}
		repositories = append(repositories, nestedRepositories...)
	}
	return repositories, nil
}

// MatchGlobs yields the repositories and folders selected by globs, each folder as a single unit.
func (enumerator *Enumerator) MatchGlobs(globs shared.RepositoryGlobSet) ([]shared.Entry, error) {
	return enumerator.Collect(EnumerationOptions{MatchFolders: true}, func(entry shared.Entry) bool {
		return globs.Match(entry.Path)
	})
}

// ResolveGlobs matches globs and expands matched folders into their nested repositories.
func (enumerator *Enumerator) ResolveGlobs(globs shared.RepositoryGlobSet) ([]shared.Entry, error) {
	matchedEntries, matchError := enumerator.MatchGlobs(globs)
	if matchError != nil {
		return nil, matchError
	}
	return enumerator.ResolveRepositories(matchedEntries)
}

func isReservedTopLevelEntry(relativePath string) bool {
	_, reserved := reservedTopLevelEntries[relativePath]
	return reserved
}

func skipEntry(isDirectory bool) error {
	if isDirectory {
		return filepath.SkipDir
	}
	return nil
}
