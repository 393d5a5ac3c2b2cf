package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrSymlinksUnsupported reports a backing filesystem that cannot create symbolic links.
var ErrSymlinksUnsupported = errors.New("filesystem does not support symbolic links")

// AferoFileSystem implements shared.FileSystem on top of an afero filesystem.
type AferoFileSystem struct {
	backing afero.Fs
}

// NewOSFileSystem constructs a filesystem backed by the operating system.
func NewOSFileSystem() *AferoFileSystem {
	return NewFileSystem(afero.NewOsFs())
}

// NewMemoryFileSystem constructs an in-memory filesystem without symlink support.
func NewMemoryFileSystem() *AferoFileSystem {
	return NewFileSystem(afero.NewMemMapFs())
}

// NewFileSystem wraps an arbitrary afero filesystem.
func NewFileSystem(backing afero.Fs) *AferoFileSystem {
	if backing == nil {
		backing = afero.NewOsFs()
	}
	return &AferoFileSystem{backing: backing}
}

// Lstat retrieves file metadata without following a trailing symlink when the backing filesystem allows it.
func (fileSystem *AferoFileSystem) Lstat(path string) (fs.FileInfo, error) {
	if lstater, supportsLstat := fileSystem.backing.(afero.Lstater); supportsLstat {
		fileInfo, _, statError := lstater.LstatIfPossible(path)
		return fileInfo, statError
	}
	return fileSystem.backing.Stat(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (fileSystem *AferoFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return fileSystem.backing.MkdirAll(path, permissions)
}

// Rename renames a path.
func (fileSystem *AferoFileSystem) Rename(oldPath string, newPath string) error {
	return fileSystem.backing.Rename(oldPath, newPath)
}

// Remove deletes a file, symlink, or empty directory.
func (fileSystem *AferoFileSystem) Remove(path string) error {
	return fileSystem.backing.Remove(path)
}

// RemoveAll deletes a directory tree.
func (fileSystem *AferoFileSystem) RemoveAll(path string) error {
	return fileSystem.backing.RemoveAll(path)
}

// Symlink creates linkPath pointing at target.
func (fileSystem *AferoFileSystem) Symlink(target string, linkPath string) error {
	linker, supportsSymlinks := fileSystem.backing.(afero.Linker)
	if !supportsSymlinks {
		return &fs.PathError{Op: "symlink", Path: linkPath, Err: ErrSymlinksUnsupported}
	}
	return linker.SymlinkIfPossible(target, linkPath)
}

// Walk visits root and its descendants in lexical order without following symlinks.
func (fileSystem *AferoFileSystem) Walk(root string, walkFunction filepath.WalkFunc) error {
	return afero.Walk(fileSystem.backing, root, walkFunction)
}

// IsEmpty reports whether a directory has no entries.
func (fileSystem *AferoFileSystem) IsEmpty(path string) (bool, error) {
	return afero.IsEmpty(fileSystem.backing, path)
}
