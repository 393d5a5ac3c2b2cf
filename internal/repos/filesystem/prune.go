package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/temirov/reposhell/internal/repos/shared"
)

// PruneEmptyParents removes the now-empty ancestors of path, walking upward until a
// non-empty or missing directory is found. stopDirectory itself is never removed,
// nor is anything outside it.
func PruneEmptyParents(fileSystem shared.FileSystem, path string, stopDirectory string) error {
	cleanedStopDirectory := filepath.Clean(stopDirectory)
	currentPath := filepath.Clean(path)

	for {
		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath || !isStrictlyWithin(parentPath, cleanedStopDirectory) {
			return nil
		}
		currentPath = parentPath

		exists, existsError := shared.PathExists(fileSystem, currentPath)
		if existsError != nil {
			return existsError
		}
		if !exists {
			return nil
		}

		empty, emptyError := fileSystem.IsEmpty(currentPath)
		if emptyError != nil {
			return emptyError
		}
		if !empty {
			return nil
		}

		if removeError := fileSystem.Remove(currentPath); removeError != nil {
			return removeError
		}
	}
}

func isStrictlyWithin(candidatePath string, rootPath string) bool {
	relativePath, relativeError := filepath.Rel(rootPath, candidatePath)
	if relativeError != nil {
		return false
	}
	if relativePath == "." || relativePath == ".." {
		return false
	}
	return !strings.HasPrefix(relativePath, ".."+string(filepath.Separator))
}
