package pathutils

import (
	"errors"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"
)

const (
	relativeRepositoryBaseTemplateConstant = "Repository base must be an absolute path: '%s'"
	usernameLookupErrorTemplateConstant    = "Unable to determine the operator's username: %w"
	invalidUsernameTemplateConstant        = "Username cannot name a repository home: '%s'"
	parentDirectoryNameConstant            = ".."
	currentDirectoryNameConstant           = "."
)

// ErrRepositoryBaseNotConfigured indicates that no repository base directory was configured.
var ErrRepositoryBaseNotConfigured = errors.New("Repository base is not configured")

// UsernameProvider resolves the name of the operator running the shell.
type UsernameProvider func() (string, error)

// RepositoryHomeResolver derives repo-home as <repository base>/<operator username>.
type RepositoryHomeResolver struct {
	homeExpander     *HomeExpander
	usernameProvider UsernameProvider
}

// NewRepositoryHomeResolver constructs a resolver backed by the operating system user database.
func NewRepositoryHomeResolver() *RepositoryHomeResolver {
	return NewRepositoryHomeResolverWithProviders(NewHomeExpander(), currentUsername)
}

// NewRepositoryHomeResolverWithProviders constructs a resolver with custom lookups.
func NewRepositoryHomeResolverWithProviders(homeExpander *HomeExpander, usernameProvider UsernameProvider) *RepositoryHomeResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	if usernameProvider == nil {
		usernameProvider = currentUsername
	}
	return &RepositoryHomeResolver{homeExpander: homeExpander, usernameProvider: usernameProvider}
}

// Resolve expands repositoryBase and appends the operator's username.
func (resolver *RepositoryHomeResolver) Resolve(repositoryBase string) (string, error) {
	expandedBase := resolver.homeExpander.Expand(repositoryBase)
	if len(expandedBase) == 0 {
		return "", ErrRepositoryBaseNotConfigured
	}
	if !filepath.IsAbs(expandedBase) {
		return "", fmt.Errorf(relativeRepositoryBaseTemplateConstant, repositoryBase)
	}

	username, usernameError := resolver.usernameProvider()
	if usernameError != nil {
		return "", fmt.Errorf(usernameLookupErrorTemplateConstant, usernameError)
	}
	trimmedUsername := strings.TrimSpace(username)
	if len(trimmedUsername) == 0 ||
		trimmedUsername == currentDirectoryNameConstant ||
		trimmedUsername == parentDirectoryNameConstant ||
		strings.ContainsAny(trimmedUsername, `/\`) {
		return "", fmt.Errorf(invalidUsernameTemplateConstant, username)
	}

	return filepath.Join(filepath.Clean(expandedBase), trimmedUsername), nil
}

func currentUsername() (string, error) {
	currentUser, lookupError := user.Current()
	if lookupError != nil {
		return "", lookupError
	}
	return currentUser.Username, nil
}
