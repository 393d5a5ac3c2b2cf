package repos

import (
	"strings"

	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	repositoryBaseKeyConstant   = "repository_base"
	stagingDirectoryKeyConstant = "staging_directory"
	gitExecutableKeyConstant    = "git_executable"
	plainOutputKeyConstant      = "plain_output"

	defaultRepositoryBaseConstant   = "/srv/repos"
	defaultStagingDirectoryConstant = ".tmp"
	defaultGitExecutableConstant    = "git"

	hiddenNamePrefixConstant              = "."
	currentDirectoryNameConstant          = "."
	parentDirectoryNameConstant           = ".."
	pathSeparatorCharactersConstant       = `/\`
	invalidStagingDirectoryReasonConstant = "Staging directory must be a single hidden folder name"
)

// ShellConfiguration captures the shell section of the configuration file.
type ShellConfiguration struct {
	RepositoryBase   string `mapstructure:"repository_base"`
	StagingDirectory string `mapstructure:"staging_directory"`
	GitExecutable    string `mapstructure:"git_executable"`
	PlainOutput      bool   `mapstructure:"plain_output"`
}

// DefaultShellConfiguration returns baseline values for the shell section.
func DefaultShellConfiguration() ShellConfiguration {
	return ShellConfiguration{
		RepositoryBase:   defaultRepositoryBaseConstant,
		StagingDirectory: defaultStagingDirectoryConstant,
		GitExecutable:    defaultGitExecutableConstant,
		PlainOutput:      false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the shell section under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultShellConfiguration()
	return map[string]any{
		rootKey + "." + repositoryBaseKeyConstant:   defaults.RepositoryBase,
		rootKey + "." + stagingDirectoryKeyConstant: defaults.StagingDirectory,
		rootKey + "." + gitExecutableKeyConstant:    defaults.GitExecutable,
		rootKey + "." + plainOutputKeyConstant:      defaults.PlainOutput,
	}
}

// Sanitize trims values and restores defaults for blank entries.
func (configuration ShellConfiguration) Sanitize() ShellConfiguration {
	defaults := DefaultShellConfiguration()
	sanitized := configuration
	sanitized.RepositoryBase = strings.TrimSpace(configuration.RepositoryBase)
	sanitized.StagingDirectory = strings.TrimSpace(configuration.StagingDirectory)
	if len(sanitized.StagingDirectory) == 0 {
		sanitized.StagingDirectory = defaults.StagingDirectory
	}
	sanitized.GitExecutable = strings.TrimSpace(configuration.GitExecutable)
	if len(sanitized.GitExecutable) == 0 {
		sanitized.GitExecutable = defaults.GitExecutable
	}
	return sanitized
}

// Validate requires the staging directory to be one hidden folder name directly under the repository home.
func (configuration ShellConfiguration) Validate() error {
	stagingDirectory := configuration.StagingDirectory
	switch {
	case !strings.HasPrefix(stagingDirectory, hiddenNamePrefixConstant),
		stagingDirectory == currentDirectoryNameConstant,
		stagingDirectory == parentDirectoryNameConstant,
		strings.ContainsAny(stagingDirectory, pathSeparatorCharactersConstant):
		return shared.ValidationError{Input: stagingDirectory, Reason: invalidStagingDirectoryReasonConstant}
	}
	return nil
}
