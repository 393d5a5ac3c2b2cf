package repos_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	repos "github.com/temirov/reposhell/cmd/cli/repos"
	"github.com/temirov/reposhell/internal/repos/shared"
)

func TestShellConfigurationSanitize(testInstance *testing.T) {
	sanitized := repos.ShellConfiguration{
		RepositoryBase:   "  /data/git  ",
		StagingDirectory: "   ",
		GitExecutable:    "",
	}.Sanitize()

	require.Equal(testInstance, "/data/git", sanitized.RepositoryBase)
	require.Equal(testInstance, ".tmp", sanitized.StagingDirectory)
	require.Equal(testInstance, "git", sanitized.GitExecutable)
}

func TestShellConfigurationValidateStagingDirectory(testInstance *testing.T) {
	testCases := []struct {
		name             string
		stagingDirectory string
		expectValid      bool
	}{
		{name: "default", stagingDirectory: ".tmp", expectValid: true},
		{name: "custom_hidden", stagingDirectory: ".staging", expectValid: true},
		{name: "visible_name", stagingDirectory: "tmp"},
		{name: "current_directory", stagingDirectory: "."},
		{name: "parent_directory", stagingDirectory: ".."},
		{name: "nested_path", stagingDirectory: ".tmp/inner"},
		{name: "escaping_path", stagingDirectory: "../outside"},
		{name: "absolute_path", stagingDirectory: "/tmp"},
		{name: "backslash_path", stagingDirectory: `.tmp\inner`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			configuration := repos.DefaultShellConfiguration()
			configuration.StagingDirectory = testCase.stagingDirectory

			validationError := configuration.Validate()

			if testCase.expectValid {
				require.NoError(subTest, validationError)
				return
			}
			var typedError shared.ValidationError
			require.True(subTest, errors.As(validationError, &typedError))
			require.Equal(subTest, testCase.stagingDirectory, typedError.Input)
			require.Equal(subTest, "Staging directory must be a single hidden folder name : '"+testCase.stagingDirectory+"'", validationError.Error())
		})
	}
}
