package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposhell/internal/dispatch"
)

func TestParseVerb(testInstance *testing.T) {
	testCases := []struct {
		input         string
		expectedVerb  dispatch.Verb
		expectedFound bool
	}{
		{input: "create", expectedVerb: dispatch.VerbCreate, expectedFound: true},
		{input: "mk", expectedVerb: dispatch.VerbCreate, expectedFound: true},
		{input: "init", expectedVerb: dispatch.VerbCreate, expectedFound: true},
		{input: "rm", expectedVerb: dispatch.VerbDelete, expectedFound: true},
		{input: "remove", expectedVerb: dispatch.VerbDelete, expectedFound: true},
		{input: "del", expectedVerb: dispatch.VerbDelete, expectedFound: true},
		{input: "mv", expectedVerb: dispatch.VerbMove, expectedFound: true},
		{input: "rename", expectedVerb: dispatch.VerbMove, expectedFound: true},
		{input: "ls", expectedVerb: dispatch.VerbList, expectedFound: true},
		{input: "l", expectedVerb: dispatch.VerbList, expectedFound: true},
		{input: "dir", expectedVerb: dispatch.VerbList, expectedFound: true},
		{input: "find", expectedVerb: dispatch.VerbList, expectedFound: true},
		{input: "git-upload-archive", expectedVerb: dispatch.VerbUploadArchive, expectedFound: true},
		{input: "CREATE", expectedFound: false},
		{input: "sh", expectedFound: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.input, func(subTest *testing.T) {
			verb, found := dispatch.ParseVerb(testCase.input)
			require.Equal(subTest, testCase.expectedFound, found)
			if testCase.expectedFound {
				require.Equal(subTest, testCase.expectedVerb, verb)
			}
		})
	}
}

func TestVerbsAllowedIn(testInstance *testing.T) {
	require.Equal(
		testInstance,
		[]dispatch.Verb{dispatch.VerbReceivePack, dispatch.VerbUploadPack, dispatch.VerbUploadArchive},
		dispatch.VerbsAllowedIn(dispatch.ModeForced),
	)

	interactiveVerbs := dispatch.VerbsAllowedIn(dispatch.ModeInteractive)
	require.Equal(testInstance, dispatch.VerbCreate, interactiveVerbs[0])
	require.Contains(testInstance, interactiveVerbs, dispatch.VerbExit)
	require.Contains(testInstance, interactiveVerbs, dispatch.VerbClear)
	require.Contains(testInstance, interactiveVerbs, dispatch.VerbHelp)
	require.Len(testInstance, interactiveVerbs, 10)
}

func TestVerbClassification(testInstance *testing.T) {
	for _, verb := range dispatch.TransferVerbs() {
		require.True(testInstance, verb.IsTransfer())
		require.False(testInstance, verb.IsManagement())
		require.NotEmpty(testInstance, verb.GitSubcommand())
	}
	for _, verb := range dispatch.ManagementVerbs() {
		require.True(testInstance, verb.IsManagement())
		require.False(testInstance, verb.AllowedIn(dispatch.ModeForced))
		require.Empty(testInstance, verb.GitSubcommand())
	}
	require.Equal(testInstance, []string{"del", "remove", "rm"}, dispatch.AliasesFor(dispatch.VerbDelete))
	require.Empty(testInstance, dispatch.AliasesFor(dispatch.VerbHelp))
}
