package dispatch

import "sort"

// Verb is one closed command name recognized by the shell.
type Verb string

const (
	// VerbCreate creates bare repositories.
	VerbCreate Verb = "create"
	// VerbDelete deletes repositories matched by globs.
	VerbDelete Verb = "delete"
	// VerbMove moves or renames repositories.
	VerbMove Verb = "move"
	// VerbList lists repositories.
	VerbList Verb = "list"
	// VerbHelp describes the available verbs.
	VerbHelp Verb = "help"
	// VerbExit leaves the interactive shell.
	VerbExit Verb = "exit"
	// VerbClear clears the terminal.
	VerbClear Verb = "clear"
	// VerbReceivePack serves a push.
	VerbReceivePack Verb = "git-receive-pack"
	// VerbUploadPack serves a fetch or clone.
	VerbUploadPack Verb = "git-upload-pack"
	// VerbUploadArchive serves git archive --remote.
	VerbUploadArchive Verb = "git-upload-archive"
)

// Mode selects how the shell was started.
type Mode int

const (
	// ModeForced runs one command passed with -c, typically by sshd.
	ModeForced Mode = iota
	// ModeInteractive reads commands from a terminal.
	ModeInteractive
)

// String returns a lowercase label for the mode.
func (mode Mode) String() string {
	switch mode {
	case ModeForced:
		return "forced"
	case ModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

const (
	gitCommandNameConstant             = "git"
	gitUploadArchiveSubcommandConstant = "upload-archive"
	gitReceivePackSubcommandConstant   = "receive-pack"
	gitUploadPackSubcommandConstant    = "upload-pack"
	helpVerbDescriptionConstant        = "Show the available commands or describe one command"
	exitVerbDescriptionConstant        = "Leave the shell"
	clearVerbDescriptionConstant       = "Clear the screen"
	receivePackVerbDescriptionConstant = "Receive pushed objects into a repository"
	uploadPackVerbDescriptionConstant  = "Send objects for a fetch or clone"
	uploadArchiveDescriptionConstant   = "Send an archive of a repository tree"
	unknownVerbDescriptionConstant     = ""
)

var verbAliases = map[string]Verb{
	"mk":     VerbCreate,
	"init":   VerbCreate,
	"rm":     VerbDelete,
	"remove": VerbDelete,
	"del":    VerbDelete,
	"mv":     VerbMove,
	"rename": VerbMove,
	"ls":     VerbList,
	"l":      VerbList,
	"dir":    VerbList,
	"find":   VerbList,
}

// ManagementVerbs returns the namespace management verbs in help order.
func ManagementVerbs() []Verb {
	return []Verb{VerbCreate, VerbDelete, VerbMove, VerbList}
}

// TransferVerbs returns the git transport verbs in help order.
func TransferVerbs() []Verb {
	return []Verb{VerbReceivePack, VerbUploadPack, VerbUploadArchive}
}

// VerbsAllowedIn lists every verb permitted in mode, in help order.
func VerbsAllowedIn(mode Mode) []Verb {
	allVerbs := ManagementVerbs()
	allVerbs = append(allVerbs, VerbHelp, VerbExit, VerbClear)
	allVerbs = append(allVerbs, TransferVerbs()...)

	allowedVerbs := make([]Verb, 0, len(allVerbs))
	for _, verb := range allVerbs {
		if verb.AllowedIn(mode) {
			allowedVerbs = append(allowedVerbs, verb)
		}
	}
	return allowedVerbs
}

// ParseVerb resolves a canonical name or an alias.
func ParseVerb(name string) (Verb, bool) {
	candidate := Verb(name)
	switch candidate {
	case VerbCreate, VerbDelete, VerbMove, VerbList, VerbHelp, VerbExit, VerbClear,
		VerbReceivePack, VerbUploadPack, VerbUploadArchive:
		return candidate, true
	}
	aliasedVerb, found := verbAliases[name]
	return aliasedVerb, found
}

// AliasesFor returns the sorted aliases of verb.
func AliasesFor(verb Verb) []string {
	aliases := make([]string, 0)
	for alias, aliasedVerb := range verbAliases {
		if aliasedVerb == verb {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// AllowedIn reports whether the verb may run in mode.
func (verb Verb) AllowedIn(mode Mode) bool {
	switch verb {
	case VerbReceivePack, VerbUploadPack, VerbUploadArchive:
		return true
	case VerbCreate, VerbDelete, VerbMove, VerbList, VerbHelp, VerbExit, VerbClear:
		return mode == ModeInteractive
	default:
		return false
	}
}

// IsTransfer reports whether the verb is delegated to git.
func (verb Verb) IsTransfer() bool {
	switch verb {
	case VerbReceivePack, VerbUploadPack, VerbUploadArchive:
		return true
	default:
		return false
	}
}

// IsManagement reports whether the verb is served by a namespace command.
func (verb Verb) IsManagement() bool {
	switch verb {
	case VerbCreate, VerbDelete, VerbMove, VerbList:
		return true
	default:
		return false
	}
}

// GitSubcommand returns the git subcommand serving a transfer verb.
func (verb Verb) GitSubcommand() string {
	switch verb {
	case VerbReceivePack:
		return gitReceivePackSubcommandConstant
	case VerbUploadPack:
		return gitUploadPackSubcommandConstant
	case VerbUploadArchive:
		return gitUploadArchiveSubcommandConstant
	default:
		return ""
	}
}

func (verb Verb) builtinDescription() string {
	switch verb {
	case VerbHelp:
		return helpVerbDescriptionConstant
	case VerbExit:
		return exitVerbDescriptionConstant
	case VerbClear:
		return clearVerbDescriptionConstant
	case VerbReceivePack:
		return receivePackVerbDescriptionConstant
	case VerbUploadPack:
		return uploadPackVerbDescriptionConstant
	case VerbUploadArchive:
		return uploadArchiveDescriptionConstant
	default:
		return unknownVerbDescriptionConstant
	}
}

// splitVerb extracts the verb name and its arguments, folding "git upload-archive" into one verb.
func splitVerb(arguments []string) (string, []string) {
	if len(arguments) >= 2 && arguments[0] == gitCommandNameConstant && arguments[1] == gitUploadArchiveSubcommandConstant {
		return string(VerbUploadArchive), arguments[2:]
	}
	return arguments[0], arguments[1:]
}
