package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposhell/internal/execshell"
	"github.com/temirov/reposhell/internal/repos/shared"
	"github.com/temirov/reposhell/internal/styles"
)

const (
	commandNotFoundTemplateConstant   = "%s: command not found..."
	suggestionTemplateConstant        = "\nDid you mean '%s'?"
	commandLineParseErrorTemplate     = "Unable to parse command line: %w"
	commandBuildErrorTemplateConstant = "Unable to prepare command '%s': %w"
	clearScreenSequenceConstant       = "\033[H\033[2J\033[3J"
	dispatchLogMessageConstant        = "dispatching command"
	rejectedLogMessageConstant        = "command rejected"
	logFieldVerbConstant              = "verb"
	logFieldModeConstant              = "mode"
	logFieldArgumentsConstant         = "arguments"
	logFieldInputConstant             = "input"
)

// ErrExitRequested reports that the operator asked to leave the interactive shell.
var ErrExitRequested = errors.New("exit requested")

// ErrCommandFactoryNotConfigured indicates that management verbs cannot be served.
var ErrCommandFactoryNotConfigured = errors.New("command factory not configured")

// ErrGitExecutorNotConfigured indicates that transfer verbs cannot be served.
var ErrGitExecutorNotConfigured = errors.New("git executor not configured")

// CommandFactory builds a fresh cobra command for a management verb.
type CommandFactory interface {
	BuildCommand(verb Verb) (*cobra.Command, error)
}

// Dependencies supplies collaborators used while dispatching.
type Dependencies struct {
	GitExecutor shared.GitExecutor
	Commands    CommandFactory
	Theme       *styles.Theme
	Logger      *zap.Logger
	Input       io.Reader
	Output      io.Writer
	Errors      io.Writer
}

// Dispatcher resolves one command line to a verb and runs it.
type Dispatcher struct {
	dependencies Dependencies
}

// NewDispatcher validates collaborators and constructs a Dispatcher.
func NewDispatcher(dependencies Dependencies) (*Dispatcher, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Commands == nil {
		return nil, ErrCommandFactoryNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Theme == nil {
		dependencies.Theme = styles.PlainTheme()
	}
	if dependencies.Input == nil {
		dependencies.Input = strings.NewReader("")
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	if dependencies.Errors == nil {
		dependencies.Errors = io.Discard
	}
	return &Dispatcher{dependencies: dependencies}, nil
}

// Dispatch splits commandLine with shell quoting rules and runs the resolved verb.
// Unknown or disallowed verbs yield an ExitStatusError with status 127.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, mode Mode, commandLine string) error {
	arguments, splitError := shlex.Split(commandLine)
	if splitError != nil {
		return fmt.Errorf(commandLineParseErrorTemplate, splitError)
	}
	if len(arguments) == 0 {
		if mode == ModeForced {
			return shared.ExitStatusError{Code: shared.ExitCodeFailure}
		}
		return nil
	}

	verbName, verbArguments := splitVerb(arguments)
	verb, recognized := ParseVerb(verbName)
	if !recognized || !verb.AllowedIn(mode) {
		dispatcher.dependencies.Logger.Debug(
			rejectedLogMessageConstant,
			zap.String(logFieldInputConstant, verbName),
			zap.Stringer(logFieldModeConstant, mode),
		)
		return shared.ExitStatusError{
			Code:    shared.ExitCodeCommandNotFound,
			Message: dispatcher.describeNotFound(verbName, mode),
		}
	}

	dispatcher.dependencies.Logger.Debug(
		dispatchLogMessageConstant,
		zap.String(logFieldVerbConstant, string(verb)),
		zap.Stringer(logFieldModeConstant, mode),
		zap.Strings(logFieldArgumentsConstant, verbArguments),
	)

	switch verb {
	case VerbReceivePack, VerbUploadPack, VerbUploadArchive:
		return dispatcher.delegateTransfer(executionContext, verb, verbArguments)
	case VerbCreate, VerbDelete, VerbMove, VerbList:
		return dispatcher.runManagement(executionContext, verb, verbArguments)
	case VerbHelp:
		return dispatcher.runHelp(mode, verbArguments)
	case VerbExit:
		return ErrExitRequested
	case VerbClear:
		_, writeError := io.WriteString(dispatcher.dependencies.Output, clearScreenSequenceConstant)
		return writeError
	default:
		return shared.ExitStatusError{
			Code:    shared.ExitCodeCommandNotFound,
			Message: fmt.Sprintf(commandNotFoundTemplateConstant, verbName),
		}
	}
}

func (dispatcher *Dispatcher) delegateTransfer(executionContext context.Context, verb Verb, verbArguments []string) error {
	gitArguments := append([]string{verb.GitSubcommand()}, verbArguments...)
	_, executionError := dispatcher.dependencies.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: gitArguments,
		Streams: &execshell.AttachedStreams{
			Input:  dispatcher.dependencies.Input,
			Output: dispatcher.dependencies.Output,
			Errors: dispatcher.dependencies.Errors,
		},
	})
	if executionError == nil {
		return nil
	}

	var commandFailedError execshell.CommandFailedError
	if errors.As(executionError, &commandFailedError) {
		return shared.ExitStatusError{Code: commandFailedError.ExitCode()}
	}
	return executionError
}

func (dispatcher *Dispatcher) runManagement(executionContext context.Context, verb Verb, verbArguments []string) error {
	command, buildError := dispatcher.dependencies.Commands.BuildCommand(verb)
	if buildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, verb, buildError)
	}

	if verbArguments == nil {
		verbArguments = []string{}
	}
	command.SetArgs(verbArguments)
	command.SetIn(dispatcher.dependencies.Input)
	command.SetOut(dispatcher.dependencies.Output)
	command.SetErr(dispatcher.dependencies.Errors)
	command.SilenceUsage = true
	command.SilenceErrors = true

	return command.ExecuteContext(executionContext)
}

func (dispatcher *Dispatcher) describeNotFound(verbName string, mode Mode) string {
	message := fmt.Sprintf(commandNotFoundTemplateConstant, verbName)
	if suggestion, found := suggestVerb(verbName, mode); found {
		message += fmt.Sprintf(suggestionTemplateConstant, suggestion)
	}
	return message
}

// suggestVerb ranks the verbs and aliases permitted in mode against the unknown name.
func suggestVerb(verbName string, mode Mode) (Verb, bool) {
	if len(verbName) == 0 {
		return "", false
	}

	candidateNames := make([]string, 0)
	candidateVerbs := make([]Verb, 0)
	for _, verb := range VerbsAllowedIn(mode) {
		candidateNames = append(candidateNames, string(verb))
		candidateVerbs = append(candidateVerbs, verb)
		for _, alias := range AliasesFor(verb) {
			candidateNames = append(candidateNames, alias)
			candidateVerbs = append(candidateVerbs, verb)
		}
	}

	matches := fuzzy.Find(verbName, candidateNames)
	if len(matches) == 0 {
		return "", false
	}
	return candidateVerbs[matches[0].Index], true
}
