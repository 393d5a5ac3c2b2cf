package dispatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	helpHeaderConstant                 = "Available commands:"
	helpLineTemplateConstant           = "  %-*s  %s%s\n"
	helpAliasesTemplateConstant        = " (aliases: %s)"
	helpAliasesSeparatorConstant       = ", "
	helpFooterConstant                 = "Run 'help <command>' for details about one command."
	helpDetailTemplateConstant         = "%s\n\n%s"
	helpBuiltinDetailTemplateConstant  = "%s: %s\n"
	emptyHelpCommandMessageConstant    = "Command cannot be empty"
	invalidHelpCommandReasonConstant   = "Invalid command"
	unknownHelpCommandTemplateConstant = "No such command '%s'"
)

var helpCommandNamePattern = regexp.MustCompile(`^[a-z]+$`)

type helpEntry struct {
	name        string
	description string
	aliases     []string
}

func (dispatcher *Dispatcher) runHelp(mode Mode, verbArguments []string) error {
	if len(verbArguments) == 0 {
		return dispatcher.printVerbList(mode)
	}

	requestedName := strings.TrimSpace(verbArguments[0])
	if len(requestedName) == 0 {
		return shared.ExitStatusError{Code: shared.ExitCodeFailure, Message: emptyHelpCommandMessageConstant}
	}
	if !helpCommandNamePattern.MatchString(requestedName) {
		return shared.ValidationError{Input: requestedName, Reason: invalidHelpCommandReasonConstant}
	}

	verb, recognized := ParseVerb(requestedName)
	if !recognized || !verb.AllowedIn(mode) {
		return shared.ExitStatusError{
			Code:    shared.ExitCodeFailure,
			Message: fmt.Sprintf(unknownHelpCommandTemplateConstant, requestedName),
		}
	}

	return dispatcher.printVerbDetail(verb)
}

func (dispatcher *Dispatcher) printVerbList(mode Mode) error {
	entries := make([]helpEntry, 0)
	nameWidth := 0
	for _, verb := range VerbsAllowedIn(mode) {
		entry, entryError := dispatcher.describeVerb(verb)
		if entryError != nil {
			return entryError
		}
		entries = append(entries, entry)
		nameWidth = max(nameWidth, len(entry.name))
	}

	theme := dispatcher.dependencies.Theme
	output := dispatcher.dependencies.Output
	fmt.Fprintln(output, theme.Render(theme.Info, helpHeaderConstant))
	for _, entry := range entries {
		aliasSuffix := ""
		if len(entry.aliases) > 0 {
			aliasSuffix = theme.Render(theme.Dimmed, fmt.Sprintf(helpAliasesTemplateConstant, strings.Join(entry.aliases, helpAliasesSeparatorConstant)))
		}
		fmt.Fprintf(output, helpLineTemplateConstant, nameWidth, entry.name, entry.description, aliasSuffix)
	}
	fmt.Fprintln(output, helpFooterConstant)
	return nil
}

func (dispatcher *Dispatcher) printVerbDetail(verb Verb) error {
	if !verb.IsManagement() {
		fmt.Fprintf(dispatcher.dependencies.Output, helpBuiltinDetailTemplateConstant, verb, verb.builtinDescription())
		return nil
	}

	command, buildError := dispatcher.dependencies.Commands.BuildCommand(verb)
	if buildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, verb, buildError)
	}
	fmt.Fprintf(dispatcher.dependencies.Output, helpDetailTemplateConstant, command.Short, command.UsageString())
	return nil
}

func (dispatcher *Dispatcher) describeVerb(verb Verb) (helpEntry, error) {
	entry := helpEntry{name: string(verb), aliases: AliasesFor(verb)}
	if !verb.IsManagement() {
		entry.description = verb.builtinDescription()
		return entry, nil
	}

	command, buildError := dispatcher.dependencies.Commands.BuildCommand(verb)
	if buildError != nil {
		return helpEntry{}, fmt.Errorf(commandBuildErrorTemplateConstant, verb, buildError)
	}
	entry.description = command.Short
	return entry, nil
}
