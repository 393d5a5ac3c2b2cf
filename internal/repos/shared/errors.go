package shared

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ExitCodeSuccess reports a successful command.
	ExitCodeSuccess = 0
	// ExitCodeFailure reports validation failures, conflicts, empty matches, and I/O failures.
	ExitCodeFailure = 1
	// ExitCodeCommandNotFound reports an unknown or disallowed verb.
	ExitCodeCommandNotFound = 127

	validationErrorTemplateConstant = "%s : '%s'"
	conflictLineTemplateConstant    = "'%s' -> '%s' : %s"
	singleProblemHeaderConstant     = "1 problem:"
	problemsHeaderTemplateConstant  = "%d problems:"
	conflictLineSeparatorConstant   = "\n"
	exitStatusErrorTemplateConstant = "exit status %d"
	// NoMatchingRepositoriesMessageConstant reports an empty resolution of operator globs.
	NoMatchingRepositoriesMessageConstant = "No matching repositories found"
)

// ValidationError reports malformed operator input together with the offending string.
type ValidationError struct {
	Input  string
	Reason string
}

// Error renders the reason followed by the quoted input.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Reason, validationError.Input)
}

// Conflict describes one rejected source and destination pair.
type Conflict struct {
	Source      string
	Destination string
	Reason      string
}

// ConflictError aggregates every conflict found while validating a batch.
type ConflictError struct {
	Conflicts []Conflict
}

// Error renders the problem header followed by one line per conflict.
func (conflictError ConflictError) Error() string {
	lines := make([]string, 0, len(conflictError.Conflicts)+1)
	if len(conflictError.Conflicts) == 1 {
		lines = append(lines, singleProblemHeaderConstant)
	} else {
		lines = append(lines, fmt.Sprintf(problemsHeaderTemplateConstant, len(conflictError.Conflicts)))
	}
	for _, conflict := range conflictError.Conflicts {
		lines = append(lines, fmt.Sprintf(conflictLineTemplateConstant, conflict.Source, conflict.Destination, conflict.Reason))
	}
	return strings.Join(lines, conflictLineSeparatorConstant)
}

// NotFoundError reports that operator input resolved to nothing.
type NotFoundError struct {
	Message string
}

// Error returns the message, defaulting to the empty-match message.
func (notFoundError NotFoundError) Error() string {
	if len(notFoundError.Message) == 0 {
		return NoMatchingRepositoriesMessageConstant
	}
	return notFoundError.Message
}

// ExitStatusError carries an explicit process exit status. Message is printed when non-empty.
type ExitStatusError struct {
	Code    int
	Message string
}

// Error returns the message or a generic status description.
func (exitStatusError ExitStatusError) Error() string {
	if len(exitStatusError.Message) == 0 {
		return fmt.Sprintf(exitStatusErrorTemplateConstant, exitStatusError.Code)
	}
	return exitStatusError.Message
}

// Silent reports whether the error should terminate the process without a message.
func (exitStatusError ExitStatusError) Silent() bool {
	return len(exitStatusError.Message) == 0
}

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(commandError error) int {
	if commandError == nil {
		return ExitCodeSuccess
	}
	var exitStatusError ExitStatusError
	if errors.As(commandError, &exitStatusError) {
		return exitStatusError.Code
	}
	return ExitCodeFailure
}

// ShouldReport reports whether the error carries text for the operator.
func ShouldReport(commandError error) bool {
	if commandError == nil {
		return false
	}
	var exitStatusError ExitStatusError
	if errors.As(commandError, &exitStatusError) {
		return !exitStatusError.Silent()
	}
	return true
}
