// Package interactive reads shell commands from a terminal and dispatches them one line at a time.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/reposhell/internal/dispatch"
	"github.com/temirov/reposhell/internal/repos/shared"
	"github.com/temirov/reposhell/internal/styles"
)

const (
	promptConstant                 = "> "
	readLineErrorTemplateConstant  = "Unable to read command: %w"
	rawModeErrorTemplateConstant   = "Unable to configure terminal: %w"
	sessionStartedLogMessage       = "interactive session started"
	sessionEndedLogMessage         = "interactive session ended"
	commandFinishedLogMessage      = "interactive command finished"
	logFieldCommandLineConstant    = "command_line"
	logFieldExitCodeConstant       = "exit_code"
	endOfInputLineTerminatorString = "\n"
	interruptByteConstant          = byte(0x03)
	lineKillByteConstant           = byte(0x15)
)

// ErrNotTerminal reports that interactive mode was requested without a terminal on standard input.
var ErrNotTerminal = errors.New("Interactive mode requires a terminal; pass a command with -c")

// ErrDispatcherNotConfigured indicates that no dispatcher was provided.
var ErrDispatcherNotConfigured = errors.New("dispatcher not configured")

// CommandDispatcher runs one command line.
type CommandDispatcher interface {
	Dispatch(executionContext context.Context, mode dispatch.Mode, commandLine string) error
}

// LineReader yields command lines until io.EOF.
type LineReader interface {
	ReadLine() (string, error)
}

// Dependencies supplies collaborators for an interactive session.
type Dependencies struct {
	Dispatcher CommandDispatcher
	Theme      *styles.Theme
	Logger     *zap.Logger
	Output     io.Writer
	Errors     io.Writer
}

// Shell runs the read-dispatch loop.
type Shell struct {
	dependencies Dependencies
}

// NewShell validates collaborators and constructs a Shell.
func NewShell(dependencies Dependencies) (*Shell, error) {
	if dependencies.Dispatcher == nil {
		return nil, ErrDispatcherNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Theme == nil {
		dependencies.Theme = styles.PlainTheme()
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	if dependencies.Errors == nil {
		dependencies.Errors = io.Discard
	}
	return &Shell{dependencies: dependencies}, nil
}

// Run serves commands typed on input until exit or Ctrl-D.
func (shell *Shell) Run(executionContext context.Context, input *os.File) error {
	fileDescriptor := int(input.Fd())
	if !term.IsTerminal(fileDescriptor) {
		return ErrNotTerminal
	}

	terminal := term.NewTerminal(terminalReadWriter{Reader: input, Writer: shell.dependencies.Output}, promptConstant)
	return shell.Serve(executionContext, &terminalLineReader{fileDescriptor: fileDescriptor, terminal: terminal})
}

// Serve dispatches every line from reader. Command failures are reported and the loop continues.
func (shell *Shell) Serve(executionContext context.Context, reader LineReader) error {
	shell.dependencies.Logger.Debug(sessionStartedLogMessage)
	defer shell.dependencies.Logger.Debug(sessionEndedLogMessage)

	for {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		commandLine, readError := reader.ReadLine()
		if errors.Is(readError, io.EOF) {
			fmt.Fprint(shell.dependencies.Output, endOfInputLineTerminatorString)
			return nil
		}
		if readError != nil {
			return fmt.Errorf(readLineErrorTemplateConstant, readError)
		}

		dispatchError := shell.dependencies.Dispatcher.Dispatch(executionContext, dispatch.ModeInteractive, commandLine)
		if errors.Is(dispatchError, dispatch.ErrExitRequested) {
			return nil
		}

		shell.dependencies.Logger.Debug(
			commandFinishedLogMessage,
			zap.String(logFieldCommandLineConstant, commandLine),
			zap.Int(logFieldExitCodeConstant, shared.ExitCode(dispatchError)),
		)
		if shared.ShouldReport(dispatchError) {
			theme := shell.dependencies.Theme
			fmt.Fprintln(shell.dependencies.Errors, theme.Render(theme.Error, dispatchError.Error()))
		}
	}
}

// terminalReadWriter turns Ctrl-C into Ctrl-U so an interrupt clears the line being edited
// instead of ending the session.
type terminalReadWriter struct {
	io.Reader
	io.Writer
}

func (readWriter terminalReadWriter) Read(buffer []byte) (int, error) {
	readCount, readError := readWriter.Reader.Read(buffer)
	for index := 0; index < readCount; index++ {
		if buffer[index] == interruptByteConstant {
			buffer[index] = lineKillByteConstant
		}
	}
	return readCount, readError
}

// terminalLineReader keeps the terminal in raw mode only while a line is edited,
// so commands run with normal line discipline.
type terminalLineReader struct {
	fileDescriptor int
	terminal       *term.Terminal
}

func (reader *terminalLineReader) ReadLine() (string, error) {
	previousState, rawError := term.MakeRaw(reader.fileDescriptor)
	if rawError != nil {
		return "", fmt.Errorf(rawModeErrorTemplateConstant, rawError)
	}
	commandLine, readError := reader.terminal.ReadLine()
	restoreError := term.Restore(reader.fileDescriptor, previousState)
	if readError != nil {
		return "", readError
	}
	if restoreError != nil {
		return "", fmt.Errorf(rawModeErrorTemplateConstant, restoreError)
	}
	return commandLine, nil
}
