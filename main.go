package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/reposhell/cmd/cli"
	"github.com/temirov/reposhell/internal/repos/shared"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the reposhell login shell.
func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	executionError := cli.Execute(executionContext)
	stop()
	if executionError != nil {
		if shared.ShouldReport(executionError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(shared.ExitCode(executionError))
	}
}
