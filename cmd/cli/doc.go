// Package cli constructs the reposhell root command. It loads configuration,
// creates the structured logger, resolves the operator's workspace, and hands
// command lines to the dispatcher either once (-c) or from an interactive terminal.
package cli
