// Package execshell runs external tools, chiefly git, for the repository shell.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle events.
// Commands either capture their output (bare repository initialization) or are
// attached to the caller's streams (git transfer verbs served over SSH).
package execshell
