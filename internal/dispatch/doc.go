// Package dispatch routes one shell command line to a verb.
//
// Forced mode (sshd passing -c) serves only the git transfer verbs, which are
// delegated to git with the caller's streams attached. Interactive mode adds
// the namespace management verbs, help, exit, and clear. Verbs outside the
// closed set exit with status 127.
package dispatch
