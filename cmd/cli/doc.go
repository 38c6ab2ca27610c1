// Package cli builds the github command-line application. Registered commands
// run through cobra; any other command line is handed to git unchanged.
package cli
