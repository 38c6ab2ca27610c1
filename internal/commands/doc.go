// Package commands describes the registered commands and renders the usage
// listing printed when github runs without arguments.
package commands
