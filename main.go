package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/github-gem/cmd/cli"
	"github.com/temirov/github-gem/internal/execshell"
)

const (
	errorPrefixConstant       = "Error:"
	exitErrorTemplateConstant = "%s %v\n"
	defaultFailureExitCode    = 1
)

// main executes the github command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var statusError execshell.ExitStatusError
	if errors.As(executionError, &statusError) {
		os.Exit(statusError.Code)
	}

	errorPrefix := color.New(color.FgRed, color.Bold)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		errorPrefix.EnableColor()
	} else {
		errorPrefix.DisableColor()
	}
	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, errorPrefix.Sprint(errorPrefixConstant), executionError)
	if exitCode, found := execshell.ExitCodeOf(executionError); found && exitCode > 0 {
		os.Exit(exitCode)
	}
	os.Exit(defaultFailureExitCode)
}
