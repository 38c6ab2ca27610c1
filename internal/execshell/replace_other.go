//go:build !unix

package execshell

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// replaceProcess emulates process replacement by running the command with the
// parent's standard streams and reporting its exit status.
func replaceProcess(executionContext context.Context, command ShellCommand) error {
	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = mergeEnvironment(command.Details.EnvironmentVariables)
	executable.Stdin = os.Stdin
	executable.Stdout = os.Stdout
	executable.Stderr = os.Stderr

	runError := executable.Run()
	if runError == nil {
		return nil
	}
	exitError := &exec.ExitError{}
	if errors.As(runError, &exitError) {
		return ExitStatusError{Code: exitError.ExitCode()}
	}
	return runError
}
