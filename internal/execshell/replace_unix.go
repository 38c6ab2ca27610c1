//go:build unix

package execshell

import (
	"context"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

func replaceProcess(_ context.Context, command ShellCommand) error {
	executablePath, lookupError := exec.LookPath(string(command.Name))
	if lookupError != nil {
		return lookupError
	}

	environment := mergeEnvironment(command.Details.EnvironmentVariables)
	if environment == nil {
		environment = os.Environ()
	}

	if len(command.Details.WorkingDirectory) > 0 {
		if changeError := unix.Chdir(command.Details.WorkingDirectory); changeError != nil {
			return changeError
		}
	}

	argumentVector := append([]string{string(command.Name)}, command.Details.Arguments...)
	return unix.Exec(executablePath, argumentVector, environment)
}
