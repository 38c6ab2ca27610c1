package execshell

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	replacingProcessMessageConstant = "handing control to external command"
)

// ProcessReplacer hands the current process over to a command. On success the
// call does not return on platforms that support process replacement.
type ProcessReplacer interface {
	Replace(executionContext context.Context, command ShellCommand) error
}

// OSProcessReplacer replaces the running process with the requested command.
type OSProcessReplacer struct {
	logger *zap.Logger
}

// NewOSProcessReplacer constructs an OSProcessReplacer.
func NewOSProcessReplacer(logger *zap.Logger) (*OSProcessReplacer, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &OSProcessReplacer{logger: logger}, nil
}

// Replace resolves the executable and transfers control to it.
func (replacer *OSProcessReplacer) Replace(executionContext context.Context, command ShellCommand) error {
	replacer.logger.Debug(
		replacingProcessMessageConstant,
		zap.String(commandNameFieldConstant, string(command.Name)),
		zap.Strings(commandArgumentsFieldConstant, command.Details.Arguments),
	)
	_ = replacer.logger.Sync()

	replaceError := replaceProcess(executionContext, command)
	if replaceError == nil {
		return nil
	}
	var statusError ExitStatusError
	if errors.As(replaceError, &statusError) {
		return statusError
	}
	return CommandExecutionError{Command: command, Cause: replaceError}
}
