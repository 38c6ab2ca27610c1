package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/github-gem/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testCommandArgumentConstant                  = "--version"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "fatal: not a git repository"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	started   []execshell.ShellCommand
	completed []execshell.ExecutionResult
	failures  []error
}

func (eventObserver *recordingEventObserver) CommandStarted(command execshell.ShellCommand) {
	eventObserver.started = append(eventObserver.started, command)
}

func (eventObserver *recordingEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	eventObserver.completed = append(eventObserver.completed, result)
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventObserver.failures = append(eventObserver.failures, failure)
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectErrorType   any
		expectedLogLevels []zapcore.Level
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "git version 2.43.0",
				ExitCode:       0,
			},
			expectedLogLevels: []zapcore.Level{zapcore.DebugLevel, zapcore.DebugLevel},
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      128,
			},
			expectErrorType:   execshell.CommandFailedError{},
			expectedLogLevels: []zapcore.Level{zapcore.DebugLevel, zapcore.WarnLevel},
		},
		{
			name:              testExecutionRunnerErrorCaseNameConstant,
			runnerError:       errors.New("executable file not found in $PATH"),
			expectErrorType:   execshell.CommandExecutionError{},
			expectedLogLevels: []zapcore.Level{zapcore.DebugLevel, zapcore.ErrorLevel},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}, WorkingDirectory: testWorkingDirectoryConstant}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandGit, recordingRunner.recordedCommands[0].Name)

			recordedEntries := observerLogs.All()
			require.Len(testInstance, recordedEntries, len(testCase.expectedLogLevels))
			for entryIndex, expectedLevel := range testCase.expectedLogLevels {
				require.Equal(testInstance, expectedLevel, recordedEntries[entryIndex].Level)
			}
		})
	}
}

func TestShellExecutorForwardsEventsToObserver(testInstance *testing.T) {
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	eventObserver := &recordingEventObserver{}
	recordingRunner := &recordingCommandRunner{executionResult: execshell.ExecutionResult{ExitCode: 1}}

	executor, creationError := execshell.NewShellExecutorWithObserver(zap.New(observerCore), recordingRunner, eventObserver)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"status"}})
	require.Error(testInstance, executionError)

	require.Len(testInstance, eventObserver.started, 1)
	require.Len(testInstance, eventObserver.completed, 1)
	require.Equal(testInstance, 1, eventObserver.completed[0].ExitCode)
	require.Empty(testInstance, eventObserver.failures)
	require.Zero(testInstance, observerLogs.Len())
}

func TestCommandFailedErrorIncludesStandardError(testInstance *testing.T) {
	failedError := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"remote", "add", "defunkt", "git://github.com/defunkt/project.git"}}},
		Result:  execshell.ExecutionResult{ExitCode: 3, StandardError: "error: remote defunkt already exists.\n"},
	}

	require.Equal(testInstance, "git remote add defunkt git://github.com/defunkt/project.git exited with code 3: error: remote defunkt already exists.", failedError.Error())
}

func TestExitCodeOf(testInstance *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode int
		expectedOK   bool
	}{
		{
			name:         "command_failed",
			err:          execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}},
			expectedCode: 128,
			expectedOK:   true,
		},
		{
			name:         "wrapped_exit_status",
			err:          errors.Join(errors.New("context"), execshell.ExitStatusError{Code: 2}),
			expectedCode: 2,
			expectedOK:   true,
		},
		{
			name: "unrelated",
			err:  errors.New("boom"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			exitCode, found := execshell.ExitCodeOf(testCase.err)
			require.Equal(testInstance, testCase.expectedOK, found)
			require.Equal(testInstance, testCase.expectedCode, exitCode)
		})
	}
}

func TestNewOSProcessReplacerRequiresLogger(testInstance *testing.T) {
	replacer, creationError := execshell.NewOSProcessReplacer(nil)
	require.ErrorIs(testInstance, creationError, execshell.ErrLoggerNotConfigured)
	require.Nil(testInstance, replacer)

	replacer, creationError = execshell.NewOSProcessReplacer(zap.NewNop())
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, replacer)
}
