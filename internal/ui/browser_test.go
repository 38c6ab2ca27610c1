package ui_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/ui"
)

type recordingCommandExecutor struct {
	commands []execshell.ShellCommand
}

func (executor *recordingCommandExecutor) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, command)
	return execshell.ExecutionResult{}, nil
}

func TestBrowserLauncherResolvesCommand(testInstance *testing.T) {
	const targetURL = "https://github.com/defunkt/project/tree/master"

	testCases := []struct {
		name              string
		options           ui.BrowserOptions
		expectedName      execshell.CommandName
		expectedArguments []string
	}{
		{
			name:              "configured_command_appends_url",
			options:           ui.BrowserOptions{Command: `firefox --new-tab`, OperatingSystem: "linux"},
			expectedName:      "firefox",
			expectedArguments: []string{"--new-tab", targetURL},
		},
		{
			name:              "configured_command_with_placeholder",
			options:           ui.BrowserOptions{Command: `"/Applications/My Browser" --url=%s --quiet`, OperatingSystem: "darwin"},
			expectedName:      "/Applications/My Browser",
			expectedArguments: []string{"--url=" + targetURL, "--quiet"},
		},
		{
			name: "browser_environment_variable",
			options: ui.BrowserOptions{OperatingSystem: "linux", EnvironmentLookup: func(key string) (string, bool) {
				return "w3m", key == "BROWSER"
			}},
			expectedName:      "w3m",
			expectedArguments: []string{targetURL},
		},
		{
			name:              "darwin_default",
			options:           ui.BrowserOptions{OperatingSystem: "darwin", EnvironmentLookup: noEnvironment},
			expectedName:      "open",
			expectedArguments: []string{targetURL},
		},
		{
			name:              "windows_default",
			options:           ui.BrowserOptions{OperatingSystem: "windows", EnvironmentLookup: noEnvironment},
			expectedName:      "cmd",
			expectedArguments: []string{"/c", "start", targetURL},
		},
		{
			name:              "linux_default",
			options:           ui.BrowserOptions{OperatingSystem: "linux", EnvironmentLookup: noEnvironment},
			expectedName:      "xdg-open",
			expectedArguments: []string{targetURL},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingCommandExecutor{}
			launcher, creationError := ui.NewBrowserLauncher(executor, testCase.options)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, launcher.Open(context.Background(), targetURL))
			require.Len(testInstance, executor.commands, 1)
			require.Equal(testInstance, testCase.expectedName, executor.commands[0].Name)
			require.Equal(testInstance, testCase.expectedArguments, executor.commands[0].Details.Arguments)
		})
	}
}

func TestBrowserLauncherRejectsMalformedCommand(testInstance *testing.T) {
	launcher, creationError := ui.NewBrowserLauncher(&recordingCommandExecutor{}, ui.BrowserOptions{Command: `firefox "unterminated`})
	require.NoError(testInstance, creationError)
	require.Error(testInstance, launcher.Open(context.Background(), "https://github.com"))
}

func TestNewBrowserLauncherRequiresExecutor(testInstance *testing.T) {
	launcher, creationError := ui.NewBrowserLauncher(nil, ui.BrowserOptions{})
	require.ErrorIs(testInstance, creationError, ui.ErrBrowserExecutorNotConfigured)
	require.Nil(testInstance, launcher)
}

func noEnvironment(string) (string, bool) {
	return "", false
}
