package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/github-gem/cmd/cli"
	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/shared/sharedtest"
)

type applicationFixture struct {
	inspector *sharedtest.RepositoryInspector
	executor  *sharedtest.GitExecutor
	replacer  *sharedtest.ProcessReplacer
	browser   *sharedtest.BrowserLauncher
	api       *sharedtest.HostingAPI
	output    *bytes.Buffer
}

func newApplication(testInstance *testing.T) (*cli.Application, *applicationFixture) {
	testInstance.Helper()
	testInstance.Setenv("XDG_CONFIG_HOME", testInstance.TempDir())
	testInstance.Setenv("HOME", testInstance.TempDir())

	fixture := &applicationFixture{
		inspector: &sharedtest.RepositoryInspector{
			RemoteList: []gitrepo.Remote{sharedtest.NewRemote("origin", "git://github.com/user/project.git")},
			Branch:     "test-branch",
		},
		executor: &sharedtest.GitExecutor{},
		replacer: &sharedtest.ProcessReplacer{},
		browser:  &sharedtest.BrowserLauncher{},
		api:      &sharedtest.HostingAPI{},
		output:   &bytes.Buffer{},
	}
	application := cli.NewApplicationWithDependencies(cli.ApplicationDependencies{
		GitExecutor:         fixture.executor,
		RepositoryInspector: fixture.inspector,
		ProcessReplacer:     fixture.replacer,
		BrowserLauncher:     fixture.browser,
		Selector:            &sharedtest.Selector{},
		NetworkLister:       fixture.api,
		RepositorySearcher:  fixture.api,
		ForkRequester:       fixture.api,
		CredentialsResolver: &sharedtest.CredentialsResolver{},
		Sleeper:             &sharedtest.Sleeper{},
		StandardOutput:      fixture.output,
		StandardError:       &bytes.Buffer{},
	})
	return application, fixture
}

func TestApplicationPrintsUsageWithoutArguments(testInstance *testing.T) {
	application, fixture := newApplication(testInstance)
	require.NoError(testInstance, application.Execute(context.Background(), nil))

	usage := fixture.output.String()
	require.True(testInstance, strings.HasPrefix(usage, "Usage: github command <space separated arguments>\nAvailable commands:\n"))
	for _, commandName := range []string{"browse", "clone", "fetch", "fork", "home", "info", "network", "pull", "pull-request", "search", "track"} {
		require.Contains(testInstance, usage, "  "+commandName+" ")
	}
	require.Contains(testInstance, usage, "--ssh: Clone using the git@github.com style url.")
	require.Contains(testInstance, usage, "--private: Use git@github.com: instead of git://github.com/.")
	require.NotContains(testInstance, usage, "--log-level")
	require.Empty(testInstance, fixture.replacer.Commands)
}

func TestApplicationFallsThroughToGit(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		expectedReplaced []string
	}{
		{name: "plain_command", arguments: []string{"commit"}, expectedReplaced: []string{"git commit"}},
		{name: "arguments_are_kept", arguments: []string{"commit", "-a", "-m", "yo mama"}, expectedReplaced: []string{"git commit -a -m yo mama"}},
		{name: "help_is_git_help", arguments: []string{"help", "log"}, expectedReplaced: []string{"git help log"}},
		{name: "leading_root_flags_are_consumed", arguments: []string{"--log-level", "debug", "status"}, expectedReplaced: []string{"git status"}},
		{name: "unknown_leading_flag", arguments: []string{"--version"}, expectedReplaced: []string{"git --version"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application, fixture := newApplication(testInstance)
			require.NoError(testInstance, application.Execute(context.Background(), testCase.arguments))
			require.Equal(testInstance, testCase.expectedReplaced, fixture.replacer.CommandLines())
			require.Empty(testInstance, fixture.output.String())
		})
	}
}

func TestApplicationRunsRegisteredCommands(testInstance *testing.T) {
	testCases := []struct {
		name         string
		arguments    []string
		expectedURLs []string
	}{
		{name: "browse", arguments: []string{"browse"}, expectedURLs: []string{"https://github.com/user/project/tree/test-branch"}},
		{name: "browse_with_root_flags", arguments: []string{"--log-format=structured", "browse", "pending"}, expectedURLs: []string{"https://github.com/user/project/tree/pending"}},
		{name: "network", arguments: []string{"network", "web", "defunkt"}, expectedURLs: []string{"https://github.com/defunkt/project/network"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application, fixture := newApplication(testInstance)
			require.NoError(testInstance, application.Execute(context.Background(), testCase.arguments))
			require.Equal(testInstance, testCase.expectedURLs, fixture.browser.URLs)
			require.Empty(testInstance, fixture.replacer.Commands)
		})
	}
}

func TestApplicationInfoUsesConfiguredRemote(testInstance *testing.T) {
	application, fixture := newApplication(testInstance)
	fixture.inspector.RemoteList = append(fixture.inspector.RemoteList, sharedtest.NewRemote("upstream", "git://github.com/defunkt/project.git"))

	configurationPath := filepath.Join(testInstance.TempDir(), "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte("github:\n  default_remote: upstream\n"), 0o600))

	require.NoError(testInstance, application.Execute(context.Background(), []string{"--config", configurationPath, "info"}))
	require.Equal(testInstance, "== Info for project\nYou are defunkt\nCurrently tracking:\n - user (as origin)\n - defunkt (as upstream)\n", fixture.output.String())
}

func TestApplicationReportsConfigurationErrors(testInstance *testing.T) {
	application, fixture := newApplication(testInstance)
	executionError := application.Execute(context.Background(), []string{"--config", filepath.Join(testInstance.TempDir(), "missing.yaml"), "info"})
	require.Error(testInstance, executionError)
	require.Empty(testInstance, fixture.output.String())
}
