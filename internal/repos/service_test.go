package repos_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/github-gem/internal/githubapi"
	"github.com/temirov/github-gem/internal/githubauth"
	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/repos"
	"github.com/temirov/github-gem/internal/shared"
	"github.com/temirov/github-gem/internal/shared/sharedtest"
)

const (
	gemDescriptionConstant     = "The official `github` command line helper for simplifying your GitHub experience."
	builderDescriptionConstant = "The scripts used to build RubyGems on GitHub"
)

type reposFixture struct {
	inspector   *sharedtest.RepositoryInspector
	executor    *sharedtest.GitExecutor
	replacer    *sharedtest.ProcessReplacer
	selector    *sharedtest.Selector
	api         *sharedtest.HostingAPI
	credentials *sharedtest.CredentialsResolver
	sleeper     *sharedtest.Sleeper
	builder     *repos.CommandBuilder
}

func newReposFixture() *reposFixture {
	fixture := &reposFixture{
		inspector:   &sharedtest.RepositoryInspector{Config: map[string]string{}},
		executor:    &sharedtest.GitExecutor{},
		replacer:    &sharedtest.ProcessReplacer{},
		selector:    &sharedtest.Selector{},
		api:         &sharedtest.HostingAPI{},
		credentials: &sharedtest.CredentialsResolver{},
		sleeper:     &sharedtest.Sleeper{},
	}
	fixture.builder = &repos.CommandBuilder{
		GitExecutor:         fixture.executor,
		RepositoryInspector: fixture.inspector,
		ProcessReplacer:     fixture.replacer,
		Selector:            fixture.selector,
		RepositorySearcher:  fixture.api,
		ForkRequester:       fixture.api,
		CredentialsResolver: fixture.credentials,
		Sleeper:             fixture.sleeper,
	}
	return fixture
}

func (fixture *reposFixture) run(testInstance *testing.T, commandName string, arguments ...string) (string, error) {
	testInstance.Helper()
	build := fixture.builder.BuildCloneCommand
	if commandName == "fork" {
		build = fixture.builder.BuildForkCommand
	}
	command, buildError := build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetArgs(append([]string{}, arguments...))
	command.SilenceUsage = true
	command.SilenceErrors = true
	executionError := command.ExecuteContext(context.Background())
	return output.String(), executionError
}

func TestClone(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		currentUser      string
		expectedReplaced []string
	}{
		{name: "falls_through_for_url", arguments: []string{"git://git.kernel.org/linux.git"}, expectedReplaced: []string{"git clone git://git.kernel.org/linux.git"}},
		{name: "user_and_project", arguments: []string{"defunkt", "github-gem"}, expectedReplaced: []string{"git clone git://github.com/defunkt/github-gem.git"}},
		{name: "user_slash_project", arguments: []string{"defunkt/github-gem"}, expectedReplaced: []string{"git clone git://github.com/defunkt/github-gem.git"}},
		{name: "ssh", arguments: []string{"--ssh", "defunkt", "github-gem"}, expectedReplaced: []string{"git clone git@github.com:defunkt/github-gem.git"}},
		{name: "directory", arguments: []string{"defunkt", "github-gem", "repo"}, expectedReplaced: []string{"git clone git://github.com/defunkt/github-gem.git repo"}},
		{name: "slash_directory", arguments: []string{"defunkt/github-gem", "repo"}, expectedReplaced: []string{"git clone git://github.com/defunkt/github-gem.git repo"}},
		{name: "ssh_directory", arguments: []string{"--ssh", "defunkt", "github-gem", "repo"}, expectedReplaced: []string{"git clone git@github.com:defunkt/github-gem.git repo"}},
		{name: "current_user_uses_private_url", arguments: []string{"drnic/github-gem"}, currentUser: "drnic", expectedReplaced: []string{"git clone git@github.com:drnic/github-gem.git"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newReposFixture()
			fixture.inspector.Config["github.user"] = testCase.currentUser
			_, executionError := fixture.run(testInstance, "clone", testCase.arguments...)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedReplaced, fixture.replacer.CommandLines())
		})
	}
}

func TestCloneRequiresArguments(testInstance *testing.T) {
	fixture := newReposFixture()
	_, executionError := fixture.run(testInstance, "clone")
	require.Equal(testInstance, shared.UsageError{Message: "Specify a user to pull from"}, executionError)
	require.Empty(testInstance, fixture.replacer.Commands)
}

func TestCloneFromSearch(testInstance *testing.T) {
	fixture := newReposFixture()
	fixture.api.Repositories = []githubapi.Repository{
		{Name: "github-gem", Username: "defunkt", Description: gemDescriptionConstant},
		{Name: "github-gem-builder", Username: "pjhyett", Description: builderDescriptionConstant},
	}
	fixture.selector.Choice = "defunkt/github-gem"
	fixture.selector.Found = true

	_, executionError := fixture.run(testInstance, "clone", "--search", "github-gem")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, [][]string{{"github-gem"}}, fixture.api.SearchTerms)
	require.Equal(testInstance, []string{
		"defunkt/github-gem         # " + gemDescriptionConstant,
		"pjhyett/github-gem-builder # " + builderDescriptionConstant,
	}, fixture.selector.Candidates)
	require.Equal(testInstance, "Select a repository to clone", fixture.selector.Header)
	require.Equal(testInstance, []string{"git clone git://github.com/defunkt/github-gem.git"}, fixture.replacer.CommandLines())
}

func TestCloneFromSearchWithoutSelection(testInstance *testing.T) {
	testCases := []struct {
		name         string
		repositories []githubapi.Repository
	}{
		{name: "no_results"},
		{name: "aborted", repositories: []githubapi.Repository{{Name: "github-gem", Username: "defunkt"}}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newReposFixture()
			fixture.api.Repositories = testCase.repositories
			_, executionError := fixture.run(testInstance, "clone", "--search", "xxxxxxxxxx")
			require.Equal(testInstance, shared.UsageError{Message: "Perhaps try another search"}, executionError)
			require.Empty(testInstance, fixture.replacer.Commands)
		})
	}
}

func TestForkInsideRepository(testInstance *testing.T) {
	fixture := newReposFixture()
	fixture.inspector.RemoteList = []gitrepo.Remote{sharedtest.NewRemote("origin", "git://github.com/defunkt/github-gem.git")}
	fixture.credentials.Credentials = githubauth.Credentials{User: "drnic", Token: "MY_GITHUB_TOKEN"}
	fixture.credentials.Found = true

	output, executionError := fixture.run(testInstance, "fork")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"defunkt/github-gem"}, fixture.api.Forks)
	require.Equal(testInstance, []githubapi.Credentials{{Login: "drnic", Token: "MY_GITHUB_TOKEN"}}, fixture.api.ForkLogins)
	require.Equal(testInstance, []string{"config remote.origin.url git@github.com:drnic/github-gem.git"}, fixture.executor.Invocations)
	require.Equal(testInstance, "defunkt/github-gem forked\n", output)
	require.Empty(testInstance, fixture.replacer.Commands)
}

func TestForkThirdPartyRepository(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "user_slash_project", arguments: []string{"defunkt/github-gem"}},
		{name: "user_and_project", arguments: []string{"defunkt", "github-gem"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newReposFixture()
			fixture.credentials.Credentials = githubauth.Credentials{User: "drnic", Token: "MY_GITHUB_TOKEN"}
			fixture.credentials.Found = true

			output, executionError := fixture.run(testInstance, "fork", testCase.arguments...)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, []string{"defunkt/github-gem"}, fixture.api.Forks)
			require.Equal(testInstance, "Giving GitHub a moment to create the fork...\n", output)
			require.Equal(testInstance, []time.Duration{3 * time.Second}, fixture.sleeper.Durations)
			require.Equal(testInstance, []string{"git clone git@github.com:drnic/github-gem.git"}, fixture.replacer.CommandLines())
		})
	}
}

func TestForkFailures(testInstance *testing.T) {
	testInstance.Run("outside_repository", func(testInstance *testing.T) {
		fixture := newReposFixture()
		_, executionError := fixture.run(testInstance, "fork")
		require.Equal(testInstance, shared.UsageError{Message: "Specify a user/project to fork, or run from within a repo"}, executionError)
		require.Empty(testInstance, fixture.api.Forks)
	})

	testInstance.Run("missing_credentials", func(testInstance *testing.T) {
		fixture := newReposFixture()
		_, executionError := fixture.run(testInstance, "fork", "defunkt/github-gem")
		require.Equal(testInstance, shared.UsageError{Message: "No GitHub credentials found; set github.user and github.token with git config"}, executionError)
		require.Empty(testInstance, fixture.api.Forks)
	})

	testInstance.Run("api_failure", func(testInstance *testing.T) {
		fixture := newReposFixture()
		fixture.credentials.Credentials = githubauth.Credentials{User: "drnic", Token: "MY_GITHUB_TOKEN"}
		fixture.credentials.Found = true
		fixture.api.Err = errors.New("service unavailable")
		_, executionError := fixture.run(testInstance, "fork", "defunkt/github-gem")
		require.ErrorIs(testInstance, executionError, fixture.api.Err)
		require.Empty(testInstance, fixture.replacer.Commands)
		require.Empty(testInstance, fixture.sleeper.Durations)
	})
}

func TestNewServiceDefaultsHostingCollaborators(testInstance *testing.T) {
	fixture := newReposFixture()
	fixture.builder.RepositorySearcher = nil
	fixture.builder.ForkRequester = nil

	service, creationError := fixture.builder.NewService()
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, service)
}
