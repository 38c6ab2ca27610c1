// Package sharedtest provides in-memory implementations of the shared
// contracts for command package tests.
package sharedtest

import (
	"context"
	"strings"
	"time"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/githubapi"
	"github.com/temirov/github-gem/internal/githubauth"
	"github.com/temirov/github-gem/internal/gitrepo"
)

const argumentSeparatorConstant = " "

// HostingService is the service used by fakes and tests.
var HostingService = gitrepo.HostingService{Host: "github.com", SSHUser: "git", WebURL: "https://github.com"}

// NewRemote describes a remote the way the repository manager would.
func NewRemote(name string, remoteURL string) gitrepo.Remote {
	remote := gitrepo.Remote{Name: name, URL: remoteURL}
	if location, parseError := gitrepo.ParseRemoteURL(HostingService, remoteURL); parseError == nil {
		remote.Hosted = true
		remote.Location = location
	}
	return remote
}

// RepositoryInspector is a scripted shared.RepositoryInspector.
type RepositoryInspector struct {
	RemoteList    []gitrepo.Remote
	Dirty         bool
	Branch        string
	LocalBranches map[string]bool
	Config        map[string]string
	Err           error
}

// Remotes returns RemoteList.
func (inspector *RepositoryInspector) Remotes(context.Context) ([]gitrepo.Remote, error) {
	return inspector.RemoteList, inspector.Err
}

// Remote finds a remote by name.
func (inspector *RepositoryInspector) Remote(_ context.Context, remoteName string) (gitrepo.Remote, bool, error) {
	if inspector.Err != nil {
		return gitrepo.Remote{}, false, inspector.Err
	}
	for _, remote := range inspector.RemoteList {
		if remote.Name == remoteName {
			return remote, true, nil
		}
	}
	return gitrepo.Remote{}, false, nil
}

// IsTracking reports whether a hosted remote is owned by user.
func (inspector *RepositoryInspector) IsTracking(_ context.Context, user string) (bool, error) {
	for _, remote := range inspector.RemoteList {
		if remote.Hosted && remote.Location.Owner == user {
			return true, inspector.Err
		}
	}
	return false, inspector.Err
}

// IsBranchDirty returns Dirty.
func (inspector *RepositoryInspector) IsBranchDirty(context.Context) (bool, error) {
	return inspector.Dirty, inspector.Err
}

// CurrentBranch returns Branch.
func (inspector *RepositoryInspector) CurrentBranch(context.Context) (string, error) {
	return inspector.Branch, inspector.Err
}

// BranchExists consults LocalBranches.
func (inspector *RepositoryInspector) BranchExists(_ context.Context, branchName string) (bool, error) {
	return inspector.LocalBranches[branchName], inspector.Err
}

// ConfigValue consults Config.
func (inspector *RepositoryInspector) ConfigValue(_ context.Context, key string) (string, error) {
	return inspector.Config[key], inspector.Err
}

// CurrentUser returns the github.user configuration value.
func (inspector *RepositoryInspector) CurrentUser(executionContext context.Context) (string, error) {
	return inspector.ConfigValue(executionContext, "github.user")
}

// GitExecutor records git invocations. Failures are keyed by the space-joined argument list.
type GitExecutor struct {
	Invocations []string
	Outputs     map[string]string
	Failures    map[string]error
}

// ExecuteGit records the invocation and returns the scripted outcome.
func (executor *GitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	invocation := strings.Join(details.Arguments, argumentSeparatorConstant)
	executor.Invocations = append(executor.Invocations, invocation)
	if failure, found := executor.Failures[invocation]; found {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{StandardOutput: executor.Outputs[invocation]}, nil
}

// ProcessReplacer records replacement requests instead of replacing the process.
type ProcessReplacer struct {
	Commands []execshell.ShellCommand
	Err      error
}

// Replace records command and returns Err.
func (replacer *ProcessReplacer) Replace(_ context.Context, command execshell.ShellCommand) error {
	replacer.Commands = append(replacer.Commands, command)
	return replacer.Err
}

// CommandLines renders the recorded commands as "name arguments...".
func (replacer *ProcessReplacer) CommandLines() []string {
	lines := make([]string, 0, len(replacer.Commands))
	for _, command := range replacer.Commands {
		lines = append(lines, strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), argumentSeparatorConstant))
	}
	return lines
}

// BrowserLauncher records opened URLs.
type BrowserLauncher struct {
	URLs []string
	Err  error
}

// Open records targetURL.
func (launcher *BrowserLauncher) Open(_ context.Context, targetURL string) error {
	launcher.URLs = append(launcher.URLs, targetURL)
	return launcher.Err
}

// Selector returns Choice and records the candidates it was shown.
type Selector struct {
	Choice     string
	Found      bool
	Err        error
	Header     string
	Candidates []string
}

// Select records the request and returns the scripted answer.
func (selector *Selector) Select(_ context.Context, header string, candidates []string) (string, bool, error) {
	selector.Header = header
	selector.Candidates = append([]string{}, candidates...)
	return selector.Choice, selector.Found, selector.Err
}

// HostingAPI is a scripted implementation of the hosting API contracts.
type HostingAPI struct {
	Repositories   []githubapi.Repository
	NetworkMembers []githubapi.NetworkMember
	Err            error
	SearchTerms    [][]string
	NetworkQueries []string
	Forks          []string
	ForkLogins     []githubapi.Credentials
}

// SearchRepositories records terms and returns Repositories.
func (api *HostingAPI) SearchRepositories(_ context.Context, terms []string) ([]githubapi.Repository, error) {
	api.SearchTerms = append(api.SearchTerms, terms)
	return api.Repositories, api.Err
}

// ListNetworkMembers records the query and returns NetworkMembers.
func (api *HostingAPI) ListNetworkMembers(_ context.Context, owner string, repository string) ([]githubapi.NetworkMember, error) {
	api.NetworkQueries = append(api.NetworkQueries, owner+"/"+repository)
	return api.NetworkMembers, api.Err
}

// ForkRepository records the fork request.
func (api *HostingAPI) ForkRepository(_ context.Context, owner string, repository string, credentials githubapi.Credentials) error {
	api.Forks = append(api.Forks, owner+"/"+repository)
	api.ForkLogins = append(api.ForkLogins, credentials)
	return api.Err
}

// CredentialsResolver returns fixed credentials.
type CredentialsResolver struct {
	Credentials githubauth.Credentials
	Found       bool
	Err         error
}

// Resolve returns the scripted credentials.
func (resolver *CredentialsResolver) Resolve(context.Context) (githubauth.Credentials, bool, error) {
	return resolver.Credentials, resolver.Found, resolver.Err
}

// Sleeper records requested pauses without waiting.
type Sleeper struct {
	Durations []time.Duration
}

// Sleep records duration.
func (sleeper *Sleeper) Sleep(_ context.Context, duration time.Duration) error {
	sleeper.Durations = append(sleeper.Durations, duration)
	return nil
}
