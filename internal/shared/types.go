package shared

import (
	"context"
	"time"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/githubapi"
	"github.com/temirov/github-gem/internal/githubauth"
	"github.com/temirov/github-gem/internal/gitrepo"
)

const (
	// OriginRemoteNameConstant identifies the remote describing the current project.
	OriginRemoteNameConstant = "origin"
	// DefaultBranchNameConstant is used when a command is given a user but no branch.
	DefaultBranchNameConstant = "master"
)

// GitExecutor runs git and captures its output.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ProcessReplacer hands the process over to another command.
type ProcessReplacer interface {
	Replace(executionContext context.Context, command execshell.ShellCommand) error
}

// RepositoryInspector exposes the local repository state commands depend on.
type RepositoryInspector interface {
	Remotes(executionContext context.Context) ([]gitrepo.Remote, error)
	Remote(executionContext context.Context, remoteName string) (gitrepo.Remote, bool, error)
	IsTracking(executionContext context.Context, user string) (bool, error)
	IsBranchDirty(executionContext context.Context) (bool, error)
	CurrentBranch(executionContext context.Context) (string, error)
	BranchExists(executionContext context.Context, branchName string) (bool, error)
	ConfigValue(executionContext context.Context, key string) (string, error)
	CurrentUser(executionContext context.Context) (string, error)
}

// BrowserLauncher opens web pages.
type BrowserLauncher interface {
	Open(executionContext context.Context, targetURL string) error
}

// Selector asks the user to choose one candidate.
type Selector interface {
	Select(executionContext context.Context, header string, candidates []string) (string, bool, error)
}

// RepositorySearcher queries the hosting service's repository index.
type RepositorySearcher interface {
	SearchRepositories(executionContext context.Context, terms []string) ([]githubapi.Repository, error)
}

// NetworkLister lists the fork network of a repository.
type NetworkLister interface {
	ListNetworkMembers(executionContext context.Context, owner string, repository string) ([]githubapi.NetworkMember, error)
}

// ForkRequester asks the hosting service to fork a repository.
type ForkRequester interface {
	ForkRepository(executionContext context.Context, owner string, repository string, credentials githubapi.Credentials) error
}

// CredentialsResolver locates the account used for authenticated requests.
type CredentialsResolver interface {
	Resolve(executionContext context.Context) (githubauth.Credentials, bool, error)
}

// Sleeper pauses execution.
type Sleeper interface {
	Sleep(executionContext context.Context, duration time.Duration) error
}

// ContextSleeper waits on a timer and stops early when the context is cancelled.
type ContextSleeper struct{}

// Sleep waits for duration or until the context is done.
func (ContextSleeper) Sleep(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}
