package shared

import (
	"context"

	"github.com/temirov/github-gem/internal/gitrepo"
)

// HostedRemote returns the named remote when it points at the hosting service.
func HostedRemote(executionContext context.Context, inspector RepositoryInspector, remoteName string) (gitrepo.RemoteURL, bool, error) {
	remote, found, lookupError := inspector.Remote(executionContext, remoteName)
	if lookupError != nil {
		return gitrepo.RemoteURL{}, false, lookupError
	}
	if !found || !remote.Hosted {
		return gitrepo.RemoteURL{}, false, nil
	}
	return remote.Location, true, nil
}

// ParseUserBranch interprets "<user>[/branch] [branch]" arguments. Branch falls back to defaultBranch.
func ParseUserBranch(arguments []string, defaultBranch string) (string, string) {
	if len(arguments) == 0 {
		return "", ""
	}
	user, branch := gitrepo.SplitOwnerRepository(arguments[0])
	if len(arguments) > 1 {
		branch = arguments[1]
	}
	if len(branch) == 0 {
		branch = defaultBranch
	}
	return user, branch
}
