package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	noHostedRemoteMessageConstant       = "No GitHub remote found for this repository"
	networkMemberTemplateConstant       = "%s\n"
	openPageFailureTemplateConstant     = "open %s: %w"
	listNetworkFailureTemplateConstant  = "list network of %s/%s: %w"
	inspectorMissingMessageConstant     = "browse service repository inspector not configured"
	browserMissingMessageConstant       = "browse service browser launcher not configured"
	networkListerMissingMessageConstant = "browse service network lister not configured"
	userBranchSeparatorConstant         = "/"
)

// ErrRepositoryInspectorNotConfigured indicates the service was constructed without a repository inspector.
var ErrRepositoryInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrBrowserLauncherNotConfigured indicates the service was constructed without a browser launcher.
var ErrBrowserLauncherNotConfigured = errors.New(browserMissingMessageConstant)

// ErrNetworkListerNotConfigured indicates ListNetwork was called on a service without a network lister.
var ErrNetworkListerNotConfigured = errors.New(networkListerMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	RepositoryInspector shared.RepositoryInspector
	BrowserLauncher     shared.BrowserLauncher
	NetworkLister       shared.NetworkLister
}

// Service opens the project's web pages.
type Service struct {
	inspector     shared.RepositoryInspector
	browser       shared.BrowserLauncher
	networkLister shared.NetworkLister
	configuration shared.HostingConfiguration
}

// NewService constructs a Service from the provided dependencies. NetworkLister is only required by ListNetwork.
func NewService(dependencies ServiceDependencies, configuration shared.HostingConfiguration) (*Service, error) {
	if dependencies.RepositoryInspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	if dependencies.BrowserLauncher == nil {
		return nil, ErrBrowserLauncherNotConfigured
	}
	return &Service{
		inspector:     dependencies.RepositoryInspector,
		browser:       dependencies.BrowserLauncher,
		networkLister: dependencies.NetworkLister,
		configuration: configuration,
	}, nil
}

// Browse opens the tree page for "[user-or-branch] [branch]".
// A single argument is a branch unless it has the form user/branch.
func (service *Service) Browse(executionContext context.Context, arguments []string) error {
	origin, originError := service.origin(executionContext)
	if originError != nil {
		return originError
	}

	user := origin.Owner
	branch := ""
	switch {
	case len(arguments) >= 2:
		user = arguments[0]
		branch = arguments[1]
	case len(arguments) == 1 && strings.Contains(arguments[0], userBranchSeparatorConstant):
		user, branch = gitrepo.SplitOwnerRepository(arguments[0])
	case len(arguments) == 1:
		branch = arguments[0]
	}

	if len(strings.TrimSpace(branch)) == 0 {
		currentBranch, branchError := service.inspector.CurrentBranch(executionContext)
		if branchError != nil {
			return branchError
		}
		branch = currentBranch
	}

	return service.open(executionContext, gitrepo.TreePageURL(service.configuration.Service(), user, origin.Repository, branch))
}

// Home opens the home page of the project, or of user's copy of it.
func (service *Service) Home(executionContext context.Context, user string) error {
	origin, originError := service.origin(executionContext)
	if originError != nil {
		return originError
	}
	return service.open(executionContext, gitrepo.HomePageURL(service.configuration.Service(), ownerOrDefault(user, origin.Owner), origin.Repository))
}

// Network opens the network page of the project, or of user's copy of it.
func (service *Service) Network(executionContext context.Context, user string) error {
	origin, originError := service.origin(executionContext)
	if originError != nil {
		return originError
	}
	return service.open(executionContext, gitrepo.NetworkPageURL(service.configuration.Service(), ownerOrDefault(user, origin.Owner), origin.Repository))
}

// ListNetwork writes the owner of every repository in the project's fork network, one per line.
func (service *Service) ListNetwork(executionContext context.Context, user string, writer io.Writer) error {
	if service.networkLister == nil {
		return ErrNetworkListerNotConfigured
	}
	origin, originError := service.origin(executionContext)
	if originError != nil {
		return originError
	}

	owner := ownerOrDefault(user, origin.Owner)
	members, listError := service.networkLister.ListNetworkMembers(executionContext, owner, origin.Repository)
	if listError != nil {
		return fmt.Errorf(listNetworkFailureTemplateConstant, owner, origin.Repository, listError)
	}
	for _, member := range members {
		if _, writeError := fmt.Fprintf(writer, networkMemberTemplateConstant, member.Owner); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (service *Service) origin(executionContext context.Context) (gitrepo.RemoteURL, error) {
	origin, hosted, originError := shared.HostedRemote(executionContext, service.inspector, service.configuration.DefaultRemote)
	if originError != nil {
		return gitrepo.RemoteURL{}, originError
	}
	if !hosted {
		return gitrepo.RemoteURL{}, shared.UsageError{Message: noHostedRemoteMessageConstant}
	}
	return origin, nil
}

func (service *Service) open(executionContext context.Context, targetURL string) error {
	if openError := service.browser.Open(executionContext, targetURL); openError != nil {
		return fmt.Errorf(openPageFailureTemplateConstant, targetURL, openError)
	}
	return nil
}

func ownerOrDefault(user string, fallback string) string {
	trimmedUser := strings.TrimSpace(user)
	if len(trimmedUser) == 0 {
		return fallback
	}
	return trimmedUser
}
