package branches

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	missingUserMessageConstant                  = "Specify a user to pull from"
	dirtyBranchMessageConstant                  = "Unable to switch branches, your current branch has uncommitted changes"
	fetchingTemplateConstant                    = "Fetching %s/%s\n"
	switchingTemplateConstant                   = "Switching to %s-%s\n"
	localBranchTemplateConstant                 = "%s/%s"
	remoteTrackingRefTemplateConstant           = "refs/remotes/%s/%s"
	localHeadRefTemplateConstant                = "refs/heads/%s/%s"
	fetchRefspecTemplateConstant                = "%s:%s"
	mergeFlagConstant                           = "--merge"
	flagPrefixConstant                          = "-"
	gitFetchSubcommandConstant                  = "fetch"
	gitUpdateRefSubcommandConstant              = "update-ref"
	gitCheckoutSubcommandConstant               = "checkout"
	gitCheckoutCreateFlagConstant               = "-b"
	gitPullSubcommandConstant                   = "pull"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitFetchFailureTemplateConstant             = "failed to fetch %s: %w"
	gitUpdateRefFailureTemplateConstant         = "failed to point %s at %s: %w"
	dirtyCheckFailureTemplateConstant           = "failed to inspect working tree: %w"
	networkLookupFailedMessageConstant          = "network lookup failed; handing arguments to git pull"
	logFieldOwnerConstant                       = "owner"
	logFieldRepositoryConstant                  = "repository"
	logFieldUserConstant                        = "user"
	writeFailureTemplateConstant                = "write progress: %w"
	inspectorMissingMessageConstant             = "branches service repository inspector not configured"
	gitExecutorMissingMessageConstant           = "branches service git executor not configured"
	replacerMissingMessageConstant              = "branches service process replacer not configured"
	trackerMissingMessageConstant               = "branches service remote tracker not configured"
)

// ErrRepositoryInspectorNotConfigured indicates the service was constructed without a repository inspector.
var ErrRepositoryInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrGitExecutorNotConfigured indicates the service was constructed without a git executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrProcessReplacerNotConfigured indicates the service was constructed without a process replacer.
var ErrProcessReplacerNotConfigured = errors.New(replacerMissingMessageConstant)

// ErrRemoteTrackerNotConfigured indicates the service was constructed without a remote tracker.
var ErrRemoteTrackerNotConfigured = errors.New(trackerMissingMessageConstant)

// RemoteTracker adds a remote for a user that is not tracked yet.
type RemoteTracker interface {
	EnsureTracking(executionContext context.Context, user string) error
}

// ServiceDependencies enumerates collaborators required by the service.
// NetworkLister is optional; without it pull only acts on tracked users.
// Logger is optional and defaults to a no-op logger.
type ServiceDependencies struct {
	RepositoryInspector shared.RepositoryInspector
	GitExecutor         shared.GitExecutor
	ProcessReplacer     shared.ProcessReplacer
	RemoteTracker       RemoteTracker
	NetworkLister       shared.NetworkLister
	Logger              *zap.Logger
}

// Service checks out other users' branches.
type Service struct {
	inspector     shared.RepositoryInspector
	executor      shared.GitExecutor
	replacer      shared.ProcessReplacer
	tracker       RemoteTracker
	networkLister shared.NetworkLister
	logger        *zap.Logger
	configuration shared.HostingConfiguration
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies, configuration shared.HostingConfiguration) (*Service, error) {
	if dependencies.RepositoryInspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.ProcessReplacer == nil {
		return nil, ErrProcessReplacerNotConfigured
	}
	if dependencies.RemoteTracker == nil {
		return nil, ErrRemoteTrackerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inspector:     dependencies.RepositoryInspector,
		executor:      dependencies.GitExecutor,
		replacer:      dependencies.ProcessReplacer,
		tracker:       dependencies.RemoteTracker,
		networkLister: dependencies.NetworkLister,
		logger:        logger,
		configuration: configuration,
	}, nil
}

// Fetch copies user's branch into a local user/branch branch and checks it out.
// An existing user/branch is switched to after fetching the remote, never overwritten.
func (service *Service) Fetch(executionContext context.Context, arguments []string, writer io.Writer) error {
	user, branch := shared.ParseUserBranch(arguments, service.configuration.DefaultBranch)
	if len(strings.TrimSpace(user)) == 0 {
		return shared.UsageError{Message: missingUserMessageConstant}
	}

	if trackError := service.tracker.EnsureTracking(executionContext, user); trackError != nil {
		return trackError
	}
	if dirtyError := service.requireCleanBranch(executionContext); dirtyError != nil {
		return dirtyError
	}

	localBranch := fmt.Sprintf(localBranchTemplateConstant, user, branch)
	exists, existsError := service.inspector.BranchExists(executionContext, localBranch)
	if existsError != nil {
		return existsError
	}
	if exists {
		return service.switchToBranch(executionContext, user, branch, writer)
	}

	remoteRef := fmt.Sprintf(remoteTrackingRefTemplateConstant, user, branch)
	if fetchError := service.executeGit(executionContext, gitFetchSubcommandConstant, user, fmt.Sprintf(fetchRefspecTemplateConstant, branch, remoteRef)); fetchError != nil {
		return fmt.Errorf(gitFetchFailureTemplateConstant, user, fetchError)
	}
	localRef := fmt.Sprintf(localHeadRefTemplateConstant, user, branch)
	if updateError := service.executeGit(executionContext, gitUpdateRefSubcommandConstant, localRef, remoteRef); updateError != nil {
		return fmt.Errorf(gitUpdateRefFailureTemplateConstant, localRef, remoteRef, updateError)
	}

	if _, writeError := fmt.Fprintf(writer, fetchingTemplateConstant, user, branch); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, writeError)
	}
	return service.replaceWithGit(executionContext, gitCheckoutSubcommandConstant, localBranch)
}

// Pull switches to user's branch, or merges it into the current branch with --merge.
// Unknown flags and users outside the project's network are handed to git pull unchanged.
func (service *Service) Pull(executionContext context.Context, arguments []string, writer io.Writer) error {
	merge := false
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		switch {
		case argument == mergeFlagConstant:
			merge = true
		case strings.HasPrefix(argument, flagPrefixConstant):
			return service.fallThroughToPull(executionContext, arguments)
		default:
			positional = append(positional, argument)
		}
	}

	user, branch := shared.ParseUserBranch(positional, service.configuration.DefaultBranch)
	if len(strings.TrimSpace(user)) == 0 {
		return shared.UsageError{Message: missingUserMessageConstant}
	}

	tracking, trackingError := service.inspector.IsTracking(executionContext, user)
	if trackingError != nil {
		return trackingError
	}
	if !tracking {
		member, memberError := service.isNetworkMember(executionContext, user)
		if memberError != nil {
			return memberError
		}
		if !member {
			return service.fallThroughToPull(executionContext, arguments)
		}
		if trackError := service.tracker.EnsureTracking(executionContext, user); trackError != nil {
			return trackError
		}
	}

	if dirtyError := service.requireCleanBranch(executionContext); dirtyError != nil {
		return dirtyError
	}

	if merge {
		return service.replaceWithGit(executionContext, gitPullSubcommandConstant, user, branch)
	}
	return service.switchToBranch(executionContext, user, branch, writer)
}

func (service *Service) switchToBranch(executionContext context.Context, user string, branch string, writer io.Writer) error {
	if _, writeError := fmt.Fprintf(writer, switchingTemplateConstant, user, branch); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, writeError)
	}
	if fetchError := service.executeGit(executionContext, gitFetchSubcommandConstant, user); fetchError != nil {
		return fmt.Errorf(gitFetchFailureTemplateConstant, user, fetchError)
	}

	localBranch := fmt.Sprintf(localBranchTemplateConstant, user, branch)
	exists, existsError := service.inspector.BranchExists(executionContext, localBranch)
	if existsError != nil {
		return existsError
	}
	if exists {
		return service.replaceWithGit(executionContext, gitCheckoutSubcommandConstant, localBranch)
	}
	return service.replaceWithGit(executionContext, gitCheckoutSubcommandConstant, gitCheckoutCreateFlagConstant, localBranch, localBranch)
}

func (service *Service) isNetworkMember(executionContext context.Context, user string) (bool, error) {
	if service.networkLister == nil {
		return false, nil
	}
	origin, hosted, originError := shared.HostedRemote(executionContext, service.inspector, service.configuration.DefaultRemote)
	if originError != nil {
		return false, originError
	}
	if !hosted {
		return false, nil
	}
	members, listError := service.networkLister.ListNetworkMembers(executionContext, origin.Owner, origin.Repository)
	if listError != nil {
		service.logger.Debug(networkLookupFailedMessageConstant,
			zap.String(logFieldUserConstant, user),
			zap.String(logFieldOwnerConstant, origin.Owner),
			zap.String(logFieldRepositoryConstant, origin.Repository),
			zap.Error(listError),
		)
		return false, nil
	}
	for _, member := range members {
		if member.Owner == user {
			return true, nil
		}
	}
	return false, nil
}

func (service *Service) requireCleanBranch(executionContext context.Context) error {
	dirty, dirtyError := service.inspector.IsBranchDirty(executionContext)
	if dirtyError != nil {
		return fmt.Errorf(dirtyCheckFailureTemplateConstant, dirtyError)
	}
	if dirty {
		return shared.UsageError{Message: dirtyBranchMessageConstant}
	}
	return nil
}

func (service *Service) fallThroughToPull(executionContext context.Context, arguments []string) error {
	return service.replaceWithGit(executionContext, append([]string{gitPullSubcommandConstant}, arguments...)...)
}

func (service *Service) executeGit(executionContext context.Context, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant},
	})
	return executionError
}

func (service *Service) replaceWithGit(executionContext context.Context, arguments ...string) error {
	return service.replacer.Replace(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: arguments},
	})
}
