package remotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	missingUserMessageConstant        = "Specify a user to track"
	alreadyTrackingTemplateConstant   = "Already tracking %s"
	missingProjectTemplateConstant    = "Unable to determine the project; specify %s/<project>"
	infoHeaderTemplateConstant        = "== Info for %s\n"
	infoUserTemplateConstant          = "You are %s\n"
	infoTrackingHeaderConstant        = "Currently tracking:\n"
	infoRemoteTemplateConstant        = " - %s (as %s)\n"
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteAddSubcommandConstant    = "add"
	addRemoteFailureTemplateConstant  = "add remote %s: %w"
	inspectorMissingMessageConstant   = "remotes service repository inspector not configured"
	gitExecutorMissingMessageConstant = "remotes service git executor not configured"
	writeInfoFailureTemplateConstant  = "write info: %w"
)

// ErrRepositoryInspectorNotConfigured indicates the service was constructed without a repository inspector.
var ErrRepositoryInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrGitExecutorNotConfigured indicates the service was constructed without a git executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	RepositoryInspector shared.RepositoryInspector
	GitExecutor         shared.GitExecutor
}

// TrackOptions configure a track operation.
type TrackOptions struct {
	RemoteName string
	User       string
	Project    string
	Private    bool
}

// Service tracks collaborators' repositories and reports the remotes of the current project.
type Service struct {
	inspector     shared.RepositoryInspector
	executor      shared.GitExecutor
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
	return &Service{inspector: dependencies.RepositoryInspector, executor: dependencies.GitExecutor, configuration: configuration}, nil
}

// ParseTrackArguments interprets "[remote] <user>[/project]".
func ParseTrackArguments(arguments []string) TrackOptions {
	options := TrackOptions{}
	switch {
	case len(arguments) == 0:
		return options
	case len(arguments) == 1:
		options.User, options.Project = gitrepo.SplitOwnerRepository(arguments[0])
	default:
		options.RemoteName = strings.TrimSpace(arguments[0])
		options.User, options.Project = gitrepo.SplitOwnerRepository(arguments[1])
	}
	return options
}

// Track adds a remote for user's copy of the project.
func (service *Service) Track(executionContext context.Context, options TrackOptions) error {
	user := strings.TrimSpace(options.User)
	if len(user) == 0 {
		return shared.UsageError{Message: missingUserMessageConstant}
	}

	tracking, trackingError := service.inspector.IsTracking(executionContext, user)
	if trackingError != nil {
		return trackingError
	}
	if tracking {
		return shared.UsageError{Message: fmt.Sprintf(alreadyTrackingTemplateConstant, user)}
	}

	project := strings.TrimSpace(options.Project)
	if len(project) == 0 {
		origin, hosted, originError := shared.HostedRemote(executionContext, service.inspector, service.configuration.DefaultRemote)
		if originError != nil {
			return originError
		}
		if !hosted {
			return shared.UsageError{Message: fmt.Sprintf(missingProjectTemplateConstant, user)}
		}
		project = origin.Repository
	}

	protocol := gitrepo.RemoteProtocolPublic
	if options.Private {
		protocol = gitrepo.RemoteProtocolPrivate
	}
	remoteURL, buildError := gitrepo.BuildRemoteURL(service.configuration.Service(), user, project, protocol)
	if buildError != nil {
		return buildError
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = user
	}

	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL},
	})
	if executionError != nil {
		return fmt.Errorf(addRemoteFailureTemplateConstant, remoteName, executionError)
	}
	return nil
}

// EnsureTracking tracks user unless a remote for user already exists.
func (service *Service) EnsureTracking(executionContext context.Context, user string) error {
	tracking, trackingError := service.inspector.IsTracking(executionContext, user)
	if trackingError != nil {
		return trackingError
	}
	if tracking {
		return nil
	}
	return service.Track(executionContext, TrackOptions{User: user})
}

// Info writes the project name, the origin owner and every configured remote.
// Without a hosted origin the owner line is left out and the project name comes
// from the first remote on the hosting service, if any.
func (service *Service) Info(executionContext context.Context, writer io.Writer) error {
	origin, hosted, originError := shared.HostedRemote(executionContext, service.inspector, service.configuration.DefaultRemote)
	if originError != nil {
		return originError
	}

	remotes, remotesError := service.inspector.Remotes(executionContext)
	if remotesError != nil {
		return remotesError
	}

	project := origin.Repository
	if !hosted {
		for _, remote := range remotes {
			if remote.Hosted {
				project = remote.Location.Repository
				break
			}
		}
	}

	var builder strings.Builder
	if len(project) > 0 {
		builder.WriteString(fmt.Sprintf(infoHeaderTemplateConstant, project))
	}
	if hosted {
		builder.WriteString(fmt.Sprintf(infoUserTemplateConstant, origin.Owner))
	}
	builder.WriteString(infoTrackingHeaderConstant)
	for _, remote := range remotes {
		label := remote.URL
		if remote.Hosted {
			label = remote.Location.Owner
		}
		builder.WriteString(fmt.Sprintf(infoRemoteTemplateConstant, label, remote.Name))
	}

	if _, writeError := io.WriteString(writer, builder.String()); writeError != nil {
		return fmt.Errorf(writeInfoFailureTemplateConstant, writeError)
	}
	return nil
}
