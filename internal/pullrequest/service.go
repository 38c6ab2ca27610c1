package pullrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	missingUserMessageConstant       = "Specify a user for the pull request"
	userBranchTemplateConstant       = "%s/%s"
	gitRequestPullSubcommandConstant = "request-pull"
	replacerMissingMessageConstant   = "pull request service process replacer not configured"
	trackerMissingMessageConstant    = "pull request service remote tracker not configured"
)

// ErrProcessReplacerNotConfigured indicates the service was constructed without a process replacer.
var ErrProcessReplacerNotConfigured = errors.New(replacerMissingMessageConstant)

// ErrRemoteTrackerNotConfigured indicates the service was constructed without a remote tracker.
var ErrRemoteTrackerNotConfigured = errors.New(trackerMissingMessageConstant)

// RemoteTracker adds a remote for a user that is not tracked yet.
type RemoteTracker interface {
	EnsureTracking(executionContext context.Context, user string) error
}

// Service generates pull request summaries with git request-pull.
type Service struct {
	replacer      shared.ProcessReplacer
	tracker       RemoteTracker
	configuration shared.HostingConfiguration
}

// NewService constructs a Service.
func NewService(replacer shared.ProcessReplacer, tracker RemoteTracker, configuration shared.HostingConfiguration) (*Service, error) {
	if replacer == nil {
		return nil, ErrProcessReplacerNotConfigured
	}
	if tracker == nil {
		return nil, ErrRemoteTrackerNotConfigured
	}
	return &Service{replacer: replacer, tracker: tracker, configuration: configuration}, nil
}

// Generate replaces the process with git request-pull for "<user>[/branch] [branch]" against origin.
func (service *Service) Generate(executionContext context.Context, arguments []string) error {
	user, branch := shared.ParseUserBranch(arguments, service.configuration.DefaultBranch)
	if len(strings.TrimSpace(user)) == 0 {
		return shared.UsageError{Message: missingUserMessageConstant}
	}

	if trackError := service.tracker.EnsureTracking(executionContext, user); trackError != nil {
		return trackError
	}

	return service.replacer.Replace(executionContext, execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{
			gitRequestPullSubcommandConstant,
			fmt.Sprintf(userBranchTemplateConstant, user, branch),
			service.configuration.DefaultRemote,
		}},
	})
}
