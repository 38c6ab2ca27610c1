package branches

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/remotes"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	fetchCommandUseConstant              = "fetch [--merge] <user>[/branch] [branch]"
	fetchCommandShortDescriptionConstant = "Fetch from a remote to a local branch."
	fetchCommandLongDescriptionConstant  = "fetch copies user's branch (master by default) into the local branch user/branch and checks it out, tracking user first when needed."
	fetchCommandExampleConstant          = "github fetch defunkt\ngithub fetch defunkt/wip"
	fetchMergeFlagUsageConstant          = "Accepted for symmetry with pull; fetch always checks out the fetched branch"
	pullCommandUseConstant               = "pull [--merge] <user>[/branch] [branch]"
	pullCommandShortDescriptionConstant  = "Pull from a remote."
	pullCommandLongDescriptionConstant   = "pull switches to user/branch after fetching from user's remote, or merges user's branch into the current one with --merge. Arguments that do not name a collaborator are passed to git pull."
	pullCommandExampleConstant           = "github pull defunkt\ngithub pull --merge defunkt wip\ngithub pull origin --stat"
	pullMergeFlagUsageConstant           = "Merge the branch into the current branch instead of switching to it"
	mergeFlagNameConstant                = "merge"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the fetch and pull commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        shared.ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  shared.GitExecutor
	RepositoryInspector          shared.RepositoryInspector
	ProcessReplacer              shared.ProcessReplacer
	NetworkLister                shared.NetworkLister
}

// BuildFetchCommand constructs the fetch command.
func (builder *CommandBuilder) BuildFetchCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     fetchCommandUseConstant,
		Short:   fetchCommandShortDescriptionConstant,
		Long:    fetchCommandLongDescriptionConstant,
		Example: fetchCommandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.NewService()
			if serviceError != nil {
				return serviceError
			}
			return service.Fetch(command.Context(), arguments, command.OutOrStdout())
		},
	}
	command.Flags().Bool(mergeFlagNameConstant, false, fetchMergeFlagUsageConstant)
	return command, nil
}

// BuildPullCommand constructs the pull command. Flags are interpreted by the
// service so that unrecognized ones can be handed to git pull.
func (builder *CommandBuilder) BuildPullCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:                pullCommandUseConstant,
		Short:              pullCommandShortDescriptionConstant,
		Long:               pullCommandLongDescriptionConstant,
		Example:            pullCommandExampleConstant,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.NewService()
			if serviceError != nil {
				return serviceError
			}
			return service.Pull(command.Context(), arguments, command.OutOrStdout())
		},
	}
	command.Flags().Bool(mergeFlagNameConstant, false, pullMergeFlagUsageConstant)
	return command, nil
}

// NewService resolves collaborators and constructs the branches service.
func (builder *CommandBuilder) NewService() (*Service, error) {
	configuration := shared.ResolveConfiguration(builder.ConfigurationProvider)
	logger := builder.resolveLogger()
	humanReadableLogging := builder.humanReadableLogging()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	inspector, inspectorError := dependencies.ResolveRepositoryInspector(builder.RepositoryInspector, gitExecutor, configuration.GitHub.Service())
	if inspectorError != nil {
		return nil, inspectorError
	}
	replacer, replacerError := dependencies.ResolveProcessReplacer(builder.ProcessReplacer, logger)
	if replacerError != nil {
		return nil, replacerError
	}
	tracker, trackerError := remotes.NewService(remotes.ServiceDependencies{RepositoryInspector: inspector, GitExecutor: gitExecutor}, configuration.GitHub)
	if trackerError != nil {
		return nil, trackerError
	}
	networkLister := builder.NetworkLister
	if networkLister == nil {
		client, clientError := dependencies.ResolveAPIClient(nil, configuration.GitHub, logger)
		if clientError != nil {
			return nil, clientError
		}
		networkLister = client
	}

	return NewService(ServiceDependencies{
		RepositoryInspector: inspector,
		GitExecutor:         gitExecutor,
		ProcessReplacer:     replacer,
		RemoteTracker:       tracker,
		NetworkLister:       networkLister,
		Logger:              logger,
	}, configuration.GitHub)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
