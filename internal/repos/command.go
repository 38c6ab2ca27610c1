package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	cloneCommandUseConstant              = "clone [--ssh] [--search] <user>[/project] [project] [directory]"
	cloneCommandShortDescriptionConstant = "Clone a repo."
	cloneCommandLongDescriptionConstant  = "clone clones user's project over the public URL, or over the private URL with --ssh or when user is the configured github.user. Anything that is not a user/project is passed to git clone."
	cloneCommandExampleConstant          = "github clone defunkt github-gem\ngithub clone --ssh defunkt/github-gem repo\ngithub clone --search github-gem"
	sshFlagNameConstant                  = "ssh"
	sshFlagUsageConstant                 = "Clone using the git@github.com style url."
	searchFlagNameConstant               = "search"
	searchFlagUsageConstant              = "Search for [user|repo] and clone selected repository"
	forkCommandUseConstant               = "fork [<user>[/project]] [project]"
	forkCommandShortDescriptionConstant  = "Forks a GitHub repository."
	forkCommandLongDescriptionConstant   = "fork creates a fork under your account. Inside a hosted repository it repoints origin at the fork; otherwise it clones the fork."
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the clone and fork commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        shared.ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  shared.GitExecutor
	RepositoryInspector          shared.RepositoryInspector
	ProcessReplacer              shared.ProcessReplacer
	Selector                     shared.Selector
	RepositorySearcher           shared.RepositorySearcher
	ForkRequester                shared.ForkRequester
	CredentialsResolver          shared.CredentialsResolver
	Sleeper                      shared.Sleeper
}

// BuildCloneCommand constructs the clone command.
func (builder *CommandBuilder) BuildCloneCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     cloneCommandUseConstant,
		Short:   cloneCommandShortDescriptionConstant,
		Long:    cloneCommandLongDescriptionConstant,
		Example: cloneCommandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.NewService()
			if serviceError != nil {
				return serviceError
			}
			private, _ := command.Flags().GetBool(sshFlagNameConstant)
			search, _ := command.Flags().GetBool(searchFlagNameConstant)
			return service.Clone(command.Context(), CloneOptions{Arguments: arguments, Private: private, Search: search})
		},
	}
	command.Flags().Bool(sshFlagNameConstant, false, sshFlagUsageConstant)
	command.Flags().Bool(searchFlagNameConstant, false, searchFlagUsageConstant)
	return command, nil
}

// BuildForkCommand constructs the fork command.
func (builder *CommandBuilder) BuildForkCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   forkCommandUseConstant,
		Short: forkCommandShortDescriptionConstant,
		Long:  forkCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.NewService()
			if serviceError != nil {
				return serviceError
			}
			return service.Fork(command.Context(), arguments, command.OutOrStdout())
		},
	}, nil
}

// NewService resolves collaborators and constructs the repos service.
func (builder *CommandBuilder) NewService() (*Service, error) {
	configuration := shared.ResolveConfiguration(builder.ConfigurationProvider)
	logger := builder.resolveLogger()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
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
	credentialsResolver, credentialsError := dependencies.ResolveCredentialsResolver(builder.CredentialsResolver, inspector, configuration.GitHub)
	if credentialsError != nil {
		return nil, credentialsError
	}

	searcher := builder.RepositorySearcher
	forkRequester := builder.ForkRequester
	if searcher == nil || forkRequester == nil {
		client, clientError := dependencies.ResolveAPIClient(nil, configuration.GitHub, logger)
		if clientError != nil {
			return nil, clientError
		}
		if searcher == nil {
			searcher = client
		}
		if forkRequester == nil {
			forkRequester = client
		}
	}

	return NewService(ServiceDependencies{
		RepositoryInspector: inspector,
		GitExecutor:         gitExecutor,
		ProcessReplacer:     replacer,
		Selector:            dependencies.ResolveSelector(builder.Selector),
		RepositorySearcher:  searcher,
		ForkRequester:       forkRequester,
		CredentialsResolver: credentialsResolver,
		Sleeper:             dependencies.ResolveSleeper(builder.Sleeper),
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
