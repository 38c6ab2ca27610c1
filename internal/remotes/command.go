package remotes

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	trackCommandUseConstant              = "track [remote] <user>[/project]"
	trackCommandShortDescriptionConstant = "Track another user's repository."
	trackCommandLongDescriptionConstant  = "track adds a remote named after the user (or the given remote name) pointing at the user's copy of this project."
	trackCommandExampleConstant          = "github track defunkt\ngithub track --private origin defunkt/github-gem"
	infoCommandUseConstant               = "info"
	infoCommandShortDescriptionConstant  = "Info about this project."
	privateFlagNameConstant              = "private"
	privateFlagUsageConstant             = "Use git@github.com: instead of git://github.com/."
	sshFlagNameConstant                  = "ssh"
	sshFlagUsageConstant                 = "Equivalent to --private"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the track and info commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        shared.ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  shared.GitExecutor
	RepositoryInspector          shared.RepositoryInspector
}

// BuildTrackCommand constructs the track command.
func (builder *CommandBuilder) BuildTrackCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     trackCommandUseConstant,
		Short:   trackCommandShortDescriptionConstant,
		Long:    trackCommandLongDescriptionConstant,
		Example: trackCommandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.runTrack,
	}
	command.Flags().Bool(privateFlagNameConstant, false, privateFlagUsageConstant)
	command.Flags().Bool(sshFlagNameConstant, false, sshFlagUsageConstant)
	return command, nil
}

// BuildInfoCommand constructs the info command.
func (builder *CommandBuilder) BuildInfoCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   infoCommandUseConstant,
		Short: infoCommandShortDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.runInfo,
	}, nil
}

func (builder *CommandBuilder) runTrack(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.NewService()
	if serviceError != nil {
		return serviceError
	}

	private, _ := command.Flags().GetBool(privateFlagNameConstant)
	ssh, _ := command.Flags().GetBool(sshFlagNameConstant)

	options := ParseTrackArguments(arguments)
	options.Private = private || ssh
	return service.Track(command.Context(), options)
}

func (builder *CommandBuilder) runInfo(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.NewService()
	if serviceError != nil {
		return serviceError
	}
	return service.Info(command.Context(), command.OutOrStdout())
}

// NewService resolves collaborators and constructs the remotes service.
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
	return NewService(ServiceDependencies{RepositoryInspector: inspector, GitExecutor: gitExecutor}, configuration.GitHub)
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
