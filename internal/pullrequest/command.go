package pullrequest

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/remotes"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	commandUseConstant              = "pull-request <user>[/branch] [branch]"
	commandShortDescriptionConstant = "Generate the text for a pull request."
	commandExampleConstant          = "github pull-request defunkt\ngithub pull-request defunkt/wip"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the pull-request command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        shared.ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  shared.GitExecutor
	RepositoryInspector          shared.RepositoryInspector
	ProcessReplacer              shared.ProcessReplacer
}

// Build constructs the pull-request command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := shared.ResolveConfiguration(builder.ConfigurationProvider)
	logger := builder.resolveLogger()
	humanReadableLogging := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}
	inspector, inspectorError := dependencies.ResolveRepositoryInspector(builder.RepositoryInspector, gitExecutor, configuration.GitHub.Service())
	if inspectorError != nil {
		return inspectorError
	}
	replacer, replacerError := dependencies.ResolveProcessReplacer(builder.ProcessReplacer, logger)
	if replacerError != nil {
		return replacerError
	}
	tracker, trackerError := remotes.NewService(remotes.ServiceDependencies{RepositoryInspector: inspector, GitExecutor: gitExecutor}, configuration.GitHub)
	if trackerError != nil {
		return trackerError
	}

	service, serviceError := NewService(replacer, tracker, configuration.GitHub)
	if serviceError != nil {
		return serviceError
	}
	return service.Generate(command.Context(), arguments)
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
