package search

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	commandUseConstant              = "search <query...>"
	commandShortDescriptionConstant = "Search GitHub for the given repository name."
	commandExampleConstant          = "github search github-gem"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the search command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider shared.ConfigurationProvider
	RepositorySearcher    shared.RepositorySearcher
}

// Build constructs the search command.
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
	searcher := builder.RepositorySearcher
	if searcher == nil {
		configuration := shared.ResolveConfiguration(builder.ConfigurationProvider)
		client, clientError := dependencies.ResolveAPIClient(nil, configuration.GitHub, builder.resolveLogger())
		if clientError != nil {
			return clientError
		}
		searcher = client
	}

	service, serviceError := NewService(searcher)
	if serviceError != nil {
		return serviceError
	}
	return service.Search(command.Context(), arguments, command.OutOrStdout())
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
