package browse

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	browseCommandUseConstant               = "browse [user-or-branch] [branch]"
	browseCommandShortDescriptionConstant  = "Open this repo in a web browser."
	browseCommandExampleConstant           = "github browse\ngithub browse pending\ngithub browse defunkt pending\ngithub browse defunkt/pending"
	homeCommandUseConstant                 = "home [user]"
	homeCommandShortDescriptionConstant    = "Open this repo's master branch in a web browser."
	networkCommandUseConstant              = "network [web|list] [user]"
	networkCommandShortDescriptionConstant = "Project network tools."
	networkCommandLongDescriptionConstant  = "network web opens the network graph page (the default); network list prints the owner of every fork in the project's network."
	networkWebSubcommandConstant           = "web"
	networkListSubcommandConstant          = "list"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the browse, home and network commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        shared.ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  shared.GitExecutor
	RepositoryInspector          shared.RepositoryInspector
	BrowserLauncher              shared.BrowserLauncher
	NetworkLister                shared.NetworkLister
}

// BuildBrowseCommand constructs the browse command.
func (builder *CommandBuilder) BuildBrowseCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:     browseCommandUseConstant,
		Short:   browseCommandShortDescriptionConstant,
		Example: browseCommandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService()
			if serviceError != nil {
				return serviceError
			}
			return service.Browse(command.Context(), arguments)
		},
	}, nil
}

// BuildHomeCommand constructs the home command.
func (builder *CommandBuilder) BuildHomeCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   homeCommandUseConstant,
		Short: homeCommandShortDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService()
			if serviceError != nil {
				return serviceError
			}
			return service.Home(command.Context(), firstArgument(arguments))
		},
	}, nil
}

// BuildNetworkCommand constructs the network command.
func (builder *CommandBuilder) BuildNetworkCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   networkCommandUseConstant,
		Short: networkCommandShortDescriptionConstant,
		Long:  networkCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService()
			if serviceError != nil {
				return serviceError
			}
			mode := networkWebSubcommandConstant
			if len(arguments) > 0 && (arguments[0] == networkWebSubcommandConstant || arguments[0] == networkListSubcommandConstant) {
				mode = arguments[0]
				arguments = arguments[1:]
			}
			if mode == networkListSubcommandConstant {
				return service.ListNetwork(command.Context(), firstArgument(arguments), command.OutOrStdout())
			}
			return service.Network(command.Context(), firstArgument(arguments))
		},
	}, nil
}

func (builder *CommandBuilder) newService() (*Service, error) {
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
	browser, browserError := dependencies.ResolveBrowserLauncher(builder.BrowserLauncher, logger, humanReadableLogging, configuration.Browser)
	if browserError != nil {
		return nil, browserError
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
		BrowserLauncher:     browser,
		NetworkLister:       networkLister,
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

func firstArgument(arguments []string) string {
	if len(arguments) == 0 {
		return ""
	}
	return arguments[0]
}
