package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/branches"
	"github.com/temirov/github-gem/internal/browse"
	"github.com/temirov/github-gem/internal/commands"
	"github.com/temirov/github-gem/internal/dependencies"
	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/pullrequest"
	"github.com/temirov/github-gem/internal/remotes"
	"github.com/temirov/github-gem/internal/repos"
	"github.com/temirov/github-gem/internal/search"
	"github.com/temirov/github-gem/internal/shared"
	"github.com/temirov/github-gem/internal/utils"
)

const (
	applicationNameConstant                 = "github"
	applicationShortDescriptionConstant     = "Shortcuts for working with GitHub-hosted repositories"
	applicationLongDescriptionConstant      = "github augments git with commands for browsing, tracking, fetching, cloning and forking hosted repositories. Unknown commands are passed to git."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (debug, info, warn or error)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	environmentPrefixConstant               = "GITHUBGEM"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationDirectoryNameConstant      = "github-gem"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build command: %w"
	fallThroughMessageConstant              = "passing command line to git"
	logFieldArgumentsConstant               = "arguments"
	flagPrefixConstant                      = "-"
	flagValueSeparatorConstant              = "="
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	GitHub  shared.HostingConfiguration    `mapstructure:"github"`
	Browser shared.BrowserConfiguration    `mapstructure:"browser"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationDependencies override the collaborators the commands construct by default.
type ApplicationDependencies struct {
	GitExecutor         shared.GitExecutor
	RepositoryInspector shared.RepositoryInspector
	ProcessReplacer     shared.ProcessReplacer
	BrowserLauncher     shared.BrowserLauncher
	Selector            shared.Selector
	NetworkLister       shared.NetworkLister
	RepositorySearcher  shared.RepositorySearcher
	ForkRequester       shared.ForkRequester
	CredentialsResolver shared.CredentialsResolver
	Sleeper             shared.Sleeper
	StandardOutput      io.Writer
	StandardError       io.Writer
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	registeredCommands    map[string]struct{}
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	dependencies          ApplicationDependencies
	commandBuildErrors    []error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles the application around the provided collaborators.
func NewApplicationWithDependencies(applicationDependencies ApplicationDependencies) *Application {
	if applicationDependencies.StandardOutput == nil {
		applicationDependencies.StandardOutput = os.Stdout
	}
	if applicationDependencies.StandardError == nil {
		applicationDependencies.StandardError = os.Stderr
	}

	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
			Name:              configurationNameConstant,
			Type:              configurationTypeConstant,
			EnvironmentPrefix: environmentPrefixConstant,
			SearchPaths:       configurationSearchPaths(),
			Embedded:          EmbeddedDefaultConfiguration(),
		}),
		loggerFactory:      utils.NewLoggerFactory(),
		logger:             zap.NewNop(),
		registeredCommands: map[string]struct{}{},
		dependencies:       applicationDependencies,
	}

	cobraCommand := &cobra.Command{
		Use:               applicationNameConstant,
		Short:             applicationShortDescriptionConstant,
		Long:              applicationLongDescriptionConstant,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
	}
	cobraCommand.SetOut(applicationDependencies.StandardOutput)
	cobraCommand.SetErr(applicationDependencies.StandardError)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	application.rootCommand = cobraCommand

	loggerProvider := func() *zap.Logger { return application.logger }
	configurationProvider := application.sharedConfiguration
	humanReadable := application.humanReadableLoggingEnabled

	browseBuilder := browse.CommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        configurationProvider,
		HumanReadableLoggingProvider: humanReadable,
		GitExecutor:                  applicationDependencies.GitExecutor,
		RepositoryInspector:          applicationDependencies.RepositoryInspector,
		BrowserLauncher:              applicationDependencies.BrowserLauncher,
		NetworkLister:                applicationDependencies.NetworkLister,
	}
	application.addCommand(browseBuilder.BuildBrowseCommand)
	application.addCommand(browseBuilder.BuildHomeCommand)
	application.addCommand(browseBuilder.BuildNetworkCommand)

	remotesBuilder := remotes.CommandBuilder{
		LoggerProvider:               remotes.LoggerProvider(loggerProvider),
		ConfigurationProvider:        configurationProvider,
		HumanReadableLoggingProvider: humanReadable,
		GitExecutor:                  applicationDependencies.GitExecutor,
		RepositoryInspector:          applicationDependencies.RepositoryInspector,
	}
	application.addCommand(remotesBuilder.BuildInfoCommand)
	application.addCommand(remotesBuilder.BuildTrackCommand)

	branchesBuilder := branches.CommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        configurationProvider,
		HumanReadableLoggingProvider: humanReadable,
		GitExecutor:                  applicationDependencies.GitExecutor,
		RepositoryInspector:          applicationDependencies.RepositoryInspector,
		ProcessReplacer:              applicationDependencies.ProcessReplacer,
		NetworkLister:                applicationDependencies.NetworkLister,
	}
	application.addCommand(branchesBuilder.BuildFetchCommand)
	application.addCommand(branchesBuilder.BuildPullCommand)

	reposBuilder := repos.CommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        configurationProvider,
		HumanReadableLoggingProvider: humanReadable,
		GitExecutor:                  applicationDependencies.GitExecutor,
		RepositoryInspector:          applicationDependencies.RepositoryInspector,
		ProcessReplacer:              applicationDependencies.ProcessReplacer,
		Selector:                     applicationDependencies.Selector,
		RepositorySearcher:           applicationDependencies.RepositorySearcher,
		ForkRequester:                applicationDependencies.ForkRequester,
		CredentialsResolver:          applicationDependencies.CredentialsResolver,
		Sleeper:                      applicationDependencies.Sleeper,
	}
	application.addCommand(reposBuilder.BuildCloneCommand)
	application.addCommand(reposBuilder.BuildForkCommand)

	searchBuilder := search.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: configurationProvider,
		RepositorySearcher:    applicationDependencies.RepositorySearcher,
	}
	application.addCommand(searchBuilder.Build)

	pullRequestBuilder := pullrequest.CommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        configurationProvider,
		HumanReadableLoggingProvider: humanReadable,
		GitExecutor:                  applicationDependencies.GitExecutor,
		RepositoryInspector:          applicationDependencies.RepositoryInspector,
		ProcessReplacer:              applicationDependencies.ProcessReplacer,
	}
	application.addCommand(pullRequestBuilder.Build)

	return application
}

// Execute builds a fresh application instance and dispatches the process arguments.
func Execute() error {
	return NewApplication().Execute(context.Background(), os.Args[1:])
}

// Execute dispatches arguments: no arguments print the usage, a registered
// command runs through cobra, and anything else replaces the process with git.
// Root flags are honoured only when they precede the command.
func (application *Application) Execute(executionContext context.Context, arguments []string) error {
	executionError := application.dispatch(executionContext, arguments)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// RootCommand exposes the cobra root for documentation and tests.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) dispatch(executionContext context.Context, arguments []string) error {
	if len(application.commandBuildErrors) > 0 {
		return errors.Join(application.commandBuildErrors...)
	}
	rootFlagArguments, remainingArguments := application.splitRootFlags(arguments)
	if parseError := application.rootCommand.PersistentFlags().Parse(rootFlagArguments); parseError != nil {
		return parseError
	}

	if len(remainingArguments) == 0 {
		return commands.RenderUsage(application.dependencies.StandardOutput, commands.Describe(application.rootCommand))
	}
	if _, registered := application.registeredCommands[remainingArguments[0]]; registered {
		application.rootCommand.SetArgs(remainingArguments)
		return application.rootCommand.ExecuteContext(executionContext)
	}
	return application.fallThroughToGit(executionContext, remainingArguments)
}

// splitRootFlags separates leading root flags, such as --log-level debug, from the command line that follows them.
func (application *Application) splitRootFlags(arguments []string) ([]string, []string) {
	index := 0
	for index < len(arguments) && strings.HasPrefix(arguments[index], flagPrefixConstant) {
		flagName, _, hasInlineValue := strings.Cut(strings.TrimLeft(arguments[index], flagPrefixConstant), flagValueSeparatorConstant)
		if application.rootCommand.PersistentFlags().Lookup(flagName) == nil {
			break
		}
		index++
		if !hasInlineValue && index < len(arguments) {
			index++
		}
	}
	return arguments[:index], arguments[index:]
}

func (application *Application) fallThroughToGit(executionContext context.Context, arguments []string) error {
	if initializationError := application.initializeConfiguration(nil); initializationError != nil {
		return initializationError
	}
	application.logger.Debug(fallThroughMessageConstant, zap.Strings(logFieldArgumentsConstant, arguments))

	replacer, replacerError := dependencies.ResolveProcessReplacer(application.dependencies.ProcessReplacer, application.logger)
	if replacerError != nil {
		return replacerError
	}
	return replacer.Replace(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: append([]string(nil), arguments...)},
	})
}

func (application *Application) addCommand(build func() (*cobra.Command, error)) {
	command, buildError := build()
	if buildError != nil {
		application.commandBuildErrors = append(application.commandBuildErrors, fmt.Errorf(commandBuildErrorTemplateConstant, buildError))
		return
	}
	application.rootCommand.AddCommand(command)
	application.registeredCommands[command.Name()] = struct{}{}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.Load(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.ParseLogLevel(application.configuration.Common.LogLevel),
		utils.ParseLogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
	return nil
}

func (application *Application) sharedConfiguration() shared.Configuration {
	return shared.Configuration{GitHub: application.configuration.GitHub, Browser: application.configuration.Browser}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return utils.ParseLogFormat(application.configuration.Common.LogFormat).HumanReadable()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	flagSetsToInspect := []*pflag.FlagSet{application.rootCommand.PersistentFlags()}
	if command != nil {
		flagSetsToInspect = append(flagSetsToInspect, command.PersistentFlags(), command.InheritedFlags())
	}
	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, configurationDirectoryNameConstant))
	}
	return searchPaths
}
