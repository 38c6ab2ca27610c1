package dependencies

import (
	"os"

	"go.uber.org/zap"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/githubapi"
	"github.com/temirov/github-gem/internal/githubauth"
	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/shared"
	"github.com/temirov/github-gem/internal/ui"
)

// ResolveShellExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging routes command events through the console renderer.
func ResolveShellExecutor(existing *execshell.ShellExecutor, logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

// ResolveGitExecutor returns the provided executor or the shell executor.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, executorError := ResolveShellExecutor(nil, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	return shellExecutor, nil
}

// ResolveProcessReplacer returns the provided replacer or an exec-backed default.
func ResolveProcessReplacer(existing shared.ProcessReplacer, logger *zap.Logger) (shared.ProcessReplacer, error) {
	if existing != nil {
		return existing, nil
	}
	replacer, replacerError := execshell.NewOSProcessReplacer(logger)
	if replacerError != nil {
		return nil, replacerError
	}
	return replacer, nil
}

// ResolveRepositoryInspector returns the provided inspector or a git-backed repository manager.
func ResolveRepositoryInspector(existing shared.RepositoryInspector, executor shared.GitExecutor, service gitrepo.HostingService) (shared.RepositoryInspector, error) {
	if existing != nil {
		return existing, nil
	}
	manager, managerError := gitrepo.NewRepositoryManager(executor, service, "")
	if managerError != nil {
		return nil, managerError
	}
	return manager, nil
}

// ResolveBrowserLauncher returns the provided launcher or one that runs the configured browser command.
func ResolveBrowserLauncher(existing shared.BrowserLauncher, logger *zap.Logger, humanReadableLogging bool, configuration shared.BrowserConfiguration) (shared.BrowserLauncher, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, executorError := ResolveShellExecutor(nil, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	launcher, launcherError := ui.NewBrowserLauncher(shellExecutor, ui.BrowserOptions{Command: configuration.Command})
	if launcherError != nil {
		return nil, launcherError
	}
	return launcher, nil
}

// ResolveSelector returns the provided selector or a terminal-aware default reading standard input.
func ResolveSelector(existing shared.Selector) shared.Selector {
	if existing != nil {
		return existing
	}
	return ui.NewTerminalSelector(os.Stdin, os.Stdout)
}

// ResolveAPIClient returns the provided client or an HTTP client for the configured API.
func ResolveAPIClient(existing *githubapi.Client, configuration shared.HostingConfiguration, logger *zap.Logger) (*githubapi.Client, error) {
	if existing != nil {
		return existing, nil
	}
	return githubapi.NewClient(githubapi.Options{BaseURL: configuration.APIURL, Timeout: configuration.HTTPTimeout}, logger)
}

// ResolveCredentialsResolver returns the provided resolver or one reading git config, the environment and the gh hosts file.
func ResolveCredentialsResolver(existing shared.CredentialsResolver, reader githubauth.ConfigurationReader, configuration shared.HostingConfiguration) (shared.CredentialsResolver, error) {
	if existing != nil {
		return existing, nil
	}
	hostsFilePath := configuration.CredentialsFile
	if len(hostsFilePath) == 0 {
		if userConfigDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
			hostsFilePath = shared.DefaultCredentialsFile(userConfigDirectory)
		}
	}
	resolver, resolverError := githubauth.NewResolver(reader, githubauth.ResolverOptions{Host: configuration.Host, HostsFilePath: hostsFilePath})
	if resolverError != nil {
		return nil, resolverError
	}
	return resolver, nil
}

// ResolveSleeper returns the provided sleeper or a context-aware timer.
func ResolveSleeper(existing shared.Sleeper) shared.Sleeper {
	if existing != nil {
		return existing
	}
	return shared.ContextSleeper{}
}
