package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/temirov/github-gem/internal/execshell"
)

const (
	browserEnvironmentVariableConstant          = "BROWSER"
	darwinOperatingSystemConstant               = "darwin"
	windowsOperatingSystemConstant              = "windows"
	darwinOpenCommandConstant                   = "open"
	windowsOpenCommandConstant                  = "cmd"
	linuxOpenCommandConstant                    = "xdg-open"
	urlPlaceholderConstant                      = "%s"
	parseBrowserCommandTemplateConstant         = "parse browser command %q: %w"
	browserExecutorNotConfiguredMessageConstant = "browser launcher executor not configured"
	emptyBrowserCommandMessageConstant          = "browser command is empty"
)

var windowsOpenArgumentsConstant = []string{"/c", "start"}

// ErrBrowserExecutorNotConfigured indicates the launcher was constructed without an executor.
var ErrBrowserExecutorNotConfigured = errors.New(browserExecutorNotConfiguredMessageConstant)

// CommandExecutor runs an arbitrary command and captures its output.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// BrowserOptions configure a BrowserLauncher.
type BrowserOptions struct {
	// Command overrides the browser. "%s" is replaced by the URL; otherwise the URL is appended.
	Command           string
	OperatingSystem   string
	EnvironmentLookup func(key string) (string, bool)
}

// BrowserLauncher opens URLs in the user's web browser.
type BrowserLauncher struct {
	executor CommandExecutor
	options  BrowserOptions
}

// NewBrowserLauncher constructs a BrowserLauncher.
func NewBrowserLauncher(executor CommandExecutor, options BrowserOptions) (*BrowserLauncher, error) {
	if executor == nil {
		return nil, ErrBrowserExecutorNotConfigured
	}
	if len(options.OperatingSystem) == 0 {
		options.OperatingSystem = runtime.GOOS
	}
	if options.EnvironmentLookup == nil {
		options.EnvironmentLookup = os.LookupEnv
	}
	return &BrowserLauncher{executor: executor, options: options}, nil
}

// Open launches the browser on targetURL.
func (launcher *BrowserLauncher) Open(executionContext context.Context, targetURL string) error {
	command, resolveError := launcher.resolveCommand(targetURL)
	if resolveError != nil {
		return resolveError
	}
	_, executionError := launcher.executor.Execute(executionContext, command)
	return executionError
}

func (launcher *BrowserLauncher) resolveCommand(targetURL string) (execshell.ShellCommand, error) {
	configuredCommand := strings.TrimSpace(launcher.options.Command)
	if len(configuredCommand) == 0 {
		if environmentCommand, found := launcher.options.EnvironmentLookup(browserEnvironmentVariableConstant); found {
			configuredCommand = strings.TrimSpace(environmentCommand)
		}
	}
	if len(configuredCommand) > 0 {
		return buildConfiguredCommand(configuredCommand, targetURL)
	}

	switch launcher.options.OperatingSystem {
	case darwinOperatingSystemConstant:
		return execshell.ShellCommand{Name: darwinOpenCommandConstant, Details: execshell.CommandDetails{Arguments: []string{targetURL}}}, nil
	case windowsOperatingSystemConstant:
		arguments := append(append([]string{}, windowsOpenArgumentsConstant...), targetURL)
		return execshell.ShellCommand{Name: windowsOpenCommandConstant, Details: execshell.CommandDetails{Arguments: arguments}}, nil
	default:
		return execshell.ShellCommand{Name: linuxOpenCommandConstant, Details: execshell.CommandDetails{Arguments: []string{targetURL}}}, nil
	}
}

func buildConfiguredCommand(configuredCommand string, targetURL string) (execshell.ShellCommand, error) {
	words, parseError := shellwords.Parse(configuredCommand)
	if parseError != nil {
		return execshell.ShellCommand{}, fmt.Errorf(parseBrowserCommandTemplateConstant, configuredCommand, parseError)
	}
	if len(words) == 0 {
		return execshell.ShellCommand{}, errors.New(emptyBrowserCommandMessageConstant)
	}

	arguments := make([]string, 0, len(words))
	substituted := false
	for _, word := range words[1:] {
		if strings.Contains(word, urlPlaceholderConstant) {
			word = strings.ReplaceAll(word, urlPlaceholderConstant, targetURL)
			substituted = true
		}
		arguments = append(arguments, word)
	}
	if !substituted {
		arguments = append(arguments, targetURL)
	}
	return execshell.ShellCommand{Name: execshell.CommandName(words[0]), Details: execshell.CommandDetails{Arguments: arguments}}, nil
}
