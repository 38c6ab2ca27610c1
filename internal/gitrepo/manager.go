package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/github-gem/internal/execshell"
)

const (
	gitConfigSubcommandConstant          = "config"
	gitConfigGetFlagConstant             = "--get"
	gitConfigGetRegexpFlagConstant       = "--get-regexp"
	remoteURLPatternConstant             = `^remote\..*\.url$`
	remoteURLKeyTemplateConstant         = "remote.%s.url"
	remoteKeyPrefixConstant              = "remote."
	remoteKeySuffixConstant              = ".url"
	gitStatusSubcommandConstant          = "status"
	gitPorcelainFlagConstant             = "--porcelain"
	gitUntrackedFilesNoFlagConstant      = "--untracked-files=no"
	gitRevParseSubcommandConstant        = "rev-parse"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	gitShowRefSubcommandConstant         = "show-ref"
	gitVerifyFlagConstant                = "--verify"
	gitQuietFlagConstant                 = "--quiet"
	localBranchReferenceTemplateConstant = "refs/heads/%s"
	githubUserConfigKeyConstant          = "github.user"
	missingConfigurationExitCodeConstant = 1
	missingReferenceExitCodeConstant     = 1
	toolUnavailableTemplateConstant      = "git %s failed: %v"
	executorNotConfiguredMessageConstant = "repository manager git executor not configured"
	lineSeparatorConstant                = "\n"
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ToolUnavailableError reports a git query that could not be answered.
type ToolUnavailableError struct {
	Query string
	Cause error
}

// Error describes the failed query.
func (toolError ToolUnavailableError) Error() string {
	return fmt.Sprintf(toolUnavailableTemplateConstant, toolError.Query, toolError.Cause)
}

// Unwrap exposes the underlying failure.
func (toolError ToolUnavailableError) Unwrap() error {
	return toolError.Cause
}

// GitExecutor runs git commands and captures their output.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Remote is a configured git remote. Hosted is set when URL points at the hosting service,
// in which case Location carries the parsed owner and repository.
type Remote struct {
	Name     string
	URL      string
	Hosted   bool
	Location RemoteURL
}

// RepositoryManager reads local repository state through git.
type RepositoryManager struct {
	executor         GitExecutor
	service          HostingService
	workingDirectory string
}

// NewRepositoryManager constructs a RepositoryManager operating in workingDirectory.
// An empty working directory means the current directory.
func NewRepositoryManager(executor GitExecutor, service HostingService, workingDirectory string) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor, service: service, workingDirectory: workingDirectory}, nil
}

// Remotes lists configured remotes ordered by name.
func (manager *RepositoryManager) Remotes(executionContext context.Context) ([]Remote, error) {
	result, executionError := manager.run(executionContext, gitConfigSubcommandConstant, gitConfigGetRegexpFlagConstant, remoteURLPatternConstant)
	if executionError != nil {
		if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == missingConfigurationExitCodeConstant {
			return []Remote{}, nil
		}
		return nil, ToolUnavailableError{Query: gitConfigGetRegexpFlagConstant, Cause: executionError}
	}

	remotes := []Remote{}
	for _, line := range strings.Split(result.StandardOutput, lineSeparatorConstant) {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		key := fields[0]
		if !strings.HasPrefix(key, remoteKeyPrefixConstant) || !strings.HasSuffix(key, remoteKeySuffixConstant) {
			continue
		}
		remoteName := strings.TrimSuffix(strings.TrimPrefix(key, remoteKeyPrefixConstant), remoteKeySuffixConstant)
		if len(remoteName) == 0 {
			continue
		}
		remotes = append(remotes, manager.describeRemote(remoteName, fields[1]))
	}

	sort.SliceStable(remotes, func(leftIndex int, rightIndex int) bool {
		return remotes[leftIndex].Name < remotes[rightIndex].Name
	})
	return remotes, nil
}

// RemoteURL returns the URL of the named remote, or an empty string when it is not configured.
func (manager *RepositoryManager) RemoteURL(executionContext context.Context, remoteName string) (string, error) {
	return manager.ConfigValue(executionContext, fmt.Sprintf(remoteURLKeyTemplateConstant, remoteName))
}

// Remote returns the named remote. The boolean is false when it is not configured.
func (manager *RepositoryManager) Remote(executionContext context.Context, remoteName string) (Remote, bool, error) {
	remoteURL, lookupError := manager.RemoteURL(executionContext, remoteName)
	if lookupError != nil {
		return Remote{}, false, lookupError
	}
	if len(remoteURL) == 0 {
		return Remote{}, false, nil
	}
	return manager.describeRemote(remoteName, remoteURL), true, nil
}

// IsTracking reports whether any remote points at a repository owned by user.
func (manager *RepositoryManager) IsTracking(executionContext context.Context, user string) (bool, error) {
	remotes, remotesError := manager.Remotes(executionContext)
	if remotesError != nil {
		return false, remotesError
	}
	for _, remote := range remotes {
		if remote.Hosted && remote.Location.Owner == user {
			return true, nil
		}
	}
	return false, nil
}

// IsBranchDirty reports whether tracked files have uncommitted changes.
func (manager *RepositoryManager) IsBranchDirty(executionContext context.Context) (bool, error) {
	result, executionError := manager.run(executionContext, gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitUntrackedFilesNoFlagConstant)
	if executionError != nil {
		return false, ToolUnavailableError{Query: gitStatusSubcommandConstant, Cause: executionError}
	}
	return len(strings.TrimSpace(result.StandardOutput)) > 0, nil
}

// CurrentBranch returns the checked-out branch name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context) (string, error) {
	result, executionError := manager.run(executionContext, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", ToolUnavailableError{Query: gitRevParseSubcommandConstant, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, branchName string) (bool, error) {
	_, executionError := manager.run(executionContext, gitShowRefSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, fmt.Sprintf(localBranchReferenceTemplateConstant, branchName))
	if executionError == nil {
		return true, nil
	}
	if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == missingReferenceExitCodeConstant {
		return false, nil
	}
	return false, ToolUnavailableError{Query: gitShowRefSubcommandConstant, Cause: executionError}
}

// ConfigValue returns a git configuration value, or an empty string when it is unset.
func (manager *RepositoryManager) ConfigValue(executionContext context.Context, key string) (string, error) {
	result, executionError := manager.run(executionContext, gitConfigSubcommandConstant, gitConfigGetFlagConstant, key)
	if executionError != nil {
		if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == missingConfigurationExitCodeConstant {
			return "", nil
		}
		return "", ToolUnavailableError{Query: gitConfigSubcommandConstant, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// CurrentUser returns the configured hosting-service login, or an empty string.
func (manager *RepositoryManager) CurrentUser(executionContext context.Context) (string, error) {
	return manager.ConfigValue(executionContext, githubUserConfigKeyConstant)
}

// Service returns the hosting service remotes are matched against.
func (manager *RepositoryManager) Service() HostingService {
	return manager.service
}

func (manager *RepositoryManager) describeRemote(remoteName string, remoteURL string) Remote {
	remote := Remote{Name: remoteName, URL: remoteURL}
	location, parseError := ParseRemoteURL(manager.service, remoteURL)
	if parseError == nil {
		remote.Hosted = true
		remote.Location = location
	}
	return remote
}

func (manager *RepositoryManager) run(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: manager.workingDirectory,
	})
}
