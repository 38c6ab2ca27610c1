package repos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/github-gem/internal/execshell"
	"github.com/temirov/github-gem/internal/githubapi"
	"github.com/temirov/github-gem/internal/gitrepo"
	"github.com/temirov/github-gem/internal/shared"
)

const (
	missingCloneTargetMessageConstant   = "Specify a user to pull from"
	emptySearchMessageConstant          = "Perhaps try another search"
	missingForkTargetMessageConstant    = "Specify a user/project to fork, or run from within a repo"
	missingCredentialsMessageConstant   = "No GitHub credentials found; set github.user and github.token with git config"
	forkedTemplateConstant              = "%s/%s forked\n"
	forkDelayMessageConstant            = "Giving GitHub a moment to create the fork...\n"
	searchSelectionHeaderConstant       = "Select a repository to clone"
	searchCandidateTemplateConstant     = "%-*s # %s"
	ownerRepositorySeparatorConstant    = "/"
	schemeSeparatorConstant             = ":"
	gitCloneSubcommandConstant          = "clone"
	gitConfigSubcommandConstant         = "config"
	originURLConfigKeyTemplateConstant  = "remote.%s.url"
	searchFailureTemplateConstant       = "search repositories: %w"
	forkFailureTemplateConstant         = "fork %s/%s: %w"
	setOriginFailureTemplateConstant    = "point %s at the fork: %w"
	writeFailureTemplateConstant        = "write progress: %w"
	inspectorMissingMessageConstant     = "repos service repository inspector not configured"
	gitExecutorMissingMessageConstant   = "repos service git executor not configured"
	replacerMissingMessageConstant      = "repos service process replacer not configured"
	selectorMissingMessageConstant      = "repos service selector not configured"
	searcherMissingMessageConstant      = "repos service repository searcher not configured"
	forkRequesterMissingMessageConstant = "repos service fork requester not configured"
	credentialsMissingMessageConstant   = "repos service credentials resolver not configured"
)

var (
	// ErrRepositoryInspectorNotConfigured indicates the service was constructed without a repository inspector.
	ErrRepositoryInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)
	// ErrGitExecutorNotConfigured indicates the service was constructed without a git executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	// ErrProcessReplacerNotConfigured indicates the service was constructed without a process replacer.
	ErrProcessReplacerNotConfigured = errors.New(replacerMissingMessageConstant)
	// ErrSelectorNotConfigured indicates a search clone was requested without a selector.
	ErrSelectorNotConfigured = errors.New(selectorMissingMessageConstant)
	// ErrRepositorySearcherNotConfigured indicates a search clone was requested without a searcher.
	ErrRepositorySearcherNotConfigured = errors.New(searcherMissingMessageConstant)
	// ErrForkRequesterNotConfigured indicates a fork was requested without a fork requester.
	ErrForkRequesterNotConfigured = errors.New(forkRequesterMissingMessageConstant)
	// ErrCredentialsResolverNotConfigured indicates a fork was requested without a credentials resolver.
	ErrCredentialsResolverNotConfigured = errors.New(credentialsMissingMessageConstant)
)

// ServiceDependencies enumerates collaborators required by the service.
// Selector and RepositorySearcher serve search clones; ForkRequester,
// CredentialsResolver and Sleeper serve forks.
type ServiceDependencies struct {
	RepositoryInspector shared.RepositoryInspector
	GitExecutor         shared.GitExecutor
	ProcessReplacer     shared.ProcessReplacer
	Selector            shared.Selector
	RepositorySearcher  shared.RepositorySearcher
	ForkRequester       shared.ForkRequester
	CredentialsResolver shared.CredentialsResolver
	Sleeper             shared.Sleeper
}

// CloneOptions configure a clone.
type CloneOptions struct {
	Arguments []string
	Private   bool
	Search    bool
}

// Service clones and forks hosted repositories.
type Service struct {
	dependencies  ServiceDependencies
	configuration shared.HostingConfiguration
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies, configuration shared.HostingConfiguration) (*Service, error) {
	if dependencies.RepositoryInspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.ProcessReplacer == nil {
		return nil, ErrProcessReplacerNotConfigured
	}
	if dependencies.Sleeper == nil {
		dependencies.Sleeper = shared.ContextSleeper{}
	}
	return &Service{dependencies: dependencies, configuration: configuration}, nil
}

// Clone replaces the process with git clone of "<user>[/project] [project] [directory]".
// A single argument that is not user/project is handed to git clone unchanged.
func (service *Service) Clone(executionContext context.Context, options CloneOptions) error {
	if options.Search {
		return service.cloneFromSearch(executionContext, options)
	}

	arguments := options.Arguments
	if len(arguments) == 0 {
		return shared.UsageError{Message: missingCloneTargetMessageConstant}
	}
	if len(arguments) == 1 && !isOwnerRepository(arguments[0]) {
		return service.replaceWithGit(executionContext, gitCloneSubcommandConstant, arguments[0])
	}

	user, project, directory := parseCloneArguments(arguments)
	return service.cloneRepository(executionContext, user, project, directory, options.Private)
}

// Fork asks the hosting service to fork "[<user>[/project]] [project]", or origin when no arguments are given.
func (service *Service) Fork(executionContext context.Context, arguments []string, writer io.Writer) error {
	owner, project := "", ""
	if len(arguments) > 0 {
		owner, project = gitrepo.SplitOwnerRepository(arguments[0])
		if len(arguments) > 1 {
			project = arguments[1]
		}
	}

	inRepository := len(arguments) == 0
	if inRepository {
		origin, hosted, originError := shared.HostedRemote(executionContext, service.dependencies.RepositoryInspector, service.configuration.DefaultRemote)
		if originError != nil {
			return originError
		}
		if hosted {
			owner, project = origin.Owner, origin.Repository
		}
	}
	if len(strings.TrimSpace(owner)) == 0 || len(strings.TrimSpace(project)) == 0 {
		return shared.UsageError{Message: missingForkTargetMessageConstant}
	}

	if service.dependencies.ForkRequester == nil {
		return ErrForkRequesterNotConfigured
	}
	if service.dependencies.CredentialsResolver == nil {
		return ErrCredentialsResolverNotConfigured
	}
	credentials, found, credentialsError := service.dependencies.CredentialsResolver.Resolve(executionContext)
	if credentialsError != nil {
		return credentialsError
	}
	if !found || !credentials.Complete() {
		return shared.UsageError{Message: missingCredentialsMessageConstant}
	}

	forkError := service.dependencies.ForkRequester.ForkRepository(executionContext, owner, project, githubapi.Credentials{Login: credentials.User, Token: credentials.Token})
	if forkError != nil {
		return fmt.Errorf(forkFailureTemplateConstant, owner, project, forkError)
	}

	forkURL, buildError := gitrepo.BuildRemoteURL(service.configuration.Service(), credentials.User, project, gitrepo.RemoteProtocolPrivate)
	if buildError != nil {
		return buildError
	}

	if inRepository {
		remoteName := service.configuration.DefaultRemote
		_, configError := service.dependencies.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments: []string{gitConfigSubcommandConstant, fmt.Sprintf(originURLConfigKeyTemplateConstant, remoteName), forkURL},
		})
		if configError != nil {
			return fmt.Errorf(setOriginFailureTemplateConstant, remoteName, configError)
		}
		return writeString(writer, fmt.Sprintf(forkedTemplateConstant, owner, project))
	}

	if writeError := writeString(writer, forkDelayMessageConstant); writeError != nil {
		return writeError
	}
	if sleepError := service.dependencies.Sleeper.Sleep(executionContext, service.configuration.ForkDelay); sleepError != nil {
		return sleepError
	}
	return service.replaceWithGit(executionContext, gitCloneSubcommandConstant, forkURL)
}

func (service *Service) cloneFromSearch(executionContext context.Context, options CloneOptions) error {
	if service.dependencies.RepositorySearcher == nil {
		return ErrRepositorySearcherNotConfigured
	}
	if service.dependencies.Selector == nil {
		return ErrSelectorNotConfigured
	}

	repositories, searchError := service.dependencies.RepositorySearcher.SearchRepositories(executionContext, options.Arguments)
	if searchError != nil {
		return fmt.Errorf(searchFailureTemplateConstant, searchError)
	}
	if len(repositories) == 0 {
		return shared.UsageError{Message: emptySearchMessageConstant}
	}

	choice, selected, selectionError := service.dependencies.Selector.Select(executionContext, searchSelectionHeaderConstant, searchCandidates(repositories))
	if selectionError != nil {
		return selectionError
	}
	if !selected || !isOwnerRepository(choice) {
		return shared.UsageError{Message: emptySearchMessageConstant}
	}

	user, project := gitrepo.SplitOwnerRepository(choice)
	return service.cloneRepository(executionContext, user, project, "", options.Private)
}

func (service *Service) cloneRepository(executionContext context.Context, user string, project string, directory string, private bool) error {
	if !private {
		currentUser, userError := service.dependencies.RepositoryInspector.CurrentUser(executionContext)
		if userError != nil {
			return userError
		}
		private = len(currentUser) > 0 && currentUser == user
	}

	protocol := gitrepo.RemoteProtocolPublic
	if private {
		protocol = gitrepo.RemoteProtocolPrivate
	}
	cloneURL, buildError := gitrepo.BuildRemoteURL(service.configuration.Service(), user, project, protocol)
	if buildError != nil {
		return buildError
	}

	arguments := []string{gitCloneSubcommandConstant, cloneURL}
	if len(strings.TrimSpace(directory)) > 0 {
		arguments = append(arguments, directory)
	}
	return service.replaceWithGit(executionContext, arguments...)
}

func (service *Service) replaceWithGit(executionContext context.Context, arguments ...string) error {
	return service.dependencies.ProcessReplacer.Replace(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: arguments},
	})
}

// parseCloneArguments interprets "user/project [directory]" and "user project [directory]".
func parseCloneArguments(arguments []string) (string, string, string) {
	if strings.Contains(arguments[0], ownerRepositorySeparatorConstant) {
		user, project := gitrepo.SplitOwnerRepository(arguments[0])
		return user, project, argumentAt(arguments, 1)
	}
	return arguments[0], argumentAt(arguments, 1), argumentAt(arguments, 2)
}

func searchCandidates(repositories []githubapi.Repository) []string {
	width := 0
	for _, repository := range repositories {
		width = max(width, len(repository.FullName()))
	}
	candidates := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		if len(strings.TrimSpace(repository.Description)) == 0 {
			candidates = append(candidates, repository.FullName())
			continue
		}
		candidates = append(candidates, fmt.Sprintf(searchCandidateTemplateConstant, width, repository.FullName(), repository.Description))
	}
	return candidates
}

func isOwnerRepository(value string) bool {
	if strings.Contains(value, schemeSeparatorConstant) || strings.Count(value, ownerRepositorySeparatorConstant) != 1 {
		return false
	}
	owner, repository := gitrepo.SplitOwnerRepository(value)
	return len(owner) > 0 && len(repository) > 0
}

func argumentAt(arguments []string, index int) string {
	if index < len(arguments) {
		return arguments[index]
	}
	return ""
}

func writeString(writer io.Writer, message string) error {
	if _, writeError := io.WriteString(writer, message); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, writeError)
	}
	return nil
}
