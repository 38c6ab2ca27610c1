package gitrepo

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

const (
	publicRemoteTemplateConstant        = "git://%s/%s/%s.git"
	privateRemoteTemplateConstant       = "%s@%s:%s/%s.git"
	httpsRemoteTemplateConstant         = "https://%s/%s/%s.git"
	homePageTemplateConstant            = "%s/%s/%s"
	treePageTemplateConstant            = "%s/%s/%s/tree/%s"
	networkPageTemplateConstant         = "%s/%s/%s/network"
	defaultWebURLTemplateConstant       = "https://%s"
	endpointProtocolGitConstant         = "git"
	endpointProtocolSSHConstant         = "ssh"
	endpointProtocolHTTPSConstant       = "https"
	endpointProtocolHTTPConstant        = "http"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	foreignHostMessageConstant          = "remote is not hosted on %s"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
	requiredValueMessageConstant        = "value required"
	ownerRepositoryMessageConstant      = "expected <owner>/<repository>"
)

// RemoteProtocol enumerates the remote URL flavours understood by the tool.
type RemoteProtocol string

// Supported remote protocols.
const (
	// RemoteProtocolPublic is the anonymous read-only git:// form.
	RemoteProtocolPublic RemoteProtocol = RemoteProtocol("public")
	// RemoteProtocolPrivate is the scp-like ssh form used for pushing.
	RemoteProtocolPrivate RemoteProtocol = RemoteProtocol("private")
	// RemoteProtocolHTTPS is recognised when parsing only.
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// HostingService identifies the hosting service remotes are built for.
type HostingService struct {
	Host    string
	SSHUser string
	WebURL  string
}

// RemoteURL represents a structured hosting-service remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// BuildRemoteURL formats the remote URL for user/project in the requested protocol.
// A trailing .git on project is accepted.
func BuildRemoteURL(service HostingService, user string, project string, protocol RemoteProtocol) (string, error) {
	trimmedUser := strings.TrimSpace(user)
	if len(trimmedUser) == 0 {
		return "", RemoteURLParseError{Input: user, Message: requiredValueMessageConstant}
	}
	trimmedProject := strings.TrimSuffix(strings.TrimSpace(project), gitSuffixConstant)
	if len(trimmedProject) == 0 {
		return "", RemoteURLParseError{Input: project, Message: requiredValueMessageConstant}
	}

	switch protocol {
	case RemoteProtocolPublic:
		return fmt.Sprintf(publicRemoteTemplateConstant, service.Host, trimmedUser, trimmedProject), nil
	case RemoteProtocolPrivate:
		return fmt.Sprintf(privateRemoteTemplateConstant, service.SSHUser, service.Host, trimmedUser, trimmedProject), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteTemplateConstant, service.Host, trimmedUser, trimmedProject), nil
	default:
		return "", UnsupportedProtocolError{Protocol: protocol}
	}
}

// ParseRemoteURL recovers owner, repository and protocol from a remote URL on the hosting service.
func ParseRemoteURL(service HostingService, remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	endpoint, endpointError := transport.NewEndpoint(trimmedRemote)
	if endpointError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: endpointError.Error()}
	}
	if !strings.EqualFold(endpoint.Host, service.Host) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: fmt.Sprintf(foreignHostMessageConstant, service.Host)}
	}

	var protocol RemoteProtocol
	switch endpoint.Protocol {
	case endpointProtocolGitConstant:
		protocol = RemoteProtocolPublic
	case endpointProtocolSSHConstant:
		protocol = RemoteProtocolPrivate
	case endpointProtocolHTTPSConstant, endpointProtocolHTTPConstant:
		protocol = RemoteProtocolHTTPS
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unknownProtocolMessageConstant}
	}

	owner, repository, splitError := splitOwnerAndRepository(strings.Trim(endpoint.Path, pathSeparatorConstant))
	if splitError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteURL{Protocol: protocol, Host: endpoint.Host, Owner: owner, Repository: repository}, nil
}

// SplitOwnerRepository splits "owner/repository" on the first separator.
// The second value is empty when no separator is present.
func SplitOwnerRepository(value string) (string, string) {
	owner, repository, _ := strings.Cut(strings.TrimSpace(value), pathSeparatorConstant)
	return owner, repository
}

// HomePageURL returns the web page of user/project.
func HomePageURL(service HostingService, user string, project string) string {
	return fmt.Sprintf(homePageTemplateConstant, service.webBase(), user, project)
}

// TreePageURL returns the web page of a branch of user/project.
func TreePageURL(service HostingService, user string, project string, branch string) string {
	return fmt.Sprintf(treePageTemplateConstant, service.webBase(), user, project, branch)
}

// NetworkPageURL returns the network graph page of user/project.
func NetworkPageURL(service HostingService, user string, project string) string {
	return fmt.Sprintf(networkPageTemplateConstant, service.webBase(), user, project)
}

func (service HostingService) webBase() string {
	trimmedWebURL := strings.TrimRight(strings.TrimSpace(service.WebURL), pathSeparatorConstant)
	if len(trimmedWebURL) > 0 {
		return trimmedWebURL
	}
	return fmt.Sprintf(defaultWebURLTemplateConstant, service.Host)
}

func splitOwnerAndRepository(path string) (string, string, error) {
	segments := strings.Split(path, pathSeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: ownerRepositoryMessageConstant}
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: ownerRepositoryMessageConstant}
	}
	return segments[0], repository, nil
}
