package shared

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/github-gem/internal/gitrepo"
)

const (
	defaultHostConstant              = "github.com"
	defaultSSHUserConstant           = "git"
	defaultWebURLConstant            = "https://github.com"
	defaultAPIURLConstant            = "http://github.com"
	defaultHTTPTimeoutConstant       = 30 * time.Second
	defaultForkDelayConstant         = 3 * time.Second
	ghConfigurationDirectoryConstant = "gh"
	ghHostsFileNameConstant          = "hosts.yml"
)

// HostingConfiguration describes the hosting service and command defaults.
type HostingConfiguration struct {
	Host            string        `mapstructure:"host"`
	SSHUser         string        `mapstructure:"ssh_user"`
	WebURL          string        `mapstructure:"web_url"`
	APIURL          string        `mapstructure:"api_url"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	DefaultRemote   string        `mapstructure:"default_remote"`
	DefaultBranch   string        `mapstructure:"default_branch"`
	ForkDelay       time.Duration `mapstructure:"fork_delay"`
	CredentialsFile string        `mapstructure:"credentials_file"`
}

// BrowserConfiguration selects the command used to open web pages.
type BrowserConfiguration struct {
	Command string `mapstructure:"command"`
}

// Configuration is the configuration consumed by command packages.
type Configuration struct {
	GitHub  HostingConfiguration `mapstructure:"github"`
	Browser BrowserConfiguration `mapstructure:"browser"`
}

// ConfigurationProvider yields the active configuration.
type ConfigurationProvider func() Configuration

// DefaultConfiguration returns the built-in configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		GitHub: HostingConfiguration{
			Host:          defaultHostConstant,
			SSHUser:       defaultSSHUserConstant,
			WebURL:        defaultWebURLConstant,
			APIURL:        defaultAPIURLConstant,
			HTTPTimeout:   defaultHTTPTimeoutConstant,
			DefaultRemote: OriginRemoteNameConstant,
			DefaultBranch: DefaultBranchNameConstant,
			ForkDelay:     defaultForkDelayConstant,
		},
	}
}

// Sanitize trims values and restores defaults for empty fields.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration().GitHub
	sanitized := configuration
	sanitized.GitHub.Host = valueOrDefault(configuration.GitHub.Host, defaults.Host)
	sanitized.GitHub.SSHUser = valueOrDefault(configuration.GitHub.SSHUser, defaults.SSHUser)
	sanitized.GitHub.WebURL = valueOrDefault(configuration.GitHub.WebURL, defaults.WebURL)
	sanitized.GitHub.APIURL = valueOrDefault(configuration.GitHub.APIURL, defaults.APIURL)
	sanitized.GitHub.DefaultRemote = valueOrDefault(configuration.GitHub.DefaultRemote, defaults.DefaultRemote)
	sanitized.GitHub.DefaultBranch = valueOrDefault(configuration.GitHub.DefaultBranch, defaults.DefaultBranch)
	sanitized.GitHub.CredentialsFile = strings.TrimSpace(configuration.GitHub.CredentialsFile)
	if configuration.GitHub.HTTPTimeout <= 0 {
		sanitized.GitHub.HTTPTimeout = defaults.HTTPTimeout
	}
	if configuration.GitHub.ForkDelay < 0 {
		sanitized.GitHub.ForkDelay = 0
	}
	sanitized.Browser.Command = strings.TrimSpace(configuration.Browser.Command)
	return sanitized
}

// Service returns the hosting service used to build and parse remote URLs.
func (configuration HostingConfiguration) Service() gitrepo.HostingService {
	return gitrepo.HostingService{Host: configuration.Host, SSHUser: configuration.SSHUser, WebURL: configuration.WebURL}
}

// ResolveConfiguration calls provider, or returns the defaults when provider is nil.
func ResolveConfiguration(provider ConfigurationProvider) Configuration {
	if provider == nil {
		return DefaultConfiguration()
	}
	return provider().Sanitize()
}

// DefaultCredentialsFile returns the gh hosts file beneath configDirectory.
func DefaultCredentialsFile(configDirectory string) string {
	if len(strings.TrimSpace(configDirectory)) == 0 {
		return ""
	}
	return filepath.Join(configDirectory, ghConfigurationDirectoryConstant, ghHostsFileNameConstant)
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
