package githubauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names consulted when git configuration carries no credentials.
const (
	EnvGitHubUser     = "GITHUB_USER"
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

// Credential sources.
const (
	SourceGitConfig   = Source("git config")
	SourceEnvironment = Source("environment")
	SourceHostsFile   = Source("hosts file")
)

const (
	userConfigKeyConstant               = "github.user"
	tokenConfigKeyConstant              = "github.token"
	readHostsFileErrorTemplateConstant  = "read credentials file %s: %w"
	parseHostsFileErrorTemplateConstant = "parse credentials file %s: %w"
	configReaderMissingMessageConstant  = "credentials resolver configuration reader not configured"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ErrConfigurationReaderNotConfigured indicates the resolver was constructed without a git configuration reader.
var ErrConfigurationReaderNotConfigured = errors.New(configReaderMissingMessageConstant)

// Source names where credentials were found.
type Source string

// Credentials identify the hosting-service account used for authenticated requests.
type Credentials struct {
	User   string
	Token  string
	Source Source
}

// Complete reports whether both user and token are present.
func (credentials Credentials) Complete() bool {
	return len(credentials.User) > 0 && len(credentials.Token) > 0
}

// ConfigurationReader reads git configuration values.
type ConfigurationReader interface {
	ConfigValue(executionContext context.Context, key string) (string, error)
}

// EnvironmentLookup mirrors os.LookupEnv.
type EnvironmentLookup func(key string) (string, bool)

// ResolverOptions configure a Resolver.
type ResolverOptions struct {
	Host              string
	HostsFilePath     string
	EnvironmentLookup EnvironmentLookup
	ReadFile          func(path string) ([]byte, error)
}

// Resolver locates credentials in git configuration, the environment and the gh hosts file, in that order.
type Resolver struct {
	configurationReader ConfigurationReader
	options             ResolverOptions
}

type hostEntry struct {
	User       string `yaml:"user"`
	OAuthToken string `yaml:"oauth_token"`
}

// NewResolver constructs a Resolver.
func NewResolver(configurationReader ConfigurationReader, options ResolverOptions) (*Resolver, error) {
	if configurationReader == nil {
		return nil, ErrConfigurationReaderNotConfigured
	}
	if options.EnvironmentLookup == nil {
		options.EnvironmentLookup = os.LookupEnv
	}
	if options.ReadFile == nil {
		options.ReadFile = os.ReadFile
	}
	return &Resolver{configurationReader: configurationReader, options: options}, nil
}

// Resolve returns the first complete set of credentials. The boolean is false when none is found.
func (resolver *Resolver) Resolve(executionContext context.Context) (Credentials, bool, error) {
	user, userError := resolver.configurationReader.ConfigValue(executionContext, userConfigKeyConstant)
	if userError != nil {
		return Credentials{}, false, userError
	}
	token, tokenError := resolver.configurationReader.ConfigValue(executionContext, tokenConfigKeyConstant)
	if tokenError != nil {
		return Credentials{}, false, tokenError
	}
	fromGitConfig := Credentials{User: strings.TrimSpace(user), Token: strings.TrimSpace(token), Source: SourceGitConfig}
	if fromGitConfig.Complete() {
		return fromGitConfig, true, nil
	}

	fromEnvironment := Credentials{Source: SourceEnvironment}
	fromEnvironment.User, _ = resolver.lookup(EnvGitHubUser)
	if len(fromEnvironment.User) == 0 {
		fromEnvironment.User = fromGitConfig.User
	}
	fromEnvironment.Token, _ = resolver.resolveToken()
	if fromEnvironment.Complete() {
		return fromEnvironment, true, nil
	}

	fromHostsFile, hostsError := resolver.readHostsFile()
	if hostsError != nil {
		return Credentials{}, false, hostsError
	}
	if fromHostsFile.Complete() {
		return fromHostsFile, true, nil
	}
	return Credentials{}, false, nil
}

func (resolver *Resolver) resolveToken() (string, bool) {
	for _, key := range tokenPreference {
		if value, found := resolver.lookup(key); found {
			return value, true
		}
	}
	return "", false
}

func (resolver *Resolver) lookup(key string) (string, bool) {
	value, exists := resolver.options.EnvironmentLookup(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}

func (resolver *Resolver) readHostsFile() (Credentials, error) {
	hostsFilePath := strings.TrimSpace(resolver.options.HostsFilePath)
	if len(hostsFilePath) == 0 {
		return Credentials{}, nil
	}
	contents, readError := resolver.options.ReadFile(hostsFilePath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf(readHostsFileErrorTemplateConstant, hostsFilePath, readError)
	}

	hosts := map[string]hostEntry{}
	if unmarshalError := yaml.Unmarshal(contents, &hosts); unmarshalError != nil {
		return Credentials{}, fmt.Errorf(parseHostsFileErrorTemplateConstant, hostsFilePath, unmarshalError)
	}
	entry, found := hosts[resolver.options.Host]
	if !found {
		return Credentials{}, nil
	}
	return Credentials{User: strings.TrimSpace(entry.User), Token: strings.TrimSpace(entry.OAuthToken), Source: SourceHostsFile}, nil
}
