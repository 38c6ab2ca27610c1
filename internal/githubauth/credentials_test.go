package githubauth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/github-gem/internal/githubauth"
)

type mapConfigurationReader map[string]string

func (reader mapConfigurationReader) ConfigValue(executionContext context.Context, key string) (string, error) {
	return reader[key], nil
}

type failingConfigurationReader struct{}

func (failingConfigurationReader) ConfigValue(context.Context, string) (string, error) {
	return "", errors.New("git unavailable")
}

func environmentFrom(values map[string]string) githubauth.EnvironmentLookup {
	return func(key string) (string, bool) {
		value, found := values[key]
		return value, found
	}
}

func writeHostsFile(testInstance *testing.T, contents string) string {
	testInstance.Helper()
	hostsFilePath := filepath.Join(testInstance.TempDir(), "hosts.yml")
	require.NoError(testInstance, os.WriteFile(hostsFilePath, []byte(contents), 0o600))
	return hostsFilePath
}

func TestResolverPrecedence(testInstance *testing.T) {
	hostsFilePath := writeHostsFile(testInstance, "github.com:\n    user: hostsuser\n    oauth_token: hoststoken\n")

	testCases := []struct {
		name          string
		gitConfig     mapConfigurationReader
		environment   map[string]string
		hostsFilePath string
		expected      githubauth.Credentials
		expectFound   bool
	}{
		{
			name:        "git_config",
			gitConfig:   mapConfigurationReader{"github.user": "drnic", "github.token": "MY_GITHUB_TOKEN"},
			environment: map[string]string{"GH_TOKEN": "ignored"},
			expected:    githubauth.Credentials{User: "drnic", Token: "MY_GITHUB_TOKEN", Source: githubauth.SourceGitConfig},
			expectFound: true,
		},
		{
			name:        "environment_token_with_git_user",
			gitConfig:   mapConfigurationReader{"github.user": "drnic"},
			environment: map[string]string{"GITHUB_TOKEN": " envtoken "},
			expected:    githubauth.Credentials{User: "drnic", Token: "envtoken", Source: githubauth.SourceEnvironment},
			expectFound: true,
		},
		{
			name:        "environment_prefers_gh_token",
			gitConfig:   mapConfigurationReader{},
			environment: map[string]string{"GITHUB_USER": "envuser", "GH_TOKEN": "first", "GITHUB_API_TOKEN": "third"},
			expected:    githubauth.Credentials{User: "envuser", Token: "first", Source: githubauth.SourceEnvironment},
			expectFound: true,
		},
		{
			name:          "hosts_file",
			gitConfig:     mapConfigurationReader{},
			environment:   map[string]string{},
			hostsFilePath: hostsFilePath,
			expected:      githubauth.Credentials{User: "hostsuser", Token: "hoststoken", Source: githubauth.SourceHostsFile},
			expectFound:   true,
		},
		{
			name:          "missing_hosts_file",
			gitConfig:     mapConfigurationReader{},
			environment:   map[string]string{},
			hostsFilePath: filepath.Join(testInstance.TempDir(), "absent.yml"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver, creationError := githubauth.NewResolver(testCase.gitConfig, githubauth.ResolverOptions{
				Host:              "github.com",
				HostsFilePath:     testCase.hostsFilePath,
				EnvironmentLookup: environmentFrom(testCase.environment),
			})
			require.NoError(testInstance, creationError)

			credentials, found, resolveError := resolver.Resolve(context.Background())
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectFound, found)
			if testCase.expectFound {
				require.Equal(testInstance, testCase.expected, credentials)
			}
		})
	}
}

func TestResolverReportsMalformedHostsFile(testInstance *testing.T) {
	resolver, creationError := githubauth.NewResolver(mapConfigurationReader{}, githubauth.ResolverOptions{
		Host:              "github.com",
		HostsFilePath:     writeHostsFile(testInstance, "github.com: [unterminated"),
		EnvironmentLookup: environmentFrom(nil),
	})
	require.NoError(testInstance, creationError)

	_, found, resolveError := resolver.Resolve(context.Background())
	require.Error(testInstance, resolveError)
	require.False(testInstance, found)
}

func TestResolverPropagatesGitFailures(testInstance *testing.T) {
	resolver, creationError := githubauth.NewResolver(failingConfigurationReader{}, githubauth.ResolverOptions{})
	require.NoError(testInstance, creationError)

	_, _, resolveError := resolver.Resolve(context.Background())
	require.EqualError(testInstance, resolveError, "git unavailable")
}

func TestNewResolverRequiresConfigurationReader(testInstance *testing.T) {
	resolver, creationError := githubauth.NewResolver(nil, githubauth.ResolverOptions{})
	require.ErrorIs(testInstance, creationError, githubauth.ErrConfigurationReaderNotConfigured)
	require.Nil(testInstance, resolver)
}
