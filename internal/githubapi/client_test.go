package githubapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/github-gem/internal/githubapi"
)

const testSearchResponseConstant = `{"repositories":[` +
	`{"name":"github-gem","size":300,"followers":499,"username":"defunkt","language":"Ruby","fork":false,"id":"repo-1653","type":"repo","pushed":"2008-12-04T03:14:00Z","forks":59,"description":"The official ` + "`github`" + ` command line helper for simplifying your GitHub experience.","score":3.4152448,"created":"2008-02-28T09:35:34Z"},` +
	`{"name":"github-gem-builder","size":76,"followers":26,"username":"pjhyett","language":"Ruby","fork":false,"id":"repo-67489","type":"repo","pushed":"2008-11-04T04:54:57Z","forks":3,"description":"The scripts used to build RubyGems on GitHub","score":3.4152448,"created":"2008-10-24T22:29:32Z"}` +
	`]}`

func newTestClient(testInstance *testing.T, handler http.HandlerFunc) *githubapi.Client {
	testInstance.Helper()
	server := httptest.NewServer(handler)
	testInstance.Cleanup(server.Close)

	client, creationError := githubapi.NewClient(githubapi.Options{BaseURL: server.URL + "/"}, zap.NewNop())
	require.NoError(testInstance, creationError)
	return client
}

func TestNewClientRequiresBaseURL(testInstance *testing.T) {
	client, creationError := githubapi.NewClient(githubapi.Options{}, nil)
	require.ErrorIs(testInstance, creationError, githubapi.ErrBaseURLNotConfigured)
	require.Nil(testInstance, client)
}

func TestSearchRepositories(testInstance *testing.T) {
	var requestedPath string
	client := newTestClient(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.EscapedPath()
		_, _ = responseWriter.Write([]byte(testSearchResponseConstant))
	})

	repositories, searchError := client.SearchRepositories(context.Background(), []string{"github-gem"})
	require.NoError(testInstance, searchError)
	require.Equal(testInstance, "/api/v1/json/search/github-gem", requestedPath)
	require.Len(testInstance, repositories, 2)
	require.Equal(testInstance, "defunkt/github-gem", repositories[0].FullName())
	require.Equal(testInstance, "pjhyett/github-gem-builder", repositories[1].FullName())
	require.Equal(testInstance, 499, repositories[0].Followers)
	require.Equal(testInstance, "The scripts used to build RubyGems on GitHub", repositories[1].Description)
}

func TestSearchRepositoriesJoinsTerms(testInstance *testing.T) {
	var requestedPath string
	client := newTestClient(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.EscapedPath()
		_, _ = responseWriter.Write([]byte(`{"repositories":[]}`))
	})

	repositories, searchError := client.SearchRepositories(context.Background(), []string{"command", "line"})
	require.NoError(testInstance, searchError)
	require.Empty(testInstance, repositories)
	require.Equal(testInstance, "/api/v1/json/search/command%20line", requestedPath)
}

func TestSearchRepositoriesErrors(testInstance *testing.T) {
	testCases := []struct {
		name          string
		terms         []string
		status        int
		body          string
		expectedError any
	}{
		{name: "empty_query", terms: []string{" "}, expectedError: githubapi.InvalidInputError{}},
		{name: "server_error", terms: []string{"x"}, status: http.StatusInternalServerError, expectedError: githubapi.OperationError{}},
		{name: "malformed_body", terms: []string{"x"}, status: http.StatusOK, body: "{", expectedError: githubapi.ResponseDecodingError{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client := newTestClient(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
				responseWriter.WriteHeader(testCase.status)
				_, _ = responseWriter.Write([]byte(testCase.body))
			})
			_, searchError := client.SearchRepositories(context.Background(), testCase.terms)
			require.Error(testInstance, searchError)
			require.IsType(testInstance, testCase.expectedError, searchError)
		})
	}
}

func TestListNetworkMembers(testInstance *testing.T) {
	var requestedPath string
	client := newTestClient(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.Path
		_, _ = responseWriter.Write([]byte(`{"network":[{"owner":"defunkt","name":"github-gem"},{"owner":"drnic","name":"github-gem"}]}`))
	})

	members, listError := client.ListNetworkMembers(context.Background(), "defunkt", "github-gem")
	require.NoError(testInstance, listError)
	require.Equal(testInstance, "/api/v1/json/defunkt/github-gem/network", requestedPath)
	require.Equal(testInstance, []githubapi.NetworkMember{{Owner: "defunkt", Name: "github-gem"}, {Owner: "drnic", Name: "github-gem"}}, members)
}

func TestForkRepositoryPostsCredentials(testInstance *testing.T) {
	var requestedPath string
	var requestedMethod string
	var login string
	var token string
	var parseError error
	client := newTestClient(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.Path
		requestedMethod = request.Method
		parseError = request.ParseMultipartForm(1 << 20)
		login = request.FormValue("login")
		token = request.FormValue("token")
		responseWriter.WriteHeader(http.StatusOK)
	})

	forkError := client.ForkRepository(context.Background(), "defunkt", "github-gem", githubapi.Credentials{Login: "drnic", Token: "MY_GITHUB_TOKEN"})
	require.NoError(testInstance, forkError)
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, http.MethodPost, requestedMethod)
	require.Equal(testInstance, "/defunkt/github-gem/fork", requestedPath)
	require.Equal(testInstance, "drnic", login)
	require.Equal(testInstance, "MY_GITHUB_TOKEN", token)
}

func TestForkRepositoryReportsRejection(testInstance *testing.T) {
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, creationError := githubapi.NewClient(githubapi.Options{BaseURL: server.URL}, zap.New(observerCore))
	require.NoError(testInstance, creationError)

	forkError := client.ForkRepository(context.Background(), "defunkt", "github-gem", githubapi.Credentials{Login: "drnic", Token: "bad"})
	var statusError githubapi.UnexpectedStatusError
	require.ErrorAs(testInstance, forkError, &statusError)
	require.Equal(testInstance, http.StatusUnauthorized, statusError.StatusCode)
	require.Equal(testInstance, 1, observerLogs.Len())
}
