package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	searchEndpointTemplateConstant          = "%s/api/v1/json/search/%s"
	networkEndpointTemplateConstant         = "%s/api/v1/json/%s/%s/network"
	forkEndpointTemplateConstant            = "%s/%s/%s/fork"
	loginFormFieldConstant                  = "login"
	tokenFormFieldConstant                  = "token"
	queryFieldNameConstant                  = "query"
	ownerFieldNameConstant                  = "owner"
	repositoryFieldNameConstant             = "repository"
	loginFieldNameConstant                  = "login"
	requiredValueMessageConstant            = "value required"
	baseURLNotConfiguredMessageConstant     = "hosting api base url not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	unexpectedStatusTemplateConstant        = "unexpected status %d from %s"
	queryTermSeparatorConstant              = " "
	urlPathSeparatorConstant                = "/"
	requestLogMessageConstant               = "hosting api request"
	requestMethodFieldConstant              = "method"
	requestURLFieldConstant                 = "url"
	responseStatusFieldConstant             = "status"
	searchOperationNameConstant             = OperationName("SearchRepositories")
	networkOperationNameConstant            = OperationName("ListNetworkMembers")
	forkOperationNameConstant               = OperationName("ForkRepository")
)

// OperationName describes a named hosting API workflow supported by the client.
type OperationName string

// Repository is a single search result.
type Repository struct {
	Name        string  `json:"name"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Language    string  `json:"language"`
	Size        int     `json:"size"`
	Followers   int     `json:"followers"`
	Forks       int     `json:"forks"`
	Fork        bool    `json:"fork"`
	Score       float64 `json:"score"`
	Pushed      string  `json:"pushed"`
	Created     string  `json:"created"`
}

// FullName returns "username/name".
func (repository Repository) FullName() string {
	return repository.Username + urlPathSeparatorConstant + repository.Name
}

// NetworkMember is one repository in a project's fork network.
type NetworkMember struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Credentials authenticate mutating requests.
type Credentials struct {
	Login string
	Token string
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the hosting service's JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// ErrBaseURLNotConfigured indicates the client was constructed without an API base URL.
var ErrBaseURLNotConfigured = errors.New(baseURLNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps transport and status failures for API operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// UnexpectedStatusError reports a non-success HTTP status.
type UnexpectedStatusError struct {
	StatusCode int
	URL        string
}

// Error describes the status.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusTemplateConstant, statusError.StatusCode, statusError.URL)
}

// NewClient constructs an API client. A nil logger disables request logging.
func NewClient(options Options, logger *zap.Logger) (*Client, error) {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), urlPathSeparatorConstant)
	if len(trimmedBaseURL) == 0 {
		return nil, ErrBaseURLNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: options.Timeout},
		baseURL:    trimmedBaseURL,
		logger:     logger,
	}, nil
}

// SearchRepositories queries the repository index. Terms are joined with spaces.
func (client *Client) SearchRepositories(executionContext context.Context, terms []string) ([]Repository, error) {
	query := strings.TrimSpace(strings.Join(terms, queryTermSeparatorConstant))
	if len(query) == 0 {
		return nil, InvalidInputError{FieldName: queryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint := fmt.Sprintf(searchEndpointTemplateConstant, client.baseURL, url.PathEscape(query))
	var response struct {
		Repositories []Repository `json:"repositories"`
	}
	if requestError := client.getJSON(executionContext, searchOperationNameConstant, endpoint, &response); requestError != nil {
		return nil, requestError
	}
	if response.Repositories == nil {
		return []Repository{}, nil
	}
	return response.Repositories, nil
}

// ListNetworkMembers returns the repositories in the fork network of owner/repository.
func (client *Client) ListNetworkMembers(executionContext context.Context, owner string, repository string) ([]NetworkMember, error) {
	if len(strings.TrimSpace(owner)) == 0 {
		return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(repository)) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint := fmt.Sprintf(networkEndpointTemplateConstant, client.baseURL, url.PathEscape(owner), url.PathEscape(repository))
	var response struct {
		Network []NetworkMember `json:"network"`
	}
	if requestError := client.getJSON(executionContext, networkOperationNameConstant, endpoint, &response); requestError != nil {
		return nil, requestError
	}
	if response.Network == nil {
		return []NetworkMember{}, nil
	}
	return response.Network, nil
}

// ForkRepository asks the hosting service to fork owner/repository into the authenticated account.
func (client *Client) ForkRepository(executionContext context.Context, owner string, repository string, credentials Credentials) error {
	if len(strings.TrimSpace(owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(repository)) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(credentials.Login)) == 0 {
		return InvalidInputError{FieldName: loginFieldNameConstant, Message: requiredValueMessageConstant}
	}

	var body bytes.Buffer
	formWriter := multipart.NewWriter(&body)
	for _, field := range [][2]string{{loginFormFieldConstant, credentials.Login}, {tokenFormFieldConstant, credentials.Token}} {
		if writeError := formWriter.WriteField(field[0], field[1]); writeError != nil {
			return OperationError{Operation: forkOperationNameConstant, Cause: writeError}
		}
	}
	if closeError := formWriter.Close(); closeError != nil {
		return OperationError{Operation: forkOperationNameConstant, Cause: closeError}
	}

	endpoint := fmt.Sprintf(forkEndpointTemplateConstant, client.baseURL, url.PathEscape(owner), url.PathEscape(repository))
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, endpoint, &body)
	if requestError != nil {
		return OperationError{Operation: forkOperationNameConstant, Cause: requestError}
	}
	request.Header.Set("Content-Type", formWriter.FormDataContentType())

	response, responseError := client.do(request)
	if responseError != nil {
		return OperationError{Operation: forkOperationNameConstant, Cause: responseError}
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode >= http.StatusBadRequest {
		return OperationError{Operation: forkOperationNameConstant, Cause: UnexpectedStatusError{StatusCode: response.StatusCode, URL: endpoint}}
	}
	return nil
}

func (client *Client) getJSON(executionContext context.Context, operation OperationName, endpoint string, target any) error {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, endpoint, nil)
	if requestError != nil {
		return OperationError{Operation: operation, Cause: requestError}
	}

	response, responseError := client.do(request)
	if responseError != nil {
		return OperationError{Operation: operation, Cause: responseError}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return OperationError{Operation: operation, Cause: UnexpectedStatusError{StatusCode: response.StatusCode, URL: endpoint}}
	}
	if decodingError := json.NewDecoder(response.Body).Decode(target); decodingError != nil {
		return ResponseDecodingError{Operation: operation, Cause: decodingError}
	}
	return nil
}

func (client *Client) do(request *http.Request) (*http.Response, error) {
	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		client.logger.Debug(requestLogMessageConstant,
			zap.String(requestMethodFieldConstant, request.Method),
			zap.String(requestURLFieldConstant, request.URL.String()),
			zap.Error(responseError),
		)
		return nil, responseError
	}
	client.logger.Debug(requestLogMessageConstant,
		zap.String(requestMethodFieldConstant, request.Method),
		zap.String(requestURLFieldConstant, request.URL.String()),
		zap.Int(responseStatusFieldConstant, response.StatusCode),
	)
	return response, nil
}
