package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint                  = "https://huggingface.co"
	DefaultTimeout                   = 30 * time.Second
	defaultUserAgentConstant         = "hub-verify"
	modelsAPIPathTemplateConstant    = "%s/api/models/%s"
	resolvePathTemplateConstant      = "%s/%s/resolve/%s/%s"
	authorizationHeaderConstant      = "Authorization"
	bearerTokenTemplateConstant      = "Bearer %s"
	userAgentHeaderConstant          = "User-Agent"
	errorCodeHeaderConstant          = "X-Error-Code"
	repoNotFoundErrorCodeConstant    = "RepoNotFound"
	gatedRepoErrorCodeConstant       = "GatedRepo"
	pathSeparatorConstant            = "/"
	endpointFieldNameConstant        = "endpoint"
	repositoryFieldNameConstant      = "repo_id"
	filenameFieldNameConstant        = "filename"
	revisionFieldNameConstant        = "revision"
	requiredValueMessageConstant     = "value required"
	invalidEndpointMessageConstant   = "absolute http(s) URL required"
	invalidRepositoryMessageConstant = "expected namespace/name"
	httpSchemeConstant               = "http"
	httpsSchemeConstant              = "https"
	redirectStatusLowerBoundConstant = 300
	redirectStatusUpperBoundConstant = 399
	successStatusLowerBoundConstant  = 200
	successStatusUpperBoundConstant  = 299
)

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ClientConfiguration describes how to reach the hub.
type ClientConfiguration struct {
	Endpoint  string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client answers repository and file existence questions against the hub REST API.
type Client struct {
	endpoint   string
	token      string
	userAgent  string
	httpClient HTTPClient
}

// NewClient validates the configuration and constructs a Client. A nil
// httpClient selects an *http.Client that does not follow redirects, so
// LFS-backed files resolve without downloading from the CDN.
func NewClient(httpClient HTTPClient, configuration ClientConfiguration) (*Client, error) {
	endpoint := strings.TrimSpace(configuration.Endpoint)
	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}
	endpoint = strings.TrimRight(endpoint, pathSeparatorConstant)

	parsedEndpoint, parseError := url.Parse(endpoint)
	if parseError != nil || len(parsedEndpoint.Host) == 0 || (parsedEndpoint.Scheme != httpSchemeConstant && parsedEndpoint.Scheme != httpsSchemeConstant) {
		return nil, InvalidInputError{FieldName: endpointFieldNameConstant, Message: invalidEndpointMessageConstant}
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(request *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	userAgent := strings.TrimSpace(configuration.UserAgent)
	if len(userAgent) == 0 {
		userAgent = defaultUserAgentConstant
	}

	return &Client{
		endpoint:   endpoint,
		token:      strings.TrimSpace(configuration.Token),
		userAgent:  userAgent,
		httpClient: httpClient,
	}, nil
}

// Endpoint returns the normalized hub base URL.
func (client *Client) Endpoint() string {
	return client.endpoint
}

// RepoExists reports whether the model repository is visible to the client.
func (client *Client) RepoExists(executionContext context.Context, repositoryIdentifier string) (bool, error) {
	escapedRepository, repositoryError := escapeRepositoryIdentifier(repositoryIdentifier)
	if repositoryError != nil {
		return false, repositoryError
	}

	requestURL := fmt.Sprintf(modelsAPIPathTemplateConstant, client.endpoint, escapedRepository)
	statusCode, errorCode, requestError := client.execute(executionContext, RepoExistsOperationName, http.MethodGet, requestURL)
	if requestError != nil {
		return false, requestError
	}

	switch {
	case isSuccessStatus(statusCode):
		return true, nil
	case statusCode == http.StatusNotFound:
		return false, nil
	case statusCode == http.StatusUnauthorized && errorCode == repoNotFoundErrorCodeConstant:
		return false, nil
	case statusCode == http.StatusForbidden && errorCode == gatedRepoErrorCodeConstant:
		return true, nil
	default:
		return false, StatusError{Operation: RepoExistsOperationName, StatusCode: statusCode, ErrorCode: errorCode}
	}
}

// FileExists reports whether filename exists at revision in the repository.
func (client *Client) FileExists(executionContext context.Context, repositoryIdentifier string, filename string, revision string) (bool, error) {
	escapedRepository, repositoryError := escapeRepositoryIdentifier(repositoryIdentifier)
	if repositoryError != nil {
		return false, repositoryError
	}

	trimmedFilename := strings.Trim(strings.TrimSpace(filename), pathSeparatorConstant)
	if len(trimmedFilename) == 0 {
		return false, InvalidInputError{FieldName: filenameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedRevision := strings.TrimSpace(revision)
	if len(trimmedRevision) == 0 {
		return false, InvalidInputError{FieldName: revisionFieldNameConstant, Message: requiredValueMessageConstant}
	}

	requestURL := fmt.Sprintf(
		resolvePathTemplateConstant,
		client.endpoint,
		escapedRepository,
		url.PathEscape(trimmedRevision),
		escapePathSegments(trimmedFilename),
	)
	statusCode, errorCode, requestError := client.execute(executionContext, FileExistsOperationName, http.MethodHead, requestURL)
	if requestError != nil {
		return false, requestError
	}

	switch {
	case isSuccessStatus(statusCode), isRedirectStatus(statusCode):
		return true, nil
	case statusCode == http.StatusNotFound:
		return false, nil
	case statusCode == http.StatusUnauthorized && errorCode == repoNotFoundErrorCodeConstant:
		return false, nil
	default:
		return false, StatusError{Operation: FileExistsOperationName, StatusCode: statusCode, ErrorCode: errorCode}
	}
}

func (client *Client) execute(executionContext context.Context, operation OperationName, method string, requestURL string) (int, string, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	request, requestError := http.NewRequestWithContext(executionContext, method, requestURL, nil)
	if requestError != nil {
		return 0, "", fmt.Errorf(requestCreationErrorTemplateConstant, operation, requestError)
	}

	request.Header.Set(userAgentHeaderConstant, client.userAgent)
	if len(client.token) > 0 {
		request.Header.Set(authorizationHeaderConstant, fmt.Sprintf(bearerTokenTemplateConstant, client.token))
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return 0, "", fmt.Errorf(transportErrorTemplateConstant, operation, ErrNetwork, responseError)
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	return response.StatusCode, strings.TrimSpace(response.Header.Get(errorCodeHeaderConstant)), nil
}

func escapeRepositoryIdentifier(repositoryIdentifier string) (string, error) {
	trimmedIdentifier := strings.TrimSpace(repositoryIdentifier)
	if len(trimmedIdentifier) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	segments := strings.Split(trimmedIdentifier, pathSeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 || len(segments[1]) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: invalidRepositoryMessageConstant}
	}

	return escapePathSegments(trimmedIdentifier), nil
}

func escapePathSegments(path string) string {
	segments := strings.Split(path, pathSeparatorConstant)
	for segmentIndex := range segments {
		segments[segmentIndex] = url.PathEscape(segments[segmentIndex])
	}
	return strings.Join(segments, pathSeparatorConstant)
}

func isSuccessStatus(statusCode int) bool {
	return statusCode >= successStatusLowerBoundConstant && statusCode <= successStatusUpperBoundConstant
}

func isRedirectStatus(statusCode int) bool {
	return statusCode >= redirectStatusLowerBoundConstant && statusCode <= redirectStatusUpperBoundConstant
}
