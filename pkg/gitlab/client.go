package gitlab

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultUserAgent is sent with every GitLab request unless WithUserAgent overrides it.
const DefaultUserAgent = "gitlab-mr-mcp-server/0.1"

const (
	apiPath     = "/api/v4"
	tokenHeader = "PRIVATE-TOKEN"
)

// Operation names, used as metric labels.
const (
	opGetMergeRequest          = "get_merge_request"
	opGetMergeRequestChanges   = "get_merge_request_changes"
	opGetMergeRequestVersions  = "get_merge_request_versions"
	opCreateMergeRequestThread = "create_merge_request_discussion"
	opCreateMergeRequestNote   = "create_merge_request_note"
)

//go:generate mockgen -destination=mock_api_test.go -package=gitlab . MergeRequestAPI

// MergeRequestAPI is the set of GitLab merge request calls exposed as tools.
type MergeRequestAPI interface {
	GetMergeRequest(ctx context.Context, project string, iid uint64) (json.RawMessage, error)
	GetMergeRequestChanges(ctx context.Context, project string, iid uint64) (json.RawMessage, error)
	GetMergeRequestVersions(ctx context.Context, project string, iid uint64) (json.RawMessage, error)
	CreateMergeRequestDiscussion(ctx context.Context, project string, iid uint64, payload *DiscussionPayload) (json.RawMessage, error)
	CreateMergeRequestNote(ctx context.Context, project string, iid uint64, payload *NotePayload) (json.RawMessage, error)
}

// Client talks to the GitLab REST API on behalf of the merge request tools.
// It is immutable after NewClient returns and safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	metrics   *Metrics
}

var _ MergeRequestAPI = (*Client)(nil)

// ClientOption customizes a Client during construction.
type ClientOption func(*Client) error

// WithHTTPClient replaces the pooled HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = hc
		return nil
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) error {
		if strings.TrimSpace(userAgent) != "" {
			c.userAgent = userAgent
		}
		return nil
	}
}

// WithMetrics records every upstream request on m.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithTLS configures a custom CA bundle and/or disables certificate verification,
// for self-managed GitLab instances behind private certificate authorities.
func WithTLS(caCertPath string, insecure bool) ClientOption {
	return func(c *Client) error {
		if caCertPath == "" && !insecure {
			return nil
		}

		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if insecure {
			tlsConfig.InsecureSkipVerify = true //nolint:gosec // opt-in via GITLAB_INSECURE_TLS
		}

		if caCertPath != "" {
			caCert, err := os.ReadFile(caCertPath)
			if err != nil {
				return fmt.Errorf("failed to read CA certificate from %s: %w", caCertPath, err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return fmt.Errorf("failed to parse CA certificate from %s", caCertPath)
			}
			tlsConfig.RootCAs = pool
		}

		transport := cleanhttp.DefaultPooledTransport()
		transport.TLSClientConfig = tlsConfig
		c.http = &http.Client{Transport: transport}
		return nil
	}
}

// NewClient validates the credentials, normalizes baseURL to end in /api/v4
// and prepares a reusable HTTP client. No network activity happens here.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: GITLAB_URL environment variable is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: GITLAB_TOKEN environment variable is empty", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:   NormalizeBaseURL(baseURL),
		token:     token,
		userAgent: DefaultUserAgent,
		http:      cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return c, nil
}

// NormalizeBaseURL strips trailing slashes and makes sure the URL ends in /api/v4.
func NormalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	switch {
	case strings.HasSuffix(trimmed, apiPath):
		return trimmed
	case strings.HasSuffix(trimmed, "/api"):
		return trimmed + "/v4"
	default:
		return trimmed + apiPath
	}
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client, so other GitLab clients can share its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// GetMergeRequest fetches merge request metadata.
func (c *Client) GetMergeRequest(ctx context.Context, project string, iid uint64) (json.RawMessage, error) {
	return c.send(ctx, opGetMergeRequest, http.MethodGet, c.mergeRequestURL(project, iid, ""), nil)
}

// GetMergeRequestChanges fetches the merge request with its file diffs.
func (c *Client) GetMergeRequestChanges(ctx context.Context, project string, iid uint64) (json.RawMessage, error) {
	return c.send(ctx, opGetMergeRequestChanges, http.MethodGet, c.mergeRequestURL(project, iid, "/changes"), nil)
}

// GetMergeRequestVersions lists the diff versions (base/head/start SHAs) of a merge request.
func (c *Client) GetMergeRequestVersions(ctx context.Context, project string, iid uint64) (json.RawMessage, error) {
	return c.send(ctx, opGetMergeRequestVersions, http.MethodGet, c.mergeRequestURL(project, iid, "/versions"), nil)
}

// CreateMergeRequestDiscussion starts a line-anchored discussion thread.
func (c *Client) CreateMergeRequestDiscussion(ctx context.Context, project string, iid uint64, payload *DiscussionPayload) (json.RawMessage, error) {
	return c.send(ctx, opCreateMergeRequestThread, http.MethodPost, c.mergeRequestURL(project, iid, "/discussions"), payload)
}

// CreateMergeRequestNote posts a top-level comment.
func (c *Client) CreateMergeRequestNote(ctx context.Context, project string, iid uint64, payload *NotePayload) (json.RawMessage, error) {
	return c.send(ctx, opCreateMergeRequestNote, http.MethodPost, c.mergeRequestURL(project, iid, "/notes"), payload)
}

// mergeRequestURL escapes project as a single path segment, so "group/sub/project" becomes group%2Fsub%2Fproject.
func (c *Client) mergeRequestURL(project string, iid uint64, suffix string) string {
	return fmt.Sprintf("%s/projects/%s/merge_requests/%d%s", c.baseURL, escapeSegment(project), iid, suffix)
}

// escapeSegment percent-encodes every byte outside A-Z a-z 0-9 - _ . ~
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Client) send(ctx context.Context, operation, method, endpoint string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, Internal("failed to encode GitLab request body", err.Error())
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, Internal("failed to build GitLab request", err.Error())
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observeUpstream(method, operation, "error")
		return nil, Internal("failed to reach GitLab", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.observeUpstream(method, operation, strconv.Itoa(resp.StatusCode))
	return handleResponse(resp)
}

func handleResponse(resp *http.Response) (json.RawMessage, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Internal("failed to read GitLab response body", err.Error())
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var value json.RawMessage
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, Internal("GitLab returned invalid JSON", err.Error())
		}
		return value, nil
	}

	return nil, ErrorForStatus(resp.StatusCode, data)
}

// ErrorForStatus maps a non-2xx GitLab response onto the error taxonomy.
// The detail is the parsed JSON body, the raw body text, or the status reason phrase for an empty body.
func ErrorForStatus(status int, body []byte) *Error {
	var detail any
	switch {
	case len(body) == 0:
		detail = reasonPhrase(status)
	case json.Valid(body):
		detail = json.RawMessage(body)
	default:
		detail = string(body)
	}

	switch status {
	case http.StatusNotFound:
		return InvalidParams("GitLab resource not found", detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return InvalidRequest("GitLab authentication failed", detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return InvalidParams("GitLab reported a validation error", detail)
	default:
		return Internal("GitLab request failed", detail)
	}
}

func reasonPhrase(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Unknown GitLab error"
}
