// Package cms talks to the Sanity content lake: the query API used by the
// data layer, the mutate API used by the studio, and the image CDN.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiHost    = "api.sanity.io"
	apiCDNHost = "apicdn.sanity.io"
)

// Client is a configured handle to one project's dataset.
type Client struct {
	ProjectID  string
	Dataset    string
	APIVersion string

	token      string
	useCDN     bool
	baseURL    string
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the API token sent as a bearer credential. Authenticated
// reads always go to the live API rather than the CDN.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithCDN toggles the API CDN for unauthenticated reads.
func WithCDN(enabled bool) Option {
	return func(c *Client) { c.useCDN = enabled }
}

// WithBaseURL replaces the computed API root, e.g. with a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// NewClient creates a client for projectID/dataset pinned to apiVersion.
func NewClient(projectID, dataset, apiVersion string, opts ...Option) *Client {
	c := &Client{
		ProjectID:  projectID,
		Dataset:    dataset,
		APIVersion: strings.TrimPrefix(apiVersion, "v"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated returns a copy of the client that sends token.
func (c *Client) Authenticated(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// HasToken reports whether the client sends credentials.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) root() string {
	if c.baseURL != "" {
		return c.baseURL + "/v" + c.APIVersion
	}
	host := apiHost
	if c.useCDN && c.token == "" {
		host = apiCDNHost
	}
	return fmt.Sprintf("https://%s.%s/v%s", c.ProjectID, host, c.APIVersion)
}

// APIError is a non-2xx answer from the content lake.
type APIError struct {
	StatusCode int
	Op         string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sanity %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

// Fetch runs q and decodes its result into out.
func (c *Client) Fetch(ctx context.Context, q Query, out any) error {
	params := url.Values{}
	params.Set("query", q.GROQ)
	for name, value := range q.Params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		params.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.root(), url.PathEscape(c.Dataset), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Op: "query " + q.Name, Body: string(body)}
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(result.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", q.Name, err)
	}
	return nil
}

// Mutate applies mutations in one transaction. It needs a write token.
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResult, error) {
	bodyBytes, err := json.Marshal(mutateRequest{Mutations: mutations})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true&visibility=sync", c.root(), url.PathEscape(c.Dataset))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Op: "mutate", Body: string(respBody)}
	}

	var result MutateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode mutate response: %w", err)
	}
	return &result, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
