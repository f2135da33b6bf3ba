package webamon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// FreeBaseURL is the unauthenticated endpoint (20 queries/day).
	FreeBaseURL = "https://search.webamon.com"
	// ProBaseURL is the endpoint used when an API key is configured.
	ProBaseURL = "https://pro.webamon.com"

	userAgent      = "webamon-cli/0.1.0"
	defaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// StatusCallback receives progress messages (i.e., a logger/spinner).
type StatusCallback func(message string)

// Client talks to the Webamon search API. One request is outstanding at a
// time; every call blocks until the response arrives or the HTTP client
// times out.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	statusCb StatusCallback
}

// NewClient creates a Client. Unless overridden, the base URL follows the
// key: pro endpoint with a key, free endpoint without.
func NewClient(options ...Option) *Client {
	c := new(Client)

	for _, option := range options {
		option(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}

	if c.baseURL == "" {
		if c.apiKey != "" {
			c.baseURL = ProBaseURL
		} else {
			c.baseURL = FreeBaseURL
		}
	}

	return c
}

// WithAPIKey sets the API key sent in the x-api-key header.
func WithAPIKey(key string) Option { return func(c *Client) { c.apiKey = key } }

// WithBaseURL overrides the endpoint selection.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithStatusCallback sets a callback for progress messages.
func WithStatusCallback(cb StatusCallback) Option { return func(c *Client) { c.statusCb = cb } }

// HasAPIKey reports whether the client authenticates as a pro user.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) sendStatus(message string) {
	if c.statusCb != nil {
		c.statusCb(message)
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (gjson.Result, error) {
	u := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(endpoint, "/"))
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	log.Debugf("GET %s", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, errorFromStatus(resp.StatusCode, c.HasAPIKey(), body)
	}

	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return gjson.Parse("{}"), nil
	}

	return gjson.ParseBytes(body), nil
}

// paginate adds from/size to params. Offsets are a pro feature; the free
// tier silently drops them server-side, so they are only sent with a key.
func (c *Client) paginate(params url.Values, size, from int) {
	params.Set("size", strconv.Itoa(size))
	if c.HasAPIKey() && from > 0 {
		params.Set("from", strconv.Itoa(from))
	}
}

// Search performs a basic term search. Field lists pass through verbatim;
// the remote rejects unknown field names.
func (c *Client) Search(ctx context.Context, term string, searchFields, returnFields []string, size, from int) (gjson.Result, error) {
	c.sendStatus(fmt.Sprintf("searching for %s", term))

	params := url.Values{}
	params.Set("search", term)
	if searchFields != nil {
		params.Set("results", strings.Join(searchFields, ","))
	}
	if returnFields != nil {
		params.Set("fields", strings.Join(returnFields, ","))
	}
	c.paginate(params, size, from)

	return c.get(ctx, "/search", params)
}

// SearchLucene performs an advanced search with a raw lucene query against a
// named index.
func (c *Client) SearchLucene(ctx context.Context, query, index string, returnFields []string, size, from int) (gjson.Result, error) {
	c.sendStatus(fmt.Sprintf("running lucene query against %s", index))

	params := url.Values{}
	params.Set("lucene_query", query)
	params.Set("index", index)
	if returnFields != nil {
		params.Set("fields", strings.Join(returnFields, ","))
	}
	c.paginate(params, size, from)

	return c.get(ctx, "/search", params)
}

// Scan submits a target URL or domain for scanning. The response carries the
// report id for later retrieval.
func (c *Client) Scan(ctx context.Context, target string) (gjson.Result, error) {
	c.sendStatus(fmt.Sprintf("submitting scan for %s", target))

	params := url.Values{}
	params.Set("submission_url", target)

	return c.get(ctx, "/scan", params)
}

// Screenshot retrieves the screenshot captured during a scan, base64-encoded
// under report.screenshot.
func (c *Client) Screenshot(ctx context.Context, reportID string) (gjson.Result, error) {
	c.sendStatus(fmt.Sprintf("fetching screenshot for report %s", reportID))

	params := url.Values{}
	params.Set("report_id", reportID)

	return c.get(ctx, "/screenshot", params)
}

// Fields lists the queryable fields known to the remote schema, optionally
// filtered by substring.
func (c *Client) Fields(ctx context.Context, filter string) (gjson.Result, error) {
	c.sendStatus("fetching field list")

	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}

	return c.get(ctx, "/fields", params)
}

// TestConnection verifies the endpoint is reachable with the configured
// credentials. It runs a minimal search first and falls back to the API
// root.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.Search(ctx, "example.com", []string{"domain.name"}, nil, 1, 0); err == nil {
		return nil
	}

	_, err := c.get(ctx, "/", nil)
	return err
}
