// Package woocommerce is a small client for the WooCommerce REST API.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
	"github.com/balewgize/WooCommerce-migrate/pkg/utils"
)

// TotalPagesHeader carries the page count of a list endpoint.
const TotalPagesHeader = "X-WP-TotalPages"

// ErrStatus is matched by every *StatusError.
var ErrStatus = errors.New("unexpected status code")

// StatusError reports a non-200 answer from the API.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d for %s", ErrStatus.Error(), e.Code, e.Path)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

type Options struct {
	URL            string
	ConsumerKey    string
	ConsumerSecret string
	// Version is the REST namespace, "wc/v3" when empty.
	Version string
	Timeout time.Duration
	// QueryStringAuth sends the key pair as query parameters instead of
	// HTTP basic auth.
	QueryStringAuth bool
	// RequestsPerSecond throttles all requests of the client; 0 disables it.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	consumerKey     string
	consumerSecret  string
	queryStringAuth bool
	limiter         *rate.Limiter
}

func NewClient(opts Options) *Client {
	version := opts.Version
	if version == "" {
		version = "wc/v3"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(opts.URL, "/") + "/wp-json/" + strings.Trim(version, "/"),
		consumerKey:     opts.ConsumerKey,
		consumerSecret:  opts.ConsumerSecret,
		queryStringAuth: opts.QueryStringAuth,
		limiter:         limiter,
	}
}

// ListResponse is one page of a list endpoint.
type ListResponse struct {
	StatusCode int
	// TotalPages is -1 when the header is missing or malformed.
	TotalPages int
	Records    []models.Record
}

// List fetches one page of resource. A non-200 answer is returned as a
// *StatusError together with the response metadata; records are only
// decoded on 200.
func (c *Client) List(ctx context.Context, resource string, params url.Values) (*ListResponse, error) {
	resp, body, err := c.do(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	out := &ListResponse{
		StatusCode: resp.StatusCode,
		TotalPages: parseTotalPages(resp.Header.Get(TotalPagesHeader)),
	}
	if resp.StatusCode != http.StatusOK {
		return out, &StatusError{Code: resp.StatusCode, Path: resource}
	}

	var raw []interface{}
	if err := decode(body, &raw); err != nil {
		return out, fmt.Errorf("failed to decode %s page: %w", resource, err)
	}
	for _, item := range raw {
		doc, ok := utils.NormalizeJSONNumbers(item).(map[string]interface{})
		if !ok {
			continue
		}
		out.Records = append(out.Records, models.Record(doc))
	}
	return out, nil
}

// Get fetches a single object, e.g. "orders/42". The body is decoded
// whatever the status: WooCommerce answers a missing id with an error object
// that has no "id", which callers treat as not found.
func (c *Client) Get(ctx context.Context, path string) (models.Record, int, error) {
	resp, body, err := c.do(ctx, path, nil)
	if err != nil {
		return nil, 0, err
	}

	var raw interface{}
	if err := decode(body, &raw); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	doc, ok := utils.NormalizeJSONNumbers(raw).(map[string]interface{})
	if !ok {
		return models.Record{}, resp.StatusCode, nil
	}
	return models.Record(doc), resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (*http.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	if c.queryStringAuth {
		query.Set("consumer_key", c.consumerKey)
		query.Set("consumer_secret", c.consumerSecret)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "WooCommerce-migrate")
	if !c.queryStringAuth {
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return resp, body, nil
}

func decode(body []byte, target interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(target)
}

func parseTotalPages(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return -1
	}
	return n
}
