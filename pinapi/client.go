package pinapi

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client represents a pin API client
type Client struct {
	baseURL        string
	key            string
	httpClient     *http.Client
	defaultHeaders http.Header
	logger         zerolog.Logger

	// Extensions holds the instances built from the descriptors passed via
	// WithExtensions, keyed by descriptor key. Populated once during
	// NewClient and never mutated afterwards.
	Extensions map[string]any
}

// Client is the canonical implementation of Operations.
var _ Operations = (*Client)(nil)

// NewClient creates a new pin API client. The key must be a three-segment
// dot-separated bearer token; the check is structural only and no network
// traffic happens before the first operation.
func NewClient(baseURL, key string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	if key == "" {
		return nil, ErrMissingKey
	}
	if len(strings.Split(key, ".")) != 3 {
		return nil, fmt.Errorf("%w: got %q", ErrMalformedKey, key)
	}

	options := clientOptions{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		key:            key,
		httpClient:     httpClient,
		defaultHeaders: options.defaultHeaders,
		logger:         logger,
		Extensions:     make(map[string]any),
	}

	if err := client.initExtensions(options.extensions); err != nil {
		return nil, err
	}

	return client, nil
}

// doRequest performs an authenticated request against the pin API.
//
// Headers merge in increasing precedence: construction-time defaults, then
// the two the client always forces (Content-Type and Authorization). The
// response body is decoded as JSON regardless of status; anything above 399
// becomes an *APIError carrying the parsed body. Transport failures and
// malformed JSON propagate as-is with no retry.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, payload, result any) error {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range c.defaultHeaders {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Str("request_id", req.Header.Get("X-Request-Id")).
		Int("status", resp.StatusCode).
		Msg("Pin API request")

	if resp.StatusCode > 399 {
		var parsed any
		if len(data) > 0 {
			if err := json.Unmarshal(data, &parsed); err != nil {
				return err
			}
		}
		errBody, _ := parsed.(map[string]any)
		return &APIError{Status: resp.StatusCode, Body: errBody}
	}

	if result == nil {
		return nil
	}
	return json.Unmarshal(data, result)
}

// CreatePins creates the given pins in a single round trip and returns them
// with server-assigned IDs and server-applied defaults.
func (c *Client) CreatePins(ctx context.Context, pins []CreatePin) ([]Pin, error) {
	if pins == nil {
		pins = []CreatePin{}
	}

	var created []Pin
	if err := c.doRequest(ctx, http.MethodPost, "/pins", nil, pins, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetPins retrieves all pins sharing the given meta ID.
func (c *Client) GetPins(ctx context.Context, metaID string) ([]Pin, error) {
	params := url.Values{"meta-id": {metaID}}

	var pins []Pin
	if err := c.doRequest(ctx, http.MethodGet, "/pins", params, nil, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// UpdatePins applies the given partial updates and returns the updated pins.
func (c *Client) UpdatePins(ctx context.Context, pins []UpdatePin) ([]Pin, error) {
	if pins == nil {
		pins = []UpdatePin{}
	}

	var updated []Pin
	if err := c.doRequest(ctx, http.MethodPut, "/pins", nil, pins, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePins removes the pins with the given IDs.
func (c *Client) DeletePins(ctx context.Context, ids []string) (*DeleteResult, error) {
	if ids == nil {
		ids = []string{}
	}

	var result DeleteResult
	if err := c.doRequest(ctx, http.MethodDelete, "/pins", nil, ids, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMetadata retrieves the opaque metadata record associated with a meta
// ID. The shape is server-defined and passed through untouched.
func (c *Client) GetMetadata(ctx context.Context, metaID string) (json.RawMessage, error) {
	var metadata json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, "/metadata/"+url.PathEscape(metaID), nil, nil, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
