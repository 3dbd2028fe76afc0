// Package fetch retrieves upstream JSON data feeds over HTTP.
//
// Snapshot sources are plain JSON documents: either a bare array of records or
// a {"data": [...]} wrapper. There is no schema negotiation; absent fields in
// a record simply decode to nothing and are handled downstream as nil.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// FetchError reports that a declared data source could not be retrieved or
// parsed as JSON. For mandatory sources this aborts the whole snapshot load.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches JSON record feeds.
type Client interface {
	// FetchRecords retrieves the feed at url and decodes it into a sequence of
	// records. It accepts a bare JSON array or a {"data": [...]} wrapper.
	FetchRecords(ctx context.Context, url string) ([]map[string]any, error)
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a feed client with connection and response timeouts.
// A timeout of zero defaults to 30 seconds.
func NewHTTPClient(timeoutSeconds int) *HTTPClient {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// FetchRecords implements Client.
func (c *HTTPClient) FetchRecords(ctx context.Context, url string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	records, err := DecodeRecords(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return records, nil
}

// DecodeRecords decodes a feed body into records. The feed may be a bare
// array or an object wrapping the array under a "data" key.
func DecodeRecords(body []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapper struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("feed is neither a record array nor a data wrapper: %w", err)
	}
	if wrapper.Data == nil {
		return nil, fmt.Errorf("feed object has no data array")
	}
	return wrapper.Data, nil
}
