// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NewClient returns an HTTP client with the given request timeout. A
// non-positive timeout yields a client that never times out.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// GetJSON issues a GET request for rawURL and decodes the JSON response
// body into v. Any non-200 status is an error.
func GetJSON(ctx context.Context, client *http.Client, rawURL, userAgent string, v any) error {
	body, err := get(ctx, client, rawURL, userAgent)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("parsing JSON response: %w", err)
	}
	return nil
}

// GetBody issues a GET request for rawURL and returns the raw response
// body. Any non-200 status is an error.
func GetBody(ctx context.Context, client *http.Client, rawURL, userAgent string) ([]byte, error) {
	body, err := get(ctx, client, rawURL, userAgent)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func get(ctx context.Context, client *http.Client, rawURL, userAgent string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}
