package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
)

type apiClient struct {
	baseURL    string
	apiKey     string
	keyHeader  string
	httpClient *http.Client
}

func newAPIClient(baseURL, apiKey, keyHeader string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		keyHeader:  keyHeader,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError mirrors the server's JSON error body.
type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field"`
	Hint  string `json:"hint"`
}

func (c *apiClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is fibermonitor-server running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) assess(ctx context.Context, sub form.Submission) (fiber.Assessment, error) {
	resp, err := c.post(ctx, "/api/v1/assess", sub)
	if err != nil {
		return fiber.Assessment{}, err
	}
	var a fiber.Assessment
	if err := decodeJSON(resp, &a); err != nil {
		return fiber.Assessment{}, err
	}
	return a, nil
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		var e apiError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			if e.Hint != "" {
				return fmt.Errorf("%s: %s", e.Error, e.Hint)
			}
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
