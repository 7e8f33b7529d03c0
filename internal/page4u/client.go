// Package page4u is a client for the Page4U landing-page hosting API.
// It covers the authenticated transport, the uniform response envelope,
// and archive assembly for multi-asset deploys.
package page4u

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	apiPrefix      = "/api/v1"
	defaultBaseURL = "https://page4u.app"
	defaultTimeout = 30 * time.Second

	// clientHeader identifies this bridge to the backend for usage
	// attribution. The value carries the bridge version.
	clientHeader = "X-Page4U-Client"
)

// Client issues authenticated requests against the Page4U API. The
// zero value is not usable; construct with NewClient. The credential is
// injected here and never read from ambient state.
type Client struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient returns a client for the given endpoint and bearer token.
// Trailing slashes on baseURL are normalized away. An empty baseURL
// falls back to the production endpoint.
func NewClient(baseURL, token, version string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      strings.TrimSpace(token),
		UserAgent:  "page4u-mcp/" + version,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Payload is the closed set of request body encodings: a JSON object or
// a multipart form carrying one file. Both deploy variants (archive and
// single document) go through FilePayload, so the transport has a single
// binary contract regardless of which one produced the bytes.
type Payload interface {
	encode() (body io.Reader, contentType string, err error)
}

type jsonPayload struct {
	value any
}

// JSONPayload encodes v as an application/json request body.
func JSONPayload(v any) Payload { return jsonPayload{value: v} }

func (p jsonPayload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p.value); err != nil {
		return nil, "", err
	}
	return &buf, "application/json", nil
}

// FilePayload encodes a multipart form with a single file part plus
// optional plain fields.
type FilePayload struct {
	Field    string
	Filename string
	Content  []byte
	Fields   map[string]string
}

func (p FilePayload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(p.Field, p.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.Content); err != nil {
		return nil, "", err
	}
	for k, v := range p.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Do issues one request and decodes the response envelope. payload may
// be nil for body-less methods. Exactly one network round trip happens
// per call; there are no retries. A missing token fails with
// *ConfigError before any I/O.
func (c *Client) Do(ctx context.Context, method, path string, payload Payload) (Result, error) {
	if c.Token == "" {
		return Result{}, &ConfigError{Missing: "PAGE4U_API_TOKEN"}
	}

	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		var err error
		body, contentType, err = payload.encode()
		if err != nil {
			return Result{}, fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+apiPrefix+path, body)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set(clientHeader, c.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, &NetworkError{Op: method + " " + path, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &NetworkError{Op: "read " + method + " " + path, Cause: err}
	}

	// The envelope is authoritative even on non-2xx statuses: backend
	// failures arrive as a failure arm with code and message.
	return decodeEnvelope(respBody)
}
