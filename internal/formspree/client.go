// Package formspree delivers contact form drafts to a Formspree-compatible endpoint.
package formspree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mlsweb/internal/contact"
	applog "mlsweb/internal/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// ErrTransport wraps every failure that is not a structured rejection.
var ErrTransport = errors.New("formspree: transport failure")

// Config describes how the client should be initialised.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client posts drafts to a single form endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client for the configured endpoint.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("formspree: endpoint must not be empty")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("formspree: invalid endpoint %q", endpoint)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}, nil
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type rejection struct {
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Submit posts the draft as one JSON request. A 2xx response returns nil,
// nil. A structured rejection returns the per-field messages. Anything else
// returns an error wrapping ErrTransport.
func (c *Client) Submit(ctx context.Context, draft contact.Draft) (contact.FieldErrors, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	applog.Debug(ctx, "posting contact form", "endpoint", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		applog.Debug(ctx, "contact form accepted", "status", resp.StatusCode)
		return nil, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	var parsed rejection
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	fieldErrs := make(contact.FieldErrors)
	for _, e := range parsed.Errors {
		message := strings.TrimSpace(e.Message)
		if message == "" {
			message = strings.TrimSpace(e.Code)
		}
		if message == "" {
			continue
		}
		key := strings.TrimSpace(e.Field)
		if key == "" {
			key = contact.FormErrorKey
		}
		if existing, ok := fieldErrs[key]; ok {
			message = existing + " " + message
		}
		fieldErrs[key] = message
	}
	if len(fieldErrs) == 0 && strings.TrimSpace(parsed.Error) != "" {
		fieldErrs[contact.FormErrorKey] = strings.TrimSpace(parsed.Error)
	}
	if len(fieldErrs) == 0 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	applog.Debug(ctx, "contact form rejected", "status", resp.StatusCode, "fields", len(fieldErrs))
	return fieldErrs, nil
}
