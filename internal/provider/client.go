// Package provider implements the HTTP client for the external assessment
// content service: question sets, scoring, and career data. All failures
// surface as typed errors; callers treat them as non-fatal and retryable.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/pathfinder/internal/archetype"
	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/schemas"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Error represents a failure talking to the content provider.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout time.Duration
	APIKey  string
}

// Client talks to the content provider over HTTP and implements
// assessment.Provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the provider at baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}

	timeout := DefaultTimeout
	apiKey := ""
	if opts != nil {
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
		apiKey = opts.APIKey
	}

	return &Client{
		baseURL: parsed.String(),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Questions fetches the ordered question set for a kind.
func (c *Client) Questions(ctx context.Context, kind assessment.Kind, count int) ([]assessment.Question, error) {
	endpoint := fmt.Sprintf("%s/assessments/%s/questions?count=%d", c.baseURL, kind, count)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []assessment.Question `json:"questions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{URL: endpoint, Message: "malformed question payload", Cause: err}
	}
	if len(payload.Questions) != count {
		return nil, &Error{URL: endpoint, Message: fmt.Sprintf("expected %d questions, got %d", count, len(payload.Questions))}
	}
	return payload.Questions, nil
}

// Results submits a completed answer string and returns the score report.
// The payload is schema-validated before it is trusted.
func (c *Client) Results(ctx context.Context, kind assessment.Kind, answers string) (*assessment.Report, error) {
	endpoint := fmt.Sprintf("%s/assessments/%s/results", c.baseURL, kind)
	body, err := c.post(ctx, endpoint, map[string]string{"answers": answers})
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateScoreReport(body); err != nil {
		return nil, &Error{URL: endpoint, Message: "invalid score report", Cause: err}
	}

	var report assessment.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, &Error{URL: endpoint, Message: "malformed score report", Cause: err}
	}
	return &report, nil
}

// CareerMatches fetches careers matching an interest profile.
func (c *Client) CareerMatches(ctx context.Context, profile archetype.Profile) ([]assessment.CareerMatch, error) {
	endpoint := c.baseURL + "/careers/matches"
	body, err := c.post(ctx, endpoint, map[string]any{"profile": profile})
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateCareerMatches(body); err != nil {
		return nil, &Error{URL: endpoint, Message: "invalid career matches", Cause: err}
	}

	var payload struct {
		Matches []assessment.CareerMatch `json:"matches"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{URL: endpoint, Message: "malformed career matches", Cause: err}
	}
	return payload.Matches, nil
}

// CareerDetails fetches one career's details by code. Absent careers return
// nil without error.
func (c *Client) CareerDetails(ctx context.Context, code string) (*assessment.CareerDetails, error) {
	endpoint := c.baseURL + "/careers/" + url.PathEscape(code)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) && perr.Message == "not found" {
			return nil, nil
		}
		return nil, err
	}

	var details assessment.CareerDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, &Error{URL: endpoint, Message: "malformed career details", Cause: err}
	}
	return &details, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to marshal request", Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: req.URL.String(), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &Error{URL: req.URL.String(), Message: "not found"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: req.URL.String(), Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &Error{URL: req.URL.String(), Message: "failed to read response", Cause: err}
	}
	return body, nil
}
