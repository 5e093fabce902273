// Package hyp3 implements a client for the HyP3 on-demand SAR processing
// service: batch job submission, status polling, and result download.
package hyp3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/robert-malhotra/insar-sbas/internal/httputil"
)

const userAgent = "insar-sbas/1.0"

// Client handles communication with the processing service API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new processing service client. token is an Earthdata
// Login bearer token; it may be empty for unauthenticated endpoints.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// SubmitJobs submits a batch of job specifications and returns the
// created jobs in submission order.
func (c *Client) SubmitJobs(ctx context.Context, specs []JobSpec) ([]Job, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no jobs to submit")
	}

	body, err := json.Marshal(submitRequest{Jobs: specs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode job batch: %w", err)
	}

	c.logger.InfoContext(ctx, "submitting job batch", slog.Int("count", len(specs)))

	var resp jobsResponse
	if err := c.do(ctx, http.MethodPost, "/jobs", bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	if len(resp.Jobs) != len(specs) {
		return nil, fmt.Errorf("submitted %d jobs but service created %d", len(specs), len(resp.Jobs))
	}

	return resp.Jobs, nil
}

// JobQuery filters job listings.
type JobQuery struct {
	Name   string
	Status JobStatus
}

// Jobs lists jobs matching the query, following pagination links until
// the listing is exhausted.
func (c *Client) Jobs(ctx context.Context, query JobQuery) ([]Job, error) {
	values := url.Values{}
	if query.Name != "" {
		values.Set("name", query.Name)
	}
	if query.Status != "" {
		values.Set("status_code", string(query.Status))
	}

	var jobs []Job
	next := "/jobs?" + values.Encode()

	for next != "" {
		var page jobsResponse
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, fmt.Errorf("job listing failed: %w", err)
		}
		jobs = append(jobs, page.Jobs...)

		next = ""
		if page.Next != "" {
			// The next link is absolute; keep only path and query so it
			// goes through the same base URL handling.
			u, err := url.Parse(page.Next)
			if err != nil {
				return nil, fmt.Errorf("invalid pagination link: %w", err)
			}
			next = u.Path
			if u.RawQuery != "" {
				next += "?" + u.RawQuery
			}
		}
	}

	return jobs, nil
}

// GetJob retrieves a single job by ID.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+jobID, nil, &job); err != nil {
		return nil, fmt.Errorf("job lookup failed: %w", err)
	}
	return &job, nil
}

// Me retrieves the authenticated user's account information, including
// remaining processing credits.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// do executes an API request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, pathAndQuery string, body io.Reader, out any) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	ref, err := url.Parse(pathAndQuery)
	if err != nil {
		return fmt.Errorf("invalid request path: %w", err)
	}
	reqURL := base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.DebugContext(ctx, "executing processing service request",
		slog.String("method", method),
		slog.String("url", reqURL),
	)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0, c.logger)
	if err != nil {
		return fmt.Errorf("processing service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "processing service returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(respBody)),
		)
		return fmt.Errorf("processing service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode processing service response: %w", err)
	}
	return nil
}
