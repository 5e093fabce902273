// Package asf implements a client for the ASF search API: keyword scene
// searches and baseline-stack queries over the Sentinel-1 archive.
package asf

import (
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

const (
	searchPath   = "/services/search/param"
	baselinePath = "/services/search/baseline"

	userAgent = "insar-sbas/1.0"
)

// Client handles communication with the ASF search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
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

// Search performs a keyword search against the catalog.
func (c *Client) Search(ctx context.Context, params SearchParams) (*FeatureCollection, error) {
	return c.get(ctx, searchPath, params.ToURLValues())
}

// BaselineStack returns the baseline stack of a reference scene: every
// scene covering the same ground track, annotated with temporal and
// perpendicular baselines relative to the reference.
//
// An error is returned when the stack comes back empty or the reference
// itself is missing from it, since that means the catalog could not
// resolve the reference and any pairing built on the result would be
// incomplete.
func (c *Client) BaselineStack(ctx context.Context, reference string) (*FeatureCollection, error) {
	params := BaselineParams{Reference: reference}

	fc, err := c.get(ctx, baselinePath, params.ToURLValues())
	if err != nil {
		return nil, err
	}

	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("baseline stack for %s is empty", reference)
	}

	found := false
	for i := range fc.Features {
		if fc.Features[i].Properties.SceneName == reference {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("baseline stack does not contain reference scene %s", reference)
	}

	return fc, nil
}

// GetScene retrieves a single scene by name or file ID. The catalog may
// return several products per scene name, so an exact fileID match wins
// when present.
func (c *Client) GetScene(ctx context.Context, id string) (*Feature, error) {
	// granule_list cannot be combined with any other search param.
	params := SearchParams{
		GranuleList: []string{id},
	}

	fc, err := c.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search for scene: %w", err)
	}

	if len(fc.Features) == 0 {
		c.logger.WarnContext(ctx, "scene not found", slog.String("scene", id))
		return nil, fmt.Errorf("scene not found: %s", id)
	}

	for i := range fc.Features {
		if fc.Features[i].Properties.FileID == id {
			return &fc.Features[i], nil
		}
	}
	return &fc.Features[0], nil
}

// get executes a GET request against path with the given query values and
// decodes the GeoJSON response.
func (c *Client) get(ctx context.Context, path string, values url.Values) (*FeatureCollection, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = path
	base.RawQuery = values.Encode()
	reqURL := base.String()

	c.logger.DebugContext(ctx, "executing catalog request", slog.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0, c.logger)
	if err != nil {
		c.logger.ErrorContext(ctx, "catalog request failed",
			slog.String("error", err.Error()),
			slog.String("url", reqURL),
		)
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "catalog returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	var fc FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	c.logger.DebugContext(ctx, "catalog request completed",
		slog.Int("feature_count", len(fc.Features)),
	)

	return &fc, nil
}
