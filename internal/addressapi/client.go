// Package addressapi talks to the external address service that owns geocoding, address matching and the
// location database.
package addressapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"location-dedup/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMatchTimeout    = 10 * time.Second
	DefaultDatabaseTimeout = 15 * time.Second
)

// Client calls the address service over HTTP.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	matchTimeout    time.Duration
	databaseTimeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeouts overrides the per-call timeouts. Zero values keep the defaults.
func WithTimeouts(match, database time.Duration) Option {
	return func(c *Client) {
		if match > 0 {
			c.matchTimeout = match
		}
		if database > 0 {
			c.databaseTimeout = database
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      http.DefaultClient,
		matchTimeout:    DefaultMatchTimeout,
		databaseTimeout: DefaultDatabaseTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type matchRequest struct {
	Query string `json:"query"`
}

type matchResponse struct {
	Results []models.AddressMatch `json:"results"`
}

// MatchAddress asks the service for database rows resembling a free-text address query.
func (c *Client) MatchAddress(ctx context.Context, query string) ([]models.AddressMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.matchTimeout)
	defer cancel()

	body, err := json.Marshal(matchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("addressapi: failed to encode match request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match-address", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("addressapi: failed to build match request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp matchResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	log.Debug().Str("query", query).Int("results", len(resp.Results)).Msg("address match completed")
	return resp.Results, nil
}

// FetchDatabase downloads the full location database.
func (c *Client) FetchDatabase(ctx context.Context) ([]models.DatabaseLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.databaseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/address-database", nil)
	if err != nil {
		return nil, fmt.Errorf("addressapi: failed to build database request: %w", err)
	}

	var rows []models.DatabaseLocation
	if err := c.do(req, &rows); err != nil {
		return nil, err
	}

	log.Debug().Int("locations", len(rows)).Msg("fetched address database")
	return rows, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("addressapi: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("addressapi: %s %s: unexpected status: %s", req.Method, req.URL.Path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("addressapi: failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
