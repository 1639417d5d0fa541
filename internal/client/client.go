// Package client is an HTTP client for the warden admin API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/groblegark/warden/internal/model"
)

// Client talks to the warden daemon's HTTP/JSON admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// APIError is a non-2xx response from the admin API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Health returns the daemon's health status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/v1/health", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// ListGuildsResponse is the body of GET /v1/guilds.
type ListGuildsResponse struct {
	Guilds []model.GuildSettings `json:"guilds"`
	Total  int                   `json:"total"`
}

// ListGuilds returns all tracked guilds, sorted by id.
func (c *Client) ListGuilds(ctx context.Context) (*ListGuildsResponse, error) {
	var resp ListGuildsResponse
	if err := c.getJSON(ctx, "/v1/guilds", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGuild returns the settings for one guild.
func (c *Client) GetGuild(ctx context.Context, guildID uint64) (*model.GuildSettings, error) {
	var gs model.GuildSettings
	if err := c.getJSON(ctx, "/v1/guilds/"+strconv.FormatUint(guildID, 10), &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Guilds     int    `json:"guilds"`
	Presence   string `json:"presence"`
	UptimeSecs int64  `json:"uptime_secs"`
}

// Status returns the daemon's runtime status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.getJSON(ctx, "/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// getJSON performs a GET request and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
