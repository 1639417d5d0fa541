package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/server"
	"github.com/groblegark/warden/internal/settings"
)

func newTestServer(t *testing.T, cache *settings.Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(server.New(cache).NewHTTPHandler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, settings.New())

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q, want ok", status)
	}
}

func TestListGuilds(t *testing.T) {
	cache := settings.New()
	cache.SetIfAbsent(1, model.DefaultSettings(1, 10))
	custom := model.DefaultSettings(2, 20)
	custom.Prefix = "!"
	cache.SetIfAbsent(2, custom)

	c := newTestServer(t, cache)
	resp, err := c.ListGuilds(context.Background())
	if err != nil {
		t.Fatalf("ListGuilds: %v", err)
	}
	if resp.Total != 2 || len(resp.Guilds) != 2 {
		t.Fatalf("got total %d with %d guilds, want 2", resp.Total, len(resp.Guilds))
	}
	if resp.Guilds[1].Prefix != "!" {
		t.Errorf("guild 2 prefix = %q, want !", resp.Guilds[1].Prefix)
	}
}

func TestGetGuild(t *testing.T) {
	cache := settings.New()
	cache.SetIfAbsent(123, model.DefaultSettings(123, 456))

	c := newTestServer(t, cache)
	gs, err := c.GetGuild(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetGuild: %v", err)
	}
	if gs.GuildID != 123 || gs.OwnerID != 456 {
		t.Errorf("got %+v, want guild 123 owner 456", gs)
	}
}

func TestGetGuild_NotTracked(t *testing.T) {
	c := newTestServer(t, settings.New())

	_, err := c.GetGuild(context.Background(), 999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	cache := settings.New()
	cache.SetIfAbsent(1, model.DefaultSettings(1, 1))

	c := newTestServer(t, cache)
	status, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Guilds != 1 {
		t.Errorf("guilds = %d, want 1", status.Guilds)
	}
	if status.Presence != "Monitoring a total of 1 guilds | -help" {
		t.Errorf("presence = %q", status.Presence)
	}
}
