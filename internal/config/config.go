package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // WARDEN_DATABASE_URL (required)
	HTTPAddr    string // WARDEN_HTTP_ADDR (default ":8080")
	NATSURL     string // WARDEN_NATS_URL (optional, empty = no gateway)

	// Presence settings
	PresenceInterval time.Duration // WARDEN_PRESENCE_INTERVAL (default 3s)

	// Snapshot settings
	SnapshotInterval   time.Duration // WARDEN_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // WARDEN_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // WARDEN_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // WARDEN_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // WARDEN_SNAPSHOT_S3_KEY (default "warden/guilds.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("WARDEN_DATABASE_URL"),
		HTTPAddr:           envOrDefault("WARDEN_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("WARDEN_NATS_URL"),
		SnapshotS3Bucket:   os.Getenv("WARDEN_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("WARDEN_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("WARDEN_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("WARDEN_SNAPSHOT_S3_KEY", "warden/guilds.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("WARDEN_DATABASE_URL is required")
	}

	presenceStr := envOrDefault("WARDEN_PRESENCE_INTERVAL", "3s")
	d, err := time.ParseDuration(presenceStr)
	if err != nil {
		return nil, fmt.Errorf("WARDEN_PRESENCE_INTERVAL: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("WARDEN_PRESENCE_INTERVAL must be positive, got %v", d)
	}
	c.PresenceInterval = d

	snapshotStr := envOrDefault("WARDEN_SNAPSHOT_INTERVAL", "3m")
	if snapshotStr != "" {
		d, err := time.ParseDuration(snapshotStr)
		if err != nil {
			return nil, fmt.Errorf("WARDEN_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
