package main

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := loadConfig()

	if cfg.RoomTTL != time.Hour {
		t.Fatalf("room ttl default: %v", cfg.RoomTTL)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Fatalf("sweep interval default: %v", cfg.SweepInterval)
	}
	if cfg.MaxRoomMessages != 50 {
		t.Fatalf("max room messages default: %d", cfg.MaxRoomMessages)
	}
	if cfg.MaxMessageChars != 1000 {
		t.Fatalf("max message chars default: %d", cfg.MaxMessageChars)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("allowed origins default: %v", cfg.AllowedOrigins)
	}
	if cfg.Environment != "development" || !cfg.development() {
		t.Fatalf("environment default: %q", cfg.Environment)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("MAX_ROOM_MESSAGES", "10")
	t.Setenv("ROOM_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://wasteless.example, https://admin.wasteless.example")

	cfg := loadConfig()
	if cfg.MaxRoomMessages != 10 {
		t.Fatalf("env override ignored: %d", cfg.MaxRoomMessages)
	}
	if cfg.RoomTTL != 30*time.Minute {
		t.Fatalf("ttl override ignored: %v", cfg.RoomTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://wasteless.example" {
		t.Fatalf("origins not split/trimmed: %v", cfg.AllowedOrigins)
	}
}
