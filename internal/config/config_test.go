package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

storage:
  default_mode: "LOCAL"
  local_path: "/tmp/trakaido-test.db"
  push_on_remote_to_local: true

remote:
  base_url: "https://api.trakaido.com"
  token: "remote-token"
  attempt_timeout: "3s"
  max_retries: 4

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  access_token_ttl: "24h"

journey:
  unseen_weight: 12
  recency_window: "12h"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	if cfg.Storage.DefaultMode != "LOCAL" {
		t.Errorf("storage.default_mode = %q, want LOCAL", cfg.Storage.DefaultMode)
	}
	if !cfg.Storage.PushOnRemoteToLocal {
		t.Error("storage.push_on_remote_to_local should be true")
	}

	if cfg.Remote.BaseURL != "https://api.trakaido.com" {
		t.Errorf("remote.base_url = %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.MaxRetries != 4 {
		t.Errorf("remote.max_retries = %d, want 4", cfg.Remote.MaxRetries)
	}
	if cfg.Remote.RetryBackoff != 500*time.Millisecond {
		t.Errorf("remote.retry_backoff = %v, want default 500ms", cfg.Remote.RetryBackoff)
	}

	if cfg.Auth.AccessTokenTTL != 24*time.Hour {
		t.Errorf("auth.access_token_ttl = %v, want 24h", cfg.Auth.AccessTokenTTL)
	}

	if cfg.Journey.UnseenWeight != 12 {
		t.Errorf("journey.unseen_weight = %v, want 12", cfg.Journey.UnseenWeight)
	}
	if cfg.Journey.BaseWeight != 4 {
		t.Errorf("journey.base_weight = %v, want default 4", cfg.Journey.BaseWeight)
	}
	if cfg.Journey.RecencyWindow != 12*time.Hour {
		t.Errorf("journey.recency_window = %v, want 12h", cfg.Journey.RecencyWindow)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("STORAGE_DEFAULT_MODE", "REMOTE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Storage.DefaultMode != "REMOTE" {
		t.Errorf("storage.default_mode = %q, want REMOTE (ENV override)", cfg.Storage.DefaultMode)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Storage.DefaultMode != "LOCAL" {
		t.Errorf("storage.default_mode = %q, want LOCAL (default)", cfg.Storage.DefaultMode)
	}
	// The corpuschoices collection accepts DELETE, so preflight must allow it.
	if !strings.Contains(cfg.CORS.AllowedMethods, "DELETE") {
		t.Errorf("cors.allowed_methods = %q, want DELETE included", cfg.CORS.AllowedMethods)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_BadUserID(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.UserID = "not-a-uuid"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed user id")
	}
}

func TestValidate_BadDefaultMode(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DefaultMode = "CLOUD"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
}

func TestValidate_RemoteModeRequiresBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DefaultMode = "REMOTE"
	cfg.Remote.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for REMOTE default mode without base url")
	}
}

func TestValidate_Journey_CorrectDampingTooLow(t *testing.T) {
	cfg := validConfig()
	cfg.Journey.CorrectDamping = 1.0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for correct_damping <= 1")
	}
}

func TestValidate_Journey_NegativeMinWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Journey.MinWeight = -0.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative min_weight")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Storage: StorageConfig{
			DefaultMode: "LOCAL",
			LocalPath:   "/tmp/trakaido-test.db",
		},
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
			UserID:    "00000000-0000-0000-0000-000000000001",
		},
		Journey: JourneyConfig{
			UnseenWeight:   10,
			BaseWeight:     4,
			IncorrectBoost: 3,
			CorrectDamping: 1.35,
			RecencyWindow:  24 * time.Hour,
			StaleBoost:     1.5,
			MinWeight:      0.25,
		},
	}
}
