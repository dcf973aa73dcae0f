package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
auth:
  provider_url: "https://auth.example.com"
  anon_key: "anon-key-123"
  redirect_url: "https://liftlog.example.com/auth/callback"
state:
  dir: "/var/lib/liftlog"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.ProviderURL != "https://auth.example.com" {
		t.Errorf("auth.provider_url = %q, want %q", cfg.Auth.ProviderURL, "https://auth.example.com")
	}
	if cfg.Auth.AnonKey != "anon-key-123" {
		t.Errorf("auth.anon_key = %q, want %q", cfg.Auth.AnonKey, "anon-key-123")
	}
	if cfg.State.Dir != "/var/lib/liftlog" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/var/lib/liftlog")
	}
}

// TestEnvOverride verifies that LIFTLOG_ env vars take precedence over YAML values.
// This ensures production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("LIFTLOG_SERVER_PORT", "9999")
	t.Setenv("LIFTLOG_AUTH_ANON_KEY", "env-key")
	t.Setenv("LIFTLOG_STATE_DIR", "/tmp/liftlog-state")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Auth.AnonKey != "env-key" {
		t.Errorf("auth.anon_key = %q, want %q", cfg.Auth.AnonKey, "env-key")
	}
	if cfg.State.Dir != "/tmp/liftlog-state" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/tmp/liftlog-state")
	}
	// Unchanged fields should keep YAML values
	if cfg.Auth.ProviderURL != "https://auth.example.com" {
		t.Errorf("auth.provider_url = %q, want %q", cfg.Auth.ProviderURL, "https://auth.example.com")
	}
}

// TestStateDirDefault verifies the session database directory defaults to
// "data" when neither YAML nor environment names one.
func TestStateDirDefault(t *testing.T) {
	yaml := `
server:
  port: 8080
auth:
  provider_url: "https://auth.example.com"
  anon_key: "key"
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.State.Dir != "data" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "data")
	}
}

// TestValidationMissingPort verifies that missing required fields produce a clear error.
// Prevents starting the server with incomplete configuration.
func TestValidationMissingPort(t *testing.T) {
	yaml := `
server:
  host: "0.0.0.0"
auth:
  provider_url: "https://auth.example.com"
  anon_key: "key"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing port")
	}
}

// TestValidationMissingAnonKey verifies that a missing anon key is rejected.
// Without it, every call to the identity provider would fail.
func TestValidationMissingAnonKey(t *testing.T) {
	yaml := `
server:
  port: 8080
auth:
  provider_url: "https://auth.example.com"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing anon_key")
	}
}

// TestValidationTailscaleHostname verifies that enabling tailscale without a
// hostname is rejected.
func TestValidationTailscaleHostname(t *testing.T) {
	yaml := `
server:
  port: 8080
tailscale:
  enabled: true
auth:
  provider_url: "https://auth.example.com"
  anon_key: "key"
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing tailscale hostname")
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
