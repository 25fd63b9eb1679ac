package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "TRIP_STORE", "SUPABASE_URL",
		"SUPABASE_SERVICE_ROLE_KEY", "CORS_ALLOW_ORIGIN", "GENERATION_MODE",
		"GENERATION_TIMEOUT", "STORE_TIMEOUT", "ENABLE_DEV_TOKENS", "USER_TOKEN_SECRET",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Generation.ModelName != DefaultModelName {
		t.Errorf("Expected default model %s, got %s", DefaultModelName, cfg.Generation.ModelName)
	}
	if cfg.Generation.HasCredential() {
		t.Error("Expected no credential by default")
	}
	if cfg.Generation.Mode != GenerationModeLive {
		t.Errorf("Expected live generation mode, got %s", cfg.Generation.Mode)
	}
	if cfg.Store.Type != StoreTypeSupabase {
		t.Errorf("Expected supabase store by default, got %s", cfg.Store.Type)
	}
	if cfg.CORS.AllowOrigin != "*" {
		t.Errorf("Expected CORS origin '*', got %s", cfg.CORS.AllowOrigin)
	}
	if cfg.Generation.Timeout != 0 {
		t.Errorf("Expected no generation timeout, got %v", cfg.Generation.Timeout)
	}
	if cfg.Identity.IssueDevTokens {
		t.Error("Expected dev tokens to be off by default")
	}
}

func TestLoadBareNumberTimeoutIsSeconds(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT", "30")
	t.Setenv("STORE_TIMEOUT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Generation.Timeout != 30*time.Second {
		t.Errorf("Expected 30s generation timeout, got %v", cfg.Generation.Timeout)
	}
	if cfg.Store.Timeout != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s store timeout, got %v", cfg.Store.Timeout)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("Expected an invalid GENERATION_TIMEOUT to fail")
	}
}

func TestDevTokensEnabled(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   bool
	}{
		{"off by default", Config{Environment: "development", Identity: IdentityConfig{TokenSecret: "s"}}, false},
		{"opted in", Config{Environment: "development", Identity: IdentityConfig{TokenSecret: "s", IssueDevTokens: true}}, true},
		{"no secret", Config{Environment: "development", Identity: IdentityConfig{IssueDevTokens: true}}, false},
		{"production", Config{Environment: "production", Identity: IdentityConfig{TokenSecret: "s", IssueDevTokens: true}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.DevTokensEnabled(); got != tt.want {
				t.Errorf("DevTokensEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToConnectionConfig(t *testing.T) {
	t.Setenv("SQLITE_AUTO_MIGRATE", "false")

	store := StoreConfig{Type: StoreTypeSQLite, SQLitePath: "/tmp/other.db"}
	cfg := store.ToConnectionConfig(nil)

	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("Expected store path, got %s", cfg.DatabasePath)
	}
	if cfg.AutoMigrate {
		t.Error("Expected SQLITE_AUTO_MIGRATE=false to disable migrations")
	}
	if cfg.MaxOpenConns != 1 || cfg.Logger == nil {
		t.Errorf("Expected defaults to be kept, got %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  secret-key ")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("TRIP_STORE", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/trips.db")
	t.Setenv("GENERATION_TIMEOUT", "15s")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Generation.APIKey != "secret-key" {
		t.Errorf("Expected trimmed API key, got %q", cfg.Generation.APIKey)
	}
	if cfg.Generation.ModelName != "gemini-2.0-flash" {
		t.Errorf("Expected model override, got %s", cfg.Generation.ModelName)
	}
	if cfg.Store.Type != StoreTypeSQLite {
		t.Errorf("Expected sqlite store, got %s", cfg.Store.Type)
	}
	if cfg.Generation.Timeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %v", cfg.Generation.Timeout)
	}
	if cfg.CORS.AllowOrigin != "https://app.example.com" {
		t.Errorf("Unexpected CORS origin %s", cfg.CORS.AllowOrigin)
	}
}

func TestStoreConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  StoreConfig
		wantErr bool
	}{
		{"supabase complete", StoreConfig{Type: StoreTypeSupabase, URL: "https://x.supabase.co", Key: "k"}, false},
		{"supabase missing url", StoreConfig{Type: StoreTypeSupabase, Key: "k"}, true},
		{"supabase missing key", StoreConfig{Type: StoreTypeSupabase, URL: "https://x.supabase.co"}, true},
		{"sqlite with path", StoreConfig{Type: StoreTypeSQLite, SQLitePath: "./trips.db"}, false},
		{"sqlite without path", StoreConfig{Type: StoreTypeSQLite}, true},
		{"unknown type", StoreConfig{Type: "dynamo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerationConfigValidate(t *testing.T) {
	cfg := GenerationConfig{Mode: GenerationModeLive, ModelName: DefaultModelName}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should accept a config without API key: %v", err)
	}

	cfg.Mode = "batch"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown mode")
	}

	cfg = GenerationConfig{Mode: GenerationModeMock}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty model name")
	}
}
