package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig drops a config.yaml into a temp dir and chdirs there so Load()
// picks it up.
func writeConfig(t *testing.T, yamlContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func clearEngineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "BASE_URL", "PGHOST", "PGDATABASE",
		"REDIS_HOST", "AI_PROVIDER", "AI_MODEL", "JOBS_MAX_CONCURRENT",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, `
port: "3443"
env: "test"
database:
  host: "db.example.com"
  database: "brainbuild_engine"
ai:
  provider: "openai"
  model: "gpt-4o-mini"
`)
	clearEngineEnv(t)

	t.Setenv("PORT", "4443")
	t.Setenv("AI_MODEL", "gpt-4o")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4443" {
		t.Errorf("expected Port=4443 (from env), got %s", cfg.Port)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("expected AI.Model=gpt-4o (from env), got %s", cfg.AI.Model)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host=db.example.com (from yaml), got %s", cfg.Database.Host)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.BaseURL != "http://localhost:4443" {
		t.Errorf("expected auto-derived BaseURL, got %s", cfg.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, "env: \"local\"\n")
	clearEngineEnv(t)

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %s", cfg.Port)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("expected default provider openai, got %s", cfg.AI.Provider)
	}
	if cfg.Jobs.MaxConcurrent != 4 {
		t.Errorf("expected default MaxConcurrent=4, got %d", cfg.Jobs.MaxConcurrent)
	}
	if cfg.Jobs.FetchTimeoutSeconds != 30 {
		t.Errorf("expected default FetchTimeoutSeconds=30, got %d", cfg.Jobs.FetchTimeoutSeconds)
	}
	if cfg.MigrationsPath != "migrations" {
		t.Errorf("expected default migrations path, got %s", cfg.MigrationsPath)
	}
	// Redis defaults to disabled.
	if cfg.Redis.Host != "" {
		t.Errorf("expected empty redis host by default, got %s", cfg.Redis.Host)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})

	if _, err := Load("v"); err == nil {
		t.Error("expected error for missing config.yaml")
	}
}

func TestParseJWKSEndpoints(t *testing.T) {
	endpoints := parseJWKSEndpoints("https://auth.brainbuild.ai=https://auth.brainbuild.ai/.well-known/jwks.json, https://other.example=https://other.example/jwks")
	if len(endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(endpoints))
	}
	if endpoints["https://auth.brainbuild.ai"] != "https://auth.brainbuild.ai/.well-known/jwks.json" {
		t.Errorf("unexpected endpoint map: %v", endpoints)
	}

	if got := parseJWKSEndpoints(""); len(got) != 0 {
		t.Errorf("expected empty map for empty input, got %v", got)
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "brainbuild",
		Password: "pw",
		Database: "engine",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()
	for _, part := range []string{"host=localhost", "port=5432", "user=brainbuild", "dbname=engine", "sslmode=disable"} {
		if !strings.Contains(got, part) {
			t.Errorf("connection string missing %q: %s", part, got)
		}
	}
}
