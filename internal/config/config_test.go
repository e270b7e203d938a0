package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.SessionTTL() != 12*time.Hour {
		t.Errorf("ttl = %v, want 12h", cfg.SessionTTL())
	}
	if cfg.Sessions.MaxEntries != 10000 {
		t.Errorf("max entries = %d, want 10000", cfg.Sessions.MaxEntries)
	}
	if cfg.MinioEnabled() {
		t.Error("minio enabled with no endpoint")
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
ai:
  apiKey: from-file
  model: gpt-4o
sessions:
  ttlHours: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("PORT", "")
	t.Setenv("AI_MODEL", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.AI.APIKey != "from-env" {
		t.Errorf("apiKey = %q, env must override the file", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", cfg.AI.Model)
	}
	if cfg.SessionTTL() != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.SessionTTL())
	}
}

func TestValidate_MissingCredential(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted empty API key")
	}
	cfg.AI.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate rejected configured key: %v", err)
	}
}
