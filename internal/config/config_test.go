package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}

	if cfg.Source.Provider != "mock" {
		t.Errorf("expected default provider mock, got %q", cfg.Source.Provider)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.UpstreamTimeout() != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.UpstreamTimeout())
	}
	if cfg.WatchlistPath() != "config.json" {
		t.Errorf("expected watchlist at config.json, got %q", cfg.WatchlistPath())
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  dir: /var/lib/cardwatch
  archive_db: ""
source:
  provider: ebay
  timeout_sec: 5
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Source.Provider != "ebay" {
		t.Errorf("expected provider ebay, got %q", cfg.Source.Provider)
	}
	if cfg.UpstreamTimeout() != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.UpstreamTimeout())
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.WatchlistPath() != filepath.Join("/var/lib/cardwatch", "config.json") {
		t.Errorf("unexpected watchlist path %q", cfg.WatchlistPath())
	}
	if cfg.ArchivePath() != "" {
		t.Errorf("empty archive_db should disable the archive, got %q", cfg.ArchivePath())
	}
}

func TestLoad_UnparseableFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("unparseable config should error, not fall back to defaults")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	cfg.Source.Provider = "scraper"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail validation")
	}

	cfg = defaults()
	cfg.Source.TimeoutSec = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail validation")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CARDWATCH_SOURCE", "ebay")
	t.Setenv("PORT", "3000")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.Provider != "ebay" {
		t.Errorf("CARDWATCH_SOURCE should override provider, got %q", cfg.Source.Provider)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("PORT should override addr, got %q", cfg.Server.Addr)
	}
}
