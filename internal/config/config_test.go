package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, DefaultPattern)
	}
	if !cfg.DiscardNonFilenamePatternParts {
		t.Error("DiscardNonFilenamePatternParts should default to true")
	}
	if cfg.ReferenceFiles != "**/*.html" {
		t.Errorf("ReferenceFiles = %q, want %q", cfg.ReferenceFiles, "**/*.html")
	}
	if cfg.Precision != 8 {
		t.Errorf("Precision = %d, want 8", cfg.Precision)
	}
	if cfg.AlwaysRun {
		t.Error("AlwaysRun should default to false")
	}
	if len(cfg.Environments) != 1 || cfg.Environments[0] != "production" {
		t.Errorf("Environments = %v, want [production]", cfg.Environments)
	}
	if cfg.Manifest != "" {
		t.Errorf("Manifest = %q, want disabled by default", cfg.Manifest)
	}
	if len(cfg.Infixes) != 0 {
		t.Errorf("Infixes = %v, want empty", cfg.Infixes)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Precision != 8 {
		t.Errorf("Precision = %d, want default 8", cfg.Precision)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "precision": 12,
  "manifest": "manifest.json",
  "environments": ["production", "staging"],
  "prependHost": {"production": "https://cdn.example.com"},
  "infixes": ["@2x"]
}`
	if err := os.WriteFile(filepath.Join(dir, "revstamp.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Precision != 12 {
		t.Errorf("Precision = %d, want 12", cfg.Precision)
	}
	if cfg.Manifest != "manifest.json" {
		t.Errorf("Manifest = %q, want manifest.json", cfg.Manifest)
	}
	if len(cfg.Environments) != 2 {
		t.Errorf("Environments = %v, want two entries", cfg.Environments)
	}
	if cfg.HostFor("production") != "https://cdn.example.com" {
		t.Errorf("HostFor(production) = %q", cfg.HostFor("production"))
	}
	if cfg.HostFor("development") != "" {
		t.Errorf("HostFor(development) = %q, want empty", cfg.HostFor("development"))
	}
	// Unset fields keep their defaults.
	if cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern = %q, want default", cfg.Pattern)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"pattern does not compile", func(c *Config) { c.Pattern = `DIGEST\((` }, "pattern"},
		{"pattern without capture group", func(c *Config) { c.Pattern = `DIGEST\([^)]+\)` }, "pattern"},
		{"pattern with two capture groups", func(c *Config) { c.Pattern = `(DIGEST)\(([^)]+)\)` }, "pattern"},
		{"zero precision", func(c *Config) { c.Precision = 0 }, "precision"},
		{"negative precision", func(c *Config) { c.Precision = -3 }, "precision"},
		{"precision beyond digest length", func(c *Config) { c.Precision = 65 }, "precision"},
		{"empty referenceFiles", func(c *Config) { c.ReferenceFiles = "" }, "referenceFiles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			cerr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestShouldRun(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.ShouldRun("production") {
		t.Error("should run in production by default")
	}
	if cfg.ShouldRun("development") {
		t.Error("should not run in development by default")
	}

	cfg.AlwaysRun = true
	if !cfg.ShouldRun("development") {
		t.Error("alwaysRun should force the pass in any environment")
	}
}
