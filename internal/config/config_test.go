package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got, want := cfg.Manifest(), filepath.Join("assets", "avatars", "manifest.json"); got != want {
		t.Fatalf("manifest path = %q, want %q", got, want)
	}
}

func TestLoadMissingRequiredFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatargen.yaml")
	doc := `provider: rest
model: nano-banana-2
catalog: authors.yaml
output_dir: out
delay: 250ms
unit_price: 0.134
size: 2K
api_key: ignored
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Provider = ProviderREST
	want.Model = "nano-banana-2"
	want.CatalogPath = "authors.yaml"
	want.OutputDir = "out"
	want.Delay = 250 * time.Millisecond
	want.UnitPrice = 0.134
	want.Size = "2K"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Manifest() != filepath.Join("out", "manifest.json") {
		t.Fatalf("manifest should follow output dir, got %q", cfg.Manifest())
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{name: "primary key", env: map[string]string{EnvAPIKey: "primary", EnvAPIKeyLegacy: "legacy"}, wantKey: "primary"},
		{name: "legacy fallback", env: map[string]string{EnvAPIKeyLegacy: "legacy"}, wantKey: "legacy"},
		{name: "blank ignored", env: map[string]string{EnvAPIKey: "   "}, wantKey: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			if cfg.APIKey != tt.wantKey {
				t.Fatalf("api key = %q, want %q", cfg.APIKey, tt.wantKey)
			}
		})
	}

	cfg := Default()
	cfg.ApplyEnv(func(k string) string {
		return map[string]string{EnvProvider: "rest", EnvBaseURL: "http://localhost:9"}[k]
	})
	if cfg.Provider != ProviderREST || cfg.BaseURL != "http://localhost:9" {
		t.Fatalf("provider/base url not applied: %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("AVATARGEN_TEST_ENV_FILE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("AVATARGEN_TEST_ENV_FILE", "")
	os.Unsetenv("AVATARGEN_TEST_ENV_FILE")

	if err := LoadEnvFile(path, true); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("AVATARGEN_TEST_ENV_FILE"); got != "from-file" {
		t.Fatalf("env = %q, want from-file", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), false); err != nil {
		t.Fatalf("optional missing env file should be ignored: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), true); err == nil {
		t.Fatal("required missing env file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad provider", mutate: func(c *Config) { c.Provider = "carrier-pigeon" }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.Delay = -time.Second }, wantErr: true},
		{name: "negative price", mutate: func(c *Config) { c.UnitPrice = -1 }, wantErr: true},
		{name: "bad ratio", mutate: func(c *Config) { c.AspectRatio = "21:9" }, wantErr: true},
		{name: "bad size", mutate: func(c *Config) { c.Size = "8K" }, wantErr: true},
		{name: "no catalog", mutate: func(c *Config) { c.CatalogPath = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	cfg.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateConfig(t *testing.T) {
	cfg := Default()
	cfg.AspectRatio = "3:4"
	gc := cfg.GenerateConfig()
	if gc.AspectRatio != "3:4" || gc.Size != "1K" {
		t.Fatalf("unexpected generate config %+v", gc)
	}
}
