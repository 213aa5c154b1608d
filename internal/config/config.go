// Package config resolves the settings of one avatargen invocation. A Config
// is built once at startup from defaults, an optional YAML file, a .env file
// and the environment, then handed to the collaborators that need it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mhpenta/avatargen"
)

const (
	// DefaultFile is read when present and no --config flag is given.
	DefaultFile = "avatargen.yaml"

	// DefaultEnvFile is loaded when present and no --env-file flag is given.
	DefaultEnvFile = ".env"

	ProviderSDK  = "sdk"
	ProviderREST = "rest"

	manifestFilename = "manifest.json"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyLegacy = "GOOGLE_API_KEY"
	EnvProvider     = "AVATARGEN_PROVIDER"
	EnvBaseURL      = "AVATARGEN_BASE_URL"
)

// ErrMissingAPIKey is returned when no credential could be resolved.
var ErrMissingAPIKey = errors.New("missing API key: set " + EnvAPIKey + " in the environment or a .env file")

// Config is the resolved configuration.
type Config struct {
	// APIKey never comes from the YAML file so the file can be committed.
	APIKey string `yaml:"-"`

	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`

	CatalogPath  string `yaml:"catalog"`
	OutputDir    string `yaml:"output_dir"`
	ManifestPath string `yaml:"manifest"` // empty means <output_dir>/manifest.json
	LogPath      string `yaml:"log_file"`

	Delay time.Duration `yaml:"delay"`

	// UnitPrice is the per-image price in USD for the cost estimate. Zero
	// means use the selected model's published price.
	UnitPrice float64 `yaml:"unit_price"`

	Style       string `yaml:"style"`
	AspectRatio string `yaml:"aspect_ratio"`
	Size        string `yaml:"size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:    ProviderSDK,
		Model:       string(avatargen.ModelNanoBanana1),
		CatalogPath: filepath.Join("data", "authors.json"),
		OutputDir:   filepath.Join("assets", "avatars"),
		LogPath:     "avatar-generation.log",
		Delay:       avatargen.DefaultDelay,
		AspectRatio: avatargen.AspectRatio1x1.String(),
		Size:        avatargen.ImageSize1K.String(),
	}
}

// Load builds a Config from defaults and the YAML file at path. When
// required is false a missing file is not an error.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. When required is false
// a missing file is not an error.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if key := strings.TrimSpace(getenv(EnvAPIKey)); key != "" {
		c.APIKey = key
	} else if key := strings.TrimSpace(getenv(EnvAPIKeyLegacy)); key != "" {
		c.APIKey = key
	}
	if p := strings.TrimSpace(getenv(EnvProvider)); p != "" {
		c.Provider = p
	}
	if u := strings.TrimSpace(getenv(EnvBaseURL)); u != "" {
		c.BaseURL = u
	}
}

// Manifest returns the manifest path.
func (c Config) Manifest() string {
	if c.ManifestPath != "" {
		return c.ManifestPath
	}
	return filepath.Join(c.OutputDir, manifestFilename)
}

// Validate checks everything except the credential.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderSDK, ProviderREST:
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderSDK, ProviderREST)
	}
	if c.CatalogPath == "" {
		return errors.New("catalog path is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %v", c.Delay)
	}
	if c.UnitPrice < 0 {
		return fmt.Errorf("unit price must not be negative, got %v", c.UnitPrice)
	}
	if !avatargen.ValidAspectRatio(avatargen.AspectRatio(c.AspectRatio)) {
		return fmt.Errorf("unsupported aspect ratio %q", c.AspectRatio)
	}
	if !avatargen.ValidImageSize(avatargen.ImageSize(c.Size)) {
		return fmt.Errorf("unsupported image size %q", c.Size)
	}
	return nil
}

// RequireAPIKey fails with ErrMissingAPIKey when no credential is set.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// GenerateConfig converts the image settings into per-request options.
func (c Config) GenerateConfig() *avatargen.GenerateConfig {
	gc := avatargen.DefaultConfig()
	gc.AspectRatio = avatargen.AspectRatio(c.AspectRatio)
	if c.Size != "" {
		gc.Size = avatargen.ImageSize(c.Size)
	}
	return gc
}
