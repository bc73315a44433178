// Package config handles repository configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents repository configuration stored in .folio/config.yml.
type Config struct {
	Site   SiteConfig      `yaml:"site"`
	Server ServerConfig    `yaml:"server"`
	Links  LinkCheckConfig `yaml:"links"`
}

// SiteConfig holds what the publications page shows around the catalog.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"` // Absolute site URL, used for canonical links

	// HighlightAuthor is emphasised wherever it appears in a byline.
	// Matched by exact string equality.
	HighlightAuthor string `yaml:"highlight_author,omitempty"`
}

// ServerConfig configures folio serve.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LinkCheckConfig configures folio links.
type LinkCheckConfig struct {
	RatePerSecond  float64 `yaml:"rate_per_second"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	UserAgent      string  `yaml:"user_agent,omitempty"`
}

// Timeout returns the per-request timeout as a duration.
func (l LinkCheckConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

const (
	FolioDir         = ".folio"
	ConfigFile       = "config.yml"
	PublicationsFile = "publications.jsonl"
	ProjectsFile     = "projects.jsonl"
	CacheDir         = "cache"
	DBFile           = "folio.db"
)

// Defaults for a freshly initialised repository.
const (
	DefaultTitle          = "Publications"
	DefaultAddr           = ":8080"
	DefaultRatePerSecond  = 2.0
	DefaultTimeoutSeconds = 10
)

// EnvAddr overrides Server.Addr when set.
const EnvAddr = "FOLIO_ADDR"

// ErrNotRepository is returned when no .folio directory is found.
var ErrNotRepository = errors.New("not in a folio repository (no .folio directory found)")

// Default returns the configuration written by folio init.
func Default() *Config {
	return &Config{
		Site:   SiteConfig{Title: DefaultTitle},
		Server: ServerConfig{Addr: DefaultAddr},
		Links: LinkCheckConfig{
			RatePerSecond:  DefaultRatePerSecond,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// FolioPath returns the path to the .folio directory from a root path.
func FolioPath(root string) string {
	return filepath.Join(root, FolioDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, FolioDir, ConfigFile)
}

// PublicationsPath returns the path to publications.jsonl from a root path.
func PublicationsPath(root string) string {
	return filepath.Join(root, FolioDir, PublicationsFile)
}

// ProjectsPath returns the path to projects.jsonl from a root path.
func ProjectsPath(root string) string {
	return filepath.Join(root, FolioDir, ProjectsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, FolioDir, CacheDir)
}

// DBPath returns the path to folio.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, FolioDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a folio repository.
func IsRepository(root string) bool {
	info, err := os.Stat(FolioPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a folio repository.
// Returns the repository root path or ErrNotRepository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// Fields missing from the file keep their defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if c.Site.Title == "" {
		return fmt.Errorf("invalid config: site.title is required")
	}
	if c.Site.BaseURL != "" {
		if err := ValidateBaseURL(c.Site.BaseURL); err != nil {
			return err
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("invalid config: server.addr is required")
	}
	if c.Links.RatePerSecond <= 0 {
		return fmt.Errorf("invalid config: links.rate_per_second must be positive, got %v", c.Links.RatePerSecond)
	}
	if c.Links.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config: links.timeout_seconds must be positive, got %d", c.Links.TimeoutSeconds)
	}
	return nil
}

// ValidateBaseURL checks that the base URL is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid config: site.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid config: site.base_url must be an absolute http(s) URL: %s", raw)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
