package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/folio/config.yml.
type GlobalConfig struct {
	CatalogPath string `yaml:"catalog_path,omitempty"` // Default repository root
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "folio"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// EnvCatalogPath overrides catalog_path when set.
	EnvCatalogPath = "FOLIO_CATALOG_PATH"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/folio/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	var cfg GlobalConfig

	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if env := os.Getenv(EnvCatalogPath); env != "" {
		cfg.CatalogPath = env
	}
	if cfg.CatalogPath != "" {
		cfg.CatalogPath = ExpandPath(cfg.CatalogPath)
	}

	return &cfg, nil
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No folio repository found.

Run 'folio init' in the site directory, or create %s to set a default:
  mkdir -p %s
  echo 'catalog_path: /path/to/your/site' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
