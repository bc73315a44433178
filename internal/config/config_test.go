package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/site"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"FolioPath", FolioPath, "/test/site/.folio"},
		{"ConfigPath", ConfigPath, "/test/site/.folio/config.yml"},
		{"PublicationsPath", PublicationsPath, "/test/site/.folio/publications.jsonl"},
		{"ProjectsPath", ProjectsPath, "/test/site/.folio/projects.jsonl"},
		{"CachePath", CachePath, "/test/site/.folio/cache"},
		{"DBPath", DBPath, "/test/site/.folio/cache/folio.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func makeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(FolioPath(root), 0755); err != nil {
		t.Fatalf("Failed to create .folio: %v", err)
	}
	return root
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(FolioPath(tmpDir), 0755); err != nil {
		t.Fatalf("Failed to create .folio: %v", err)
	}
	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(FolioPath(tmpDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .folio file: %v", err)
	}

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when .folio is a file")
	}
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "site")
	nestedDir := filepath.Join(repoDir, "static", "img")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(FolioPath(repoDir), 0755); err != nil {
		t.Fatalf("Failed to create .folio: %v", err)
	}

	for _, start := range []string{nestedDir, repoDir} {
		found, err := FindRepository(start)
		if err != nil {
			t.Fatalf("FindRepository(%q) error = %v", start, err)
		}
		if found != repoDir {
			t.Errorf("FindRepository(%q) = %q, want %q", start, found, repoDir)
		}
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	_, err := FindRepository(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("FindRepository() error = %v, want ErrNotRepository", err)
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	root := makeRepo(t)

	cfg := Default()
	cfg.Site.Title = "Thuy Pham's Page"
	cfg.Site.BaseURL = "https://thithuypham.github.io"
	cfg.Site.HighlightAuthor = "Thuy Thi Pham"
	cfg.Server.Addr = "127.0.0.1:9000"

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Site != cfg.Site {
		t.Errorf("Site = %+v, want %+v", loaded.Site, cfg.Site)
	}
	if loaded.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", loaded.Server.Addr)
	}
	if loaded.Links != cfg.Links {
		t.Errorf("Links = %+v, want %+v", loaded.Links, cfg.Links)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	root := makeRepo(t)
	data := "site:\n  title: My Papers\n"
	if err := os.WriteFile(ConfigPath(root), []byte(data), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Site.Title != "My Papers" {
		t.Errorf("Site.Title = %q", cfg.Site.Title)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Links.RatePerSecond != DefaultRatePerSecond {
		t.Errorf("Links.RatePerSecond = %v, want default", cfg.Links.RatePerSecond)
	}
}

func TestLoad_EnvAddrOverride(t *testing.T) {
	root := makeRepo(t)
	if err := Default().Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	t.Setenv(EnvAddr, ":9999")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoad_NotFound(t *testing.T) {
	root := makeRepo(t)

	if _, err := Load(root); err == nil {
		t.Error("Load() should return error when config not found")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := makeRepo(t)
	if err := os.WriteFile(ConfigPath(root), []byte("site: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing title", func(c *Config) { c.Site.Title = "" }, true},
		{"relative base url", func(c *Config) { c.Site.BaseURL = "/site" }, true},
		{"absolute base url", func(c *Config) { c.Site.BaseURL = "https://example.org" }, false},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"zero rate", func(c *Config) { c.Links.RatePerSecond = 0 }, true},
		{"negative timeout", func(c *Config) { c.Links.TimeoutSeconds = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	if got := ExpandPath("~/sites"); got != filepath.Join(home, "sites") {
		t.Errorf("ExpandPath(~/sites) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
