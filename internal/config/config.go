// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/folio-cv/folio/internal/citation"
)

// Config represents repository configuration stored in .folio/config.json.
type Config struct {
	DefaultStyle string `json:"default_style"`        // Citation style used when none is requested
	SiteTitle    string `json:"site_title,omitempty"` // Heading of the citations page
	Owner        string `json:"owner,omitempty"`      // Portfolio owner, shown on the page
}

const (
	FolioDir         = ".folio"
	ConfigFile       = "config.json"
	PublicationsFile = "publications.jsonl"
	CacheDir         = "cache"
	DBFile           = "publications.db"
)

// DefaultConfig returns the configuration written by folio init. The
// default style is left empty so the global default_style still applies.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle: "Publications",
	}
}

// FolioPath returns the path to the .folio directory from a root path.
func FolioPath(root string) string {
	return filepath.Join(root, FolioDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, FolioDir, ConfigFile)
}

// PublicationsPath returns the path to publications.jsonl from a root path.
func PublicationsPath(root string) string {
	return filepath.Join(root, FolioDir, PublicationsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, FolioDir, CacheDir)
}

// DBPath returns the path to publications.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, FolioDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a folio repository.
func IsRepository(root string) bool {
	info, err := os.Stat(FolioPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a folio repository.
// Returns the repository root path or an error if not found.
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
			return "", fmt.Errorf("not in a folio repository (no %s directory found)", FolioDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResolveStyle picks the default citation style: the repository's
// default_style when set, then the global one, then APA.
func ResolveStyle(repo *Config, global *GlobalConfig) citation.Style {
	if repo != nil {
		if s, ok := citation.ParseStyle(repo.DefaultStyle); ok {
			return s
		}
	}
	if global != nil {
		if s, ok := citation.ParseStyle(global.DefaultStyle); ok {
			return s
		}
	}
	return citation.StyleAPA
}

// ValidateStyle checks that a style name is one of the supported styles.
func ValidateStyle(style string) error {
	if style == "" {
		return nil // Empty defers to the global default
	}
	if _, ok := citation.ParseStyle(style); ok {
		return nil
	}

	names := make([]string, 0, len(citation.Styles()))
	for _, s := range citation.Styles() {
		names = append(names, string(s))
	}
	return fmt.Errorf("invalid default_style: %s (valid: %s)", style, strings.Join(names, ", "))
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
