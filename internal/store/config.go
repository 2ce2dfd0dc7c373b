package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config holds the per-store settings kept in the store directory's
// "config" file, git-config style INI:
//
//	[core]
//	compression = true
//	compressionlevel = 2
//	cachesize = 256
//
//	[remote]
//	url = ttl.sh/myorg/trees:main
type Config struct {
	Compression      bool
	CompressionLevel int
	CacheSize        int
	RemoteURL        string
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Compression:      true,
		CompressionLevel: 2,
		CacheSize:        256,
	}
}

func configPath(dir string) string {
	return filepath.Join(dir, "config")
}

// LoadConfig reads dir's config file, falling back to defaults for a
// missing file or missing keys.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := ini.Load(configPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	core := f.Section("core")
	cfg.Compression = core.Key("compression").MustBool(cfg.Compression)
	cfg.CompressionLevel = core.Key("compressionlevel").MustInt(cfg.CompressionLevel)
	cfg.CacheSize = core.Key("cachesize").MustInt(cfg.CacheSize)
	cfg.RemoteURL = f.Section("remote").Key("url").String()

	return cfg, nil
}

// Save writes cfg to dir's config file.
func (c *Config) Save(dir string) error {
	f := ini.Empty()

	core := f.Section("core")
	core.Key("compression").SetValue(fmt.Sprintf("%t", c.Compression))
	core.Key("compressionlevel").SetValue(fmt.Sprintf("%d", c.CompressionLevel))
	core.Key("cachesize").SetValue(fmt.Sprintf("%d", c.CacheSize))

	if c.RemoteURL != "" {
		f.Section("remote").Key("url").SetValue(c.RemoteURL)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := f.SaveTo(configPath(dir)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
