package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Save writes the config to the user's config directory as TOML.
func (c *Config) Save() (string, error) {
	path := filepath.Join(ConfigDir(), "config.toml")
	return path, c.SaveTo(path)
}

// SaveTo writes the config to path, as TOML for a .toml extension and
// YAML otherwise.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := c.marshal(format(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) marshal(f fileFormat) ([]byte, error) {
	if f == formatTOML {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}
