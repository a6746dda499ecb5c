// Package config loads the deck builder's settings from a YAML or TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/deck"
)

// Config holds the settings shared by every shell.
type Config struct {
	Catalog      string `yaml:"catalog" toml:"catalog"`             // path to cards_data.json
	PointCap     int    `yaml:"point_cap" toml:"point_cap"`         // display-only point budget
	NameVariant  string `yaml:"name_variant" toml:"name_variant"`   // e.g. "en_name"; empty = from Language
	Language     string `yaml:"language" toml:"language"`           // "zh", "ja" or "en"
	Creator      string `yaml:"creator" toml:"creator"`             // tool name in the .ydk header
	WatchCatalog bool   `yaml:"watch_catalog" toml:"watch_catalog"` // reload the catalog when it changes
	Listen       string `yaml:"listen" toml:"listen"`               // HTTP listen address
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Catalog:  "cards_data.json",
		PointCap: deck.DefaultPointCap,
		Language: "en",
		Creator:  deck.DefaultCreator,
		Listen:   ":8080",
	}
}

// Load reads the file at path on top of the defaults. The format is chosen by
// extension: .yaml/.yml or .toml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.PointCap < 0 {
		return fmt.Errorf("invalid point_cap %d: must not be negative", c.PointCap)
	}
	if c.NameVariant != "" && !catalog.ValidNameKey(catalog.NameKey(c.NameVariant)) {
		return fmt.Errorf("invalid name_variant %q", c.NameVariant)
	}
	switch c.Language {
	case "", "zh", "ja", "en":
	default:
		return fmt.Errorf("invalid language %q (want zh, ja or en)", c.Language)
	}
	return nil
}

// NameKey returns the name variant shells display: the explicit
// name_variant, else the one matching Language.
func (c *Config) NameKey() catalog.NameKey {
	if c.NameVariant != "" {
		return catalog.NameKey(c.NameVariant)
	}
	switch c.Language {
	case "zh":
		return catalog.NameYGOPro
	case "ja":
		return catalog.NameJapan
	default:
		return catalog.NameEnglish
	}
}
