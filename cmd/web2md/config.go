package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/goquery"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from the optional YAML config file.
// Zero values mean the built-in default.
type Config struct {
	// Selectors replaces web2md.DefaultSelectors when non-empty.
	Selectors []string `yaml:"selectors"`

	Conversion web2md.ConversionOptions `yaml:"conversion"`

	Timeout   time.Duration     `yaml:"timeout"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`

	// Dir holds intermediate and output files.
	Dir string `yaml:"dir"`

	// OutputPrefix names saved session files, e.g. output01.md.
	OutputPrefix string `yaml:"output_prefix"`

	// Render fetches pages through a headless browser.
	Render bool `yaml:"render"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Conversion:   web2md.DefaultConversionOptions(),
		OutputPrefix: "output",
	}
}

// ConfigPath returns the config file to load. An explicit path always wins,
// then $WEB2MD_CONFIG. Otherwise the XDG location is used if the file exists.
// It returns "" when there is nothing to load.
func ConfigPath(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if path := getenv("WEB2MD_CONFIG"); path != "" {
		return path
	}

	base := getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := getenv("HOME")
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	path := filepath.Join(base, "web2md", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LoadConfig reads the config file at path over the defaults.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, web2md.Errorf(web2md.EFILE, "config file not found: %s", path)
	} else if err != nil {
		return nil, web2md.WrapError(err, web2md.EFILE, "failed to read config file")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, web2md.WrapError(err, web2md.EINVALID, "invalid config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that can never work.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return web2md.Errorf(web2md.EINVALID, "timeout must not be negative")
	}
	if c.Conversion.BodyWidth < 0 {
		return web2md.Errorf(web2md.EINVALID, "body width must not be negative")
	}
	if c.OutputPrefix == "" {
		return web2md.Errorf(web2md.EINVALID, "output prefix must not be empty")
	}
	if len(c.Selectors) > 0 {
		return goquery.ValidateSelectors(c.Selectors)
	}
	return nil
}
