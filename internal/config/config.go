package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutDir    = "docs"
	DefaultTimezone  = "Europe/Amsterdam"
	DefaultUserAgent = "Mozilla/5.0 (compatible; expat-events/1.0)"
	DefaultTimeout   = 30 * time.Second

	// DefaultCategory is used for sources that do not name a category.
	DefaultCategory = "other"

	// ParserExpatInfoTable identifies the ExpatInfoHolland table layout:
	// EVENT TYPE | ORGANIZATION | CITY | DATE | LOCATION
	ParserExpatInfoTable = "expatinfo_table"
)

// Source names a page to scrape, the category its events belong to and the
// extraction routine that understands its markup.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Category string `yaml:"category" json:"category"`
	Parser   string `yaml:"parser" json:"parser"`
}

// CategoryOrDefault returns the source category, or DefaultCategory when unset.
func (s Source) CategoryOrDefault() string {
	if strings.TrimSpace(s.Category) == "" {
		return DefaultCategory
	}
	return s.Category
}

// Config is the complete set of values a run needs. Nothing in the pipeline reads
// package-level state, so tests can substitute their own sources.
type Config struct {
	OutDir    string            `yaml:"out_dir" json:"out_dir"`
	Timezone  string            `yaml:"timezone" json:"timezone"`
	UserAgent string            `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration     `yaml:"timeout" json:"timeout"`
	Sources   []Source          `yaml:"sources" json:"sources"`
	Files     map[string]string `yaml:"categories" json:"categories"`
}

// DefaultSources returns the built-in source list.
func DefaultSources() []Source {
	return []Source{
		{
			Name:     "ExpatInfoHolland – Networking Events",
			URL:      "https://expatinfoholland.nl/events/netherlands-networking-events/",
			Category: "networking",
			Parser:   ParserExpatInfoTable,
		},
		{
			Name:     "ExpatInfoHolland – Workshops & Training",
			URL:      "https://expatinfoholland.nl/events/netherlands-workshops-training/",
			Category: "workshops_upskilling",
			Parser:   ParserExpatInfoTable,
		},
	}
}

// DefaultFiles returns the built-in category to file name table.
func DefaultFiles() map[string]string {
	return map[string]string{
		"networking":           "networking.ics",
		"workshops_upskilling": "workshops_upskilling.ics",
		DefaultCategory:        "other.ics",
	}
}

// Default returns an in-memory configuration equal to the built-in one.
func Default() *Config {
	return &Config{
		OutDir:    DefaultOutDir,
		Timezone:  DefaultTimezone,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		Sources:   DefaultSources(),
		Files:     DefaultFiles(),
	}
}

// Normalize fills in missing values so partially written files still work.
// An absent source list means the built-in sources; an explicitly empty list is kept.
func (c *Config) Normalize() {
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Sources == nil {
		c.Sources = DefaultSources()
	}
	if c.Files == nil {
		c.Files = DefaultFiles()
	}
}

// Validate reports configuration mistakes that would otherwise surface mid-run.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source %d: name is empty", i)
		}
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("source %q: url is empty", s.Name)
		}
	}
	for category, name := range c.Files {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("category %q: file name %q must be a plain file name", category, name)
		}
	}
	return nil
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FileFor returns the output file name for a category, falling back to
// "{category}.ics" for categories missing from the table.
func (c *Config) FileFor(category string) string {
	if name, ok := c.Files[category]; ok && name != "" {
		return name
	}
	return category + ".ics"
}

// Load reads a YAML configuration file. Unlike the built-in defaults, a file is
// never created on first run: the caller falls back to Default() when no path is set.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes and normalizes the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
