package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// AllRegions is the pseudo-region code that merges every region in the catalog.
const AllRegions = "all"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Playlist PlaylistConfig `toml:"playlist"`
	Probe    ProbeConfig    `toml:"probe"`
}

// SourceConfig describes where the channel catalog is downloaded from.
type SourceConfig struct {
	CatalogURL     string `toml:"catalog_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Gzipped        bool   `toml:"gzipped"`
}

// PlaylistConfig controls which regions are generated and how entries are rendered.
type PlaylistConfig struct {
	Regions           []string `toml:"regions"`
	StreamURLTemplate string   `toml:"stream_url_template"` // {id} is replaced by the channel id
	GuideURLTemplate  string   `toml:"guide_url_template"`  // {region} is replaced by the region code
	OutputDir         string   `toml:"output_dir"`
	FilePrefix        string   `toml:"file_prefix"`
	PlaceholderName   string   `toml:"placeholder_name"`
}

// ProbeConfig contains settings for stream reachability checks.
type ProbeConfig struct {
	RateLimit      float64 `toml:"rate_limit"` // requests per second
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the catalog fetch timeout as a [time.Duration].
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Timeout returns the per-request probe timeout as a [time.Duration].
func (p ProbeConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports missing or malformed settings as [ErrInvalidConfig].
func (c *Config) Validate() error {
	switch {
	case c.Source.CatalogURL == "":
		return fmt.Errorf("%w: source.catalog_url is empty", ErrInvalidConfig)
	case c.Source.TimeoutSeconds <= 0:
		return fmt.Errorf("%w: source.timeout_seconds must be positive", ErrInvalidConfig)
	case len(c.Playlist.Regions) == 0:
		return fmt.Errorf("%w: playlist.regions is empty", ErrInvalidConfig)
	case !strings.Contains(c.Playlist.StreamURLTemplate, "{id}"):
		return fmt.Errorf("%w: playlist.stream_url_template must contain {id}", ErrInvalidConfig)
	case !strings.Contains(c.Playlist.GuideURLTemplate, "{region}"):
		return fmt.Errorf("%w: playlist.guide_url_template must contain {region}", ErrInvalidConfig)
	case c.Playlist.OutputDir == "":
		return fmt.Errorf("%w: playlist.output_dir is empty", ErrInvalidConfig)
	case c.Playlist.FilePrefix == "":
		return fmt.Errorf("%w: playlist.file_prefix is empty", ErrInvalidConfig)
	case c.Playlist.PlaceholderName == "":
		return fmt.Errorf("%w: playlist.placeholder_name is empty", ErrInvalidConfig)
	}

	for _, code := range c.Playlist.Regions {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: playlist.regions contains an empty code", ErrInvalidConfig)
		}
	}

	return nil
}
