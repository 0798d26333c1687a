package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultOutputDir is used when no output folder is given
const DefaultOutputDir = "static"

// Config represents one generation run
type Config struct {
	Source    string `yaml:"source" env:"FAVICON_SOURCE"`
	Name      string `yaml:"name" env:"FAVICON_NAME"`
	ShortName string `yaml:"short_name" env:"FAVICON_SHORT_NAME"`
	OutputDir string `yaml:"output_dir" env:"FAVICON_OUTPUT_DIR"`
	Verbose   bool   `yaml:"verbose" env:"FAVICON_VERBOSE"`

	Theme  ThemeConfig  `yaml:"theme"`
	Images ImagesConfig `yaml:"images"`
	Deploy DeployConfig `yaml:"deploy"`
	Ntfy   NtfyConfig   `yaml:"ntfy"`
}

type ThemeConfig struct {
	ThemeColor      string `yaml:"theme_color" env:"FAVICON_THEME_COLOR"`
	BackgroundColor string `yaml:"background_color" env:"FAVICON_BACKGROUND_COLOR"`
	TileColor       string `yaml:"tile_color" env:"FAVICON_TILE_COLOR"`
	Display         string `yaml:"display" env:"FAVICON_DISPLAY"`
	BasePath        string `yaml:"base_path" env:"FAVICON_BASE_PATH"`
}

type ImagesConfig struct {
	FillColor   string `yaml:"fill_color" env:"FAVICON_FILL_COLOR"`
	Filter      string `yaml:"filter" env:"FAVICON_FILTER"`
	Concurrency int    `yaml:"concurrency" env:"FAVICON_CONCURRENCY"`
}

type DeployConfig struct {
	Enabled bool   `yaml:"enabled" env:"FAVICON_DEPLOY_ENABLED"`
	Target  string `yaml:"target" env:"FAVICON_DEPLOY_TARGET"`
	SSHKey  string `yaml:"ssh_key" env:"FAVICON_DEPLOY_SSH_KEY"`
	Delete  bool   `yaml:"delete" env:"FAVICON_DEPLOY_DELETE"`
}

type NtfyConfig struct {
	Enabled bool   `yaml:"enabled" env:"FAVICON_NTFY_ENABLED"`
	Server  string `yaml:"server" env:"FAVICON_NTFY_SERVER"`
	Topic   string `yaml:"topic" env:"FAVICON_NTFY_TOPIC"`
}

// ValidationError reports bad user input; nothing has been written when it is returned
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns a config with every optional field set
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadEnv overlays FAVICON_* environment variables onto cfg. Variables from
// the given .env files are loaded first; missing files are ignored.
func LoadEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.ApplyDefaults()
	return nil
}

// ApplyDefaults fills unset optional fields
func (c *Config) ApplyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Theme.ThemeColor == "" {
		c.Theme.ThemeColor = "#ffffff"
	}
	if c.Theme.BackgroundColor == "" {
		c.Theme.BackgroundColor = "#ffffff"
	}
	if c.Theme.TileColor == "" {
		c.Theme.TileColor = "#da532c"
	}
	if c.Theme.Display == "" {
		c.Theme.Display = "standalone"
	}
	if c.Theme.BasePath == "" {
		c.Theme.BasePath = "/"
	}
	if c.Images.FillColor == "" {
		c.Images.FillColor = "#ffffff00"
	}
	if c.Images.Filter == "" {
		c.Images.Filter = "lanczos"
	}
	if c.Ntfy.Server == "" {
		c.Ntfy.Server = "https://ntfy.sh"
	}
}

// AppShortName returns the short name, falling back to the app name
func (c *Config) AppShortName() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Validate checks required fields and value formats
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return &ValidationError{Field: "source", Message: "source image is required"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "app name is required"}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return &ValidationError{Field: "output_dir", Message: "output folder is required"}
	}
	if _, err := ParseHexColor(c.Images.FillColor); err != nil {
		return &ValidationError{Field: "images.fill_color", Message: err.Error()}
	}
	if c.Images.Concurrency < 0 {
		return &ValidationError{Field: "images.concurrency", Message: "must not be negative"}
	}
	if c.Deploy.Enabled && c.Deploy.Target == "" {
		return &ValidationError{Field: "deploy.target", Message: "required when deploy is enabled"}
	}
	if c.Ntfy.Enabled && c.Ntfy.Topic == "" {
		return &ValidationError{Field: "ntfy.topic", Message: "required when ntfy is enabled"}
	}
	return nil
}

// CheckSource verifies the source image exists and is a regular file
func (c *Config) CheckSource() error {
	info, err := os.Stat(c.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Field: "source", Message: fmt.Sprintf("source image not found: %s", c.Source)}
		}
		return &ValidationError{Field: "source", Message: err.Error()}
	}
	if info.IsDir() {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("source image is a directory: %s", c.Source)}
	}
	return nil
}

// Fill returns the parsed padding color
func (c *Config) Fill() color.NRGBA {
	fill, err := ParseHexColor(c.Images.FillColor)
	if err != nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	}
	return fill
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
