package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
source: "assets/logo.png"
name: "Demo App"
output_dir: "public"

theme:
  theme_color: "#123456"
  background_color: "#000000"
  tile_color: "#2b5797"
  display: "minimal-ui"
  base_path: "/static/"

images:
  fill_color: "#ffffffff"
  filter: "catmullrom"
  concurrency: 4

deploy:
  enabled: true
  target: "user@host.com:/var/www/static"
  delete: true

ntfy:
  enabled: true
  topic: "favicons"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	// Load config
	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Validate fields
	if cfg.Source != "assets/logo.png" {
		t.Errorf("Expected source 'assets/logo.png', got '%s'", cfg.Source)
	}
	if cfg.Name != "Demo App" {
		t.Errorf("Expected name 'Demo App', got '%s'", cfg.Name)
	}
	if cfg.AppShortName() != "Demo App" {
		t.Errorf("Expected short_name to default to name, got '%s'", cfg.AppShortName())
	}
	if cfg.OutputDir != "public" {
		t.Errorf("Expected output_dir 'public', got '%s'", cfg.OutputDir)
	}
	if cfg.Theme.ThemeColor != "#123456" {
		t.Errorf("Expected theme_color '#123456', got '%s'", cfg.Theme.ThemeColor)
	}
	if cfg.Theme.Display != "minimal-ui" {
		t.Errorf("Expected display 'minimal-ui', got '%s'", cfg.Theme.Display)
	}
	if cfg.Theme.BasePath != "/static/" {
		t.Errorf("Expected base_path '/static/', got '%s'", cfg.Theme.BasePath)
	}
	if cfg.Images.Filter != "catmullrom" {
		t.Errorf("Expected filter 'catmullrom', got '%s'", cfg.Images.Filter)
	}
	if cfg.Images.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.Images.Concurrency)
	}
	if !cfg.Deploy.Enabled || cfg.Deploy.Target != "user@host.com:/var/www/static" || !cfg.Deploy.Delete {
		t.Errorf("Unexpected deploy config: %+v", cfg.Deploy)
	}
	if cfg.Ntfy.Server != "https://ntfy.sh" {
		t.Errorf("Expected default ntfy server, got '%s'", cfg.Ntfy.Server)
	}
	if got := cfg.Fill(); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected opaque white fill, got %v", got)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("name: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("Expected output dir %q, got %q", DefaultOutputDir, cfg.OutputDir)
	}
	if cfg.Theme.Display != "standalone" {
		t.Errorf("Expected display 'standalone', got '%s'", cfg.Theme.Display)
	}
	if got := cfg.Fill(); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 0}) {
		t.Errorf("Expected transparent white fill, got %v", got)
	}
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envFile, []byte("FAVICON_TILE_COLOR=#00aba9\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("FAVICON_TILE_COLOR") })

	t.Setenv("FAVICON_NAME", "From Env")
	t.Setenv("FAVICON_CONCURRENCY", "2")

	cfg := &Config{Name: "From YAML", OutputDir: "out"}
	if err := LoadEnv(cfg, envFile, filepath.Join(tmpDir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Name != "From Env" {
		t.Errorf("Expected env to override name, got '%s'", cfg.Name)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("Expected unset env to keep output dir, got '%s'", cfg.OutputDir)
	}
	if cfg.Images.Concurrency != 2 {
		t.Errorf("Expected concurrency 2, got %d", cfg.Images.Concurrency)
	}
	if cfg.Theme.TileColor != "#00aba9" {
		t.Errorf("Expected tile color from .env, got '%s'", cfg.Theme.TileColor)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Source = "logo.png"
		cfg.Name = "Demo"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing source", func(c *Config) { c.Source = "" }, "source"},
		{"blank name", func(c *Config) { c.Name = "  " }, "name"},
		{"missing output", func(c *Config) { c.OutputDir = "" }, "output_dir"},
		{"bad fill", func(c *Config) { c.Images.FillColor = "red" }, "images.fill_color"},
		{"negative concurrency", func(c *Config) { c.Images.Concurrency = -1 }, "images.concurrency"},
		{"deploy without target", func(c *Config) { c.Deploy.Enabled = true }, "deploy.target"},
		{"ntfy without topic", func(c *Config) { c.Ntfy.Enabled = true }, "ntfy.topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestCheckSource(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "logo.png")
	if err := os.WriteFile(file, []byte("png"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := (&Config{Source: file}).CheckSource(); err != nil {
		t.Errorf("Expected existing file to pass, got %v", err)
	}
	if err := (&Config{Source: filepath.Join(tmpDir, "nope.png")}).CheckSource(); err == nil {
		t.Error("Expected error for missing file")
	}
	if err := (&Config{Source: tmpDir}).CheckSource(); err == nil {
		t.Error("Expected error for directory")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ffffff00", color.NRGBA{R: 255, G: 255, B: 255, A: 0}, false},
		{"#da532c", color.NRGBA{R: 0xda, G: 0x53, B: 0x2c, A: 255}, false},
		{"fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
