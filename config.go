package arbor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file LoadOptionalConfig looks for.
const ConfigFileName = "arbor.yaml"

// Config holds the tunables of a Scene.
type Config struct {
	// TruePress decides when a latched true-press ends.
	TruePress TruePressPolicy `yaml:"true_press" toml:"true_press"`
	// ClickAnywhere fires Click on release even when the pointer has left
	// the element.
	ClickAnywhere bool `yaml:"click_anywhere" toml:"click_anywhere"`
	// LayerOffset is added to the clip layer index for the stencil test.
	LayerOffset int `yaml:"layer_offset" toml:"layer_offset"`
	// MaxMutationPasses bounds the constrained passes run after elements are
	// added or moved during an update.
	MaxMutationPasses int `yaml:"max_mutation_passes" toml:"max_mutation_passes"`
	// TabNavigation enables Tab and Shift+Tab focus traversal.
	TabNavigation bool `yaml:"tab_navigation" toml:"tab_navigation"`
	// ViewportWidth and ViewportHeight size the area top-level elements are
	// laid out and clipped in.
	ViewportWidth  float64 `yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height" toml:"viewport_height"`
	// Debug enables debug logging and tree checks.
	Debug bool `yaml:"debug" toml:"debug"`
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// DefaultConfig returns the configuration a new Scene starts with.
func DefaultConfig() Config {
	return Config{
		TruePress:         TruePressUntilRelease,
		MaxMutationPasses: 8,
		TabNavigation:     true,
		ViewportWidth:     640,
		ViewportHeight:    480,
		ScreenshotDir:     "screenshots",
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.TruePress > TruePressUntilUnpressed:
		return fmt.Errorf("%w: true_press %d", ErrInvalidConfig, c.TruePress)
	case c.MaxMutationPasses < 1:
		return fmt.Errorf("%w: max_mutation_passes must be at least 1, got %d", ErrInvalidConfig, c.MaxMutationPasses)
	case c.LayerOffset < 0 || c.LayerOffset > 254:
		return fmt.Errorf("%w: layer_offset %d out of range [0, 254]", ErrInvalidConfig, c.LayerOffset)
	case c.ViewportWidth < 0 || c.ViewportHeight < 0:
		return fmt.Errorf("%w: negative viewport %vx%v", ErrInvalidConfig, c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

// ParseConfig decodes data in the given format ("yaml" or "toml") over the
// defaults and validates the result.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a config file. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, configFormat(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptionalConfig reads arbor.yaml from dir if present and returns the
// defaults otherwise.
func LoadOptionalConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func configFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// Config returns the scene's current configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// SetConfig validates and applies cfg. Viewport, debug mode, and screenshot
// directory take effect immediately; the rest on the next update.
func (s *Scene) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.compositor.LayerOffset = cfg.LayerOffset
	s.viewport = Rect{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
	s.ScreenshotDir = cfg.ScreenshotDir
	s.SetDebugMode(cfg.Debug)
	return nil
}
