// Package config loads editor settings from an optional TOML file and
// CLOUDOODLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"cloudoodle/internal/state"
)

const (
	appDir     = "cloudoodle"
	configFile = "config.toml"
)

// Undo granularities.
const (
	UndoOnClear = "clear" // only Clear can be undone
	UndoEvery   = "every" // every scene mutation can be undone
)

type Config struct {
	CanvasWidth  int       `toml:"canvas_width"`
	CanvasHeight int       `toml:"canvas_height"`
	Background   string    `toml:"background"`
	DefaultColor string    `toml:"default_color"`
	DefaultWidth float64   `toml:"default_width"`
	Palette      []string  `toml:"palette"`
	Widths       []float64 `toml:"widths"`
	Stickers     []string  `toml:"stickers"`
	StickerSize  float64   `toml:"sticker_size"`

	UndoGranularity string `toml:"undo_granularity"`
	HistoryLimit    int    `toml:"history_limit"`

	GalleryDir   string `toml:"gallery_dir"`
	ShareEnabled bool   `toml:"share_enabled"`
	SharePort    int    `toml:"share_port"`

	LogLevel string `toml:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		CanvasWidth:  800,
		CanvasHeight: 600,
		Background:   "#FFFFFF",
		DefaultColor: "#000000",
		DefaultWidth: 3,
		Palette: []string{
			"#000000", "#FF0000", "#00FF00", "#0000FF",
			"#FFFF00", "#FF00FF", "#00FFFF", "#FFA500",
		},
		Widths:          []float64{1, 3, 5, 8, 12},
		StickerSize:     96,
		UndoGranularity: UndoOnClear,
		GalleryDir:      filepath.Join(userConfigDir(), appDir, "gallery"),
		ShareEnabled:    true,
		SharePort:       8888,
		LogLevel:        "info",
	}
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return dir
}

// DefaultPath is ~/.config/cloudoodle/config.toml or the platform equivalent.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), appDir, configFile)
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CLOUDOODLE_GALLERY_DIR"); ok {
		c.GalleryDir = v
	}
	if v, ok := lookup("CLOUDOODLE_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("CLOUDOODLE_UNDO"); ok {
		c.UndoGranularity = v
	}
	if v, ok := lookup("CLOUDOODLE_SHARE_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLOUDOODLE_SHARE_PORT: %w", err)
		}
		c.SharePort = port
	}
	if v, ok := lookup("CLOUDOODLE_SHARE"); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLOUDOODLE_SHARE: %w", err)
		}
		c.ShareEnabled = on
	}
	return nil
}

// Validate checks ranges and normalizes colors in place.
func (c *Config) Validate() error {
	var errs []error
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.CanvasWidth, c.CanvasHeight))
	}
	if c.DefaultWidth <= 0 {
		errs = append(errs, fmt.Errorf("default_width %v must be positive", c.DefaultWidth))
	}
	for _, w := range c.Widths {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("widths: %v must be positive", w))
		}
	}
	if c.StickerSize <= 0 {
		errs = append(errs, fmt.Errorf("sticker_size %v must be positive", c.StickerSize))
	}

	var err error
	if c.Background, err = state.NormalizeColor(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if c.DefaultColor, err = state.NormalizeColor(c.DefaultColor); err != nil {
		errs = append(errs, fmt.Errorf("default_color: %w", err))
	}
	for i, p := range c.Palette {
		if c.Palette[i], err = state.NormalizeColor(p); err != nil {
			errs = append(errs, fmt.Errorf("palette: %w", err))
		}
	}

	switch strings.ToLower(c.UndoGranularity) {
	case UndoOnClear, UndoEvery:
		c.UndoGranularity = strings.ToLower(c.UndoGranularity)
	default:
		errs = append(errs, fmt.Errorf("undo_granularity %q: want %q or %q", c.UndoGranularity, UndoOnClear, UndoEvery))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history_limit %d must not be negative", c.HistoryLimit))
	}
	if c.GalleryDir == "" {
		errs = append(errs, errors.New("gallery_dir is required"))
	}
	if c.ShareEnabled && (c.SharePort <= 0 || c.SharePort > 65535) {
		errs = append(errs, fmt.Errorf("share_port %d out of range", c.SharePort))
	}
	return errors.Join(errs...)
}
