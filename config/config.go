// Package config loads, validates and watches the console configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/keybind"
)

// ErrInvalid is matched by validation failures.
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk configuration. Zero fields in a loaded file keep
// their defaults.
type Config struct {
	Width           int               `json:"width" jsonschema:"minimum=1,default=80,description=Buffer width in columns"`
	Height          int               `json:"height" jsonschema:"minimum=1,default=24,description=Viewport height in rows"`
	MaxBufferHeight int               `json:"max_buffer_height" jsonschema:"minimum=1,default=1000,description=Scroll-back rows kept"`
	TabWidth        int               `json:"tab_width" jsonschema:"minimum=1,maximum=16,default=8"`
	Prompt          string            `json:"prompt" jsonschema:"default=> "`
	Verbose         bool              `json:"verbose" jsonschema:"description=Print wrapped error causes"`
	FrameBudget     Duration          `json:"frame_budget" jsonschema:"description=Time spent running queued work per frame"`
	CursorStyle     string            `json:"cursor_style" jsonschema:"enum=block,enum=underline,enum=bar,default=block"`
	CursorBlink     bool              `json:"cursor_blink"`
	HistorySize     int               `json:"history_size" jsonschema:"minimum=1,default=500"`
	StorePath       string            `json:"store_path,omitempty" jsonschema:"description=SQLite session database (empty keeps sessions in memory)"`
	LogLevel        string            `json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Platform        string            `json:"platform,omitempty" jsonschema:"enum=,enum=linux,enum=macos,enum=windows,description=Key binding family (empty uses the host)"`
	Bindings        map[string]string `json:"bindings,omitempty" jsonschema:"description=Chord to action name such as Ctrl+L: clear"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:           termgrid.DEFAULT_WIDTH,
		Height:          termgrid.DEFAULT_HEIGHT,
		MaxBufferHeight: termgrid.DEFAULT_MAX_BUFFER_HEIGHT,
		TabWidth:        termgrid.DEFAULT_TAB_WIDTH,
		Prompt:          "> ",
		FrameBudget:     Duration(time.Second / 60),
		CursorStyle:     "block",
		CursorBlink:     true,
		HistorySize:     500,
		LogLevel:        "info",
	}
}

// Dir returns the termgrid directory under the user config base, falling
// back to the home directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", errors.New("cannot determine config directory")
		}
		base = home
	}
	return filepath.Join(base, "termgrid"), nil
}

// DefaultPath returns Dir()/config.json.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, replacing it atomically.
func (c Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width < 1:
		return fmt.Errorf("%w: width must be at least 1, got %d", ErrInvalid, c.Width)
	case c.Height < 1:
		return fmt.Errorf("%w: height must be at least 1, got %d", ErrInvalid, c.Height)
	case c.MaxBufferHeight < 1:
		return fmt.Errorf("%w: max_buffer_height must be at least 1, got %d", ErrInvalid, c.MaxBufferHeight)
	case c.TabWidth < 1 || c.TabWidth > 16:
		return fmt.Errorf("%w: tab_width must be between 1 and 16, got %d", ErrInvalid, c.TabWidth)
	case c.FrameBudget <= 0:
		return fmt.Errorf("%w: frame_budget must be positive", ErrInvalid)
	case c.HistorySize < 1:
		return fmt.Errorf("%w: history_size must be at least 1, got %d", ErrInvalid, c.HistorySize)
	}
	if _, err := termgrid.ParseCursorStyle(c.CursorStyle); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.Platform != "" {
		if _, err := keybind.ParsePlatform(c.Platform); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	for chord := range c.Bindings {
		if _, err := keybind.ParseChord(chord); err != nil {
			return fmt.Errorf("%w: bindings: %v", ErrInvalid, err)
		}
	}
	return nil
}

// Cursor returns the cursor settings the config describes.
func (c Config) Cursor() termgrid.CursorSettings {
	style, _ := termgrid.ParseCursorStyle(c.CursorStyle)
	return termgrid.CursorSettings{Style: style, Blink: c.CursorBlink, Visible: true}
}

// KeyPlatform returns the configured platform, or the host's when unset.
func (c Config) KeyPlatform() keybind.Platform {
	if c.Platform == "" {
		return keybind.CurrentPlatform()
	}
	p, _ := keybind.ParsePlatform(c.Platform)
	return p
}

// Level returns the parsed log level.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
