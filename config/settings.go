package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownSetting is returned for names not in Names().
var ErrUnknownSetting = errors.New("unknown setting")

type setting struct {
	name string
	get  func(c *Config) string
	set  func(c *Config, v string) error
}

func intSetting(name string, field func(c *Config) *int) setting {
	return setting{
		name: name,
		get:  func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %q is not an integer", name, v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolSetting(name string, field func(c *Config) *bool) setting {
	return setting{
		name: name,
		get:  func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %q is not a boolean", name, v)
			}
			*field(c) = b
			return nil
		},
	}
}

func stringSetting(name string, field func(c *Config) *string) setting {
	return setting{
		name: name,
		get:  func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

var settings = []setting{
	intSetting("width", func(c *Config) *int { return &c.Width }),
	intSetting("height", func(c *Config) *int { return &c.Height }),
	intSetting("max_buffer_height", func(c *Config) *int { return &c.MaxBufferHeight }),
	intSetting("tab_width", func(c *Config) *int { return &c.TabWidth }),
	stringSetting("prompt", func(c *Config) *string { return &c.Prompt }),
	boolSetting("verbose", func(c *Config) *bool { return &c.Verbose }),
	{
		name: "frame_budget",
		get:  func(c *Config) string { return c.FrameBudget.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("frame_budget: %w", err)
			}
			c.FrameBudget = Duration(d)
			return nil
		},
	},
	stringSetting("cursor_style", func(c *Config) *string { return &c.CursorStyle }),
	boolSetting("cursor_blink", func(c *Config) *bool { return &c.CursorBlink }),
	intSetting("history_size", func(c *Config) *int { return &c.HistorySize }),
	stringSetting("store_path", func(c *Config) *string { return &c.StorePath }),
	stringSetting("log_level", func(c *Config) *string { return &c.LogLevel }),
	stringSetting("platform", func(c *Config) *string { return &c.Platform }),
}

func lookup(name string) (setting, error) {
	for _, s := range settings {
		if s.name == name {
			return s, nil
		}
	}
	return setting{}, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}

// Names returns the settable names in display order.
func Names() []string {
	names := make([]string, len(settings))
	for i, s := range settings {
		names[i] = s.name
	}
	return names
}

// Get returns the value of name as text.
func (c *Config) Get(name string) (string, error) {
	s, err := lookup(name)
	if err != nil {
		return "", err
	}
	return s.get(c), nil
}

// Set parses value into name. The change is applied only if the resulting
// config validates.
func (c *Config) Set(name, value string) error {
	s, err := lookup(name)
	if err != nil {
		return err
	}
	next := *c
	if err := s.set(&next, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Reset restores name to its default.
func (c *Config) Reset(name string) error {
	s, err := lookup(name)
	if err != nil {
		return err
	}
	d := Default()
	return s.set(c, s.get(&d))
}
