package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/digirain/internal/rain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUpdateMs = 50
	DefaultRenderMs = 16
	DefaultTail     = 8
	DefaultMaxDelay = 40
	DefaultSpeed    = 1
	DefaultCharset  = "alnum"
	DefaultTheme    = "green"
	DefaultBackend  = "tcell"
)

// Backends accepted by the run command.
var Backends = []string{"tcell", "ansi"}

type Config struct {
	Rows    int          `yaml:"rows"`
	Cols    int          `yaml:"cols"`
	Charset string       `yaml:"charset"`
	Seed    int64        `yaml:"seed"`
	Theme   string       `yaml:"theme"`
	Backend string       `yaml:"backend"`
	Timing  TimingConfig `yaml:"timing"`
	Drops   DropConfig   `yaml:"drops"`
}

type TimingConfig struct {
	UpdateMs int `yaml:"update_ms"`
	RenderMs int `yaml:"render_ms"`
}

type DropConfig struct {
	Tail     int `yaml:"tail"`
	MinDelay int `yaml:"min_delay"`
	MaxDelay int `yaml:"max_delay"`
	MinSpeed int `yaml:"min_speed"`
	MaxSpeed int `yaml:"max_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Charset: DefaultCharset,
		Theme:   DefaultTheme,
		Backend: DefaultBackend,
		Timing: TimingConfig{
			UpdateMs: DefaultUpdateMs,
			RenderMs: DefaultRenderMs,
		},
		Drops: DropConfig{
			Tail:     DefaultTail,
			MaxDelay: DefaultMaxDelay,
			MinSpeed: DefaultSpeed,
			MaxSpeed: DefaultSpeed,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads path on top of a copy of base. Keys missing from the file
// keep base's values; base itself is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the fields the engine does not own. Rows and cols of 0 mean
// "use the terminal size" and are resolved by the caller. Theme names are
// checked by the viz package.
func (c *Config) Validate() error {
	if c.Rows < 0 || c.Cols < 0 {
		return fmt.Errorf("rows and cols must be >= 0, got %dx%d", c.Rows, c.Cols)
	}
	if _, err := ResolveCharset(c.Charset); err != nil {
		return err
	}
	if c.Theme == "" {
		return fmt.Errorf("theme cannot be empty")
	}
	if !validBackend(c.Backend) {
		return fmt.Errorf("unknown backend: %s (available: %v)", c.Backend, Backends)
	}
	return nil
}

func validBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Options converts the config into engine options for a rows × cols screen.
// The engine performs its own validation of the numeric fields.
func (c *Config) Options(rows, cols int) (rain.Options, error) {
	charset, err := ResolveCharset(c.Charset)
	if err != nil {
		return rain.Options{}, err
	}
	return rain.Options{
		Rows:           rows,
		Cols:           cols,
		UpdateInterval: time.Duration(c.Timing.UpdateMs) * time.Millisecond,
		RenderInterval: time.Duration(c.Timing.RenderMs) * time.Millisecond,
		TailLength:     c.Drops.Tail,
		Charset:        charset,
		Seed:           c.Seed,
		MinDelay:       c.Drops.MinDelay,
		MaxDelay:       c.Drops.MaxDelay,
		MinSpeed:       c.Drops.MinSpeed,
		MaxSpeed:       c.Drops.MaxSpeed,
	}, nil
}

// Dimensions returns the configured size, falling back to the terminal size
// for any zero field.
func (c *Config) Dimensions(termRows, termCols int) (int, int) {
	rows, cols := c.Rows, c.Cols
	if rows == 0 {
		rows = termRows
	}
	if cols == 0 {
		cols = termCols
	}
	return rows, cols
}
