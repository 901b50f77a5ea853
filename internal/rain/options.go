package rain

import (
	"log/slog"
	"time"
)

const (
	DefaultUpdateInterval = 50 * time.Millisecond
	DefaultRenderInterval = 16 * time.Millisecond
	DefaultTailLength     = 8
	DefaultMinDelay       = 0
	DefaultMaxDelay       = 40
	DefaultSpeed          = 1
)

// DefaultCharset is used when no glyph set is configured.
var DefaultCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// Options configures an Engine. Intervals are wall-clock tick periods.
type Options struct {
	Rows, Cols     int
	UpdateInterval time.Duration
	RenderInterval time.Duration
	TailLength     int
	Charset        []rune
	Seed           int64 // 0 picks a non-deterministic seed

	MinDelay, MaxDelay int
	MinSpeed, MaxSpeed int

	Logger *slog.Logger
}

// DefaultOptions returns options for a rows × cols screen.
func DefaultOptions(rows, cols int) Options {
	return Options{
		Rows:           rows,
		Cols:           cols,
		UpdateInterval: DefaultUpdateInterval,
		RenderInterval: DefaultRenderInterval,
		TailLength:     DefaultTailLength,
		Charset:        DefaultCharset,
		MinDelay:       DefaultMinDelay,
		MaxDelay:       DefaultMaxDelay,
		MinSpeed:       DefaultSpeed,
		MaxSpeed:       DefaultSpeed,
	}
}

// Validate checks every construction parameter and returns the first
// violation as a *ConfigurationError.
func (o Options) Validate() error {
	switch {
	case o.Rows <= 0:
		return &ConfigurationError{Field: "rows", Reason: "must be > 0"}
	case o.Cols <= 0:
		return &ConfigurationError{Field: "cols", Reason: "must be > 0"}
	case o.UpdateInterval <= 0:
		return &ConfigurationError{Field: "update interval", Reason: "must be > 0"}
	case o.RenderInterval <= 0:
		return &ConfigurationError{Field: "render interval", Reason: "must be > 0"}
	case o.TailLength < 0:
		return &ConfigurationError{Field: "tail length", Reason: "must be >= 0"}
	case len(o.Charset) == 0:
		return &ConfigurationError{Field: "charset", Reason: "must not be empty"}
	case o.MinDelay < 0 || o.MaxDelay < o.MinDelay:
		return &ConfigurationError{Field: "delay range", Reason: "need 0 <= min <= max"}
	case o.MinSpeed < 1 || o.MaxSpeed < o.MinSpeed:
		return &ConfigurationError{Field: "speed range", Reason: "need 1 <= min <= max"}
	}
	return nil
}

func (o Options) timing() Timing {
	return Timing{
		MinDelay: o.MinDelay,
		MaxDelay: o.MaxDelay,
		MinSpeed: o.MinSpeed,
		MaxSpeed: o.MaxSpeed,
	}
}
