package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		Charset: "alnum", Theme: "green", Backend: DefaultBackend,
		Timing: TimingConfig{UpdateMs: 50, RenderMs: 16},
		Drops:  DropConfig{Tail: 8, MinDelay: 0, MaxDelay: 40, MinSpeed: 1, MaxSpeed: 1},
	},
	"drizzle": {
		Charset: "minimal", Theme: "ice", Backend: DefaultBackend,
		Timing: TimingConfig{UpdateMs: 80, RenderMs: 33},
		Drops:  DropConfig{Tail: 4, MinDelay: 20, MaxDelay: 120, MinSpeed: 1, MaxSpeed: 3},
	},
	"storm": {
		Charset: "ascii", Theme: "amber", Backend: DefaultBackend,
		Timing: TimingConfig{UpdateMs: 25, RenderMs: 16},
		Drops:  DropConfig{Tail: 14, MinDelay: 0, MaxDelay: 8, MinSpeed: 1, MaxSpeed: 1},
	},
	"binary": {
		Charset: "binary", Theme: "green", Backend: DefaultBackend,
		Timing: TimingConfig{UpdateMs: 40, RenderMs: 16},
		Drops:  DropConfig{Tail: 10, MinDelay: 0, MaxDelay: 30, MinSpeed: 1, MaxSpeed: 2},
	},
	"hex": {
		Charset: "hex", Theme: "mono", Backend: DefaultBackend,
		Timing: TimingConfig{UpdateMs: 60, RenderMs: 16},
		Drops:  DropConfig{Tail: 6, MinDelay: 5, MaxDelay: 50, MinSpeed: 1, MaxSpeed: 2},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
