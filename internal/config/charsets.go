package config

import (
	"fmt"
	"sort"
)

// Charsets are the named glyph sets. Only printable ASCII is supported.
var Charsets = map[string]string{
	"alnum":   "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789",
	"ascii":   asciiPrintable(),
	"binary":  "01",
	"hex":     "0123456789ABCDEF",
	"symbols": "!@#$%^&*()_+-=[]{}|;':\",./<>?",
	"dna":     "ATCG",
	"minimal": ".*+",
}

func asciiPrintable() string {
	b := make([]byte, 0, 94)
	for c := byte('!'); c <= '~'; c++ {
		b = append(b, c)
	}
	return string(b)
}

func CharsetNames() []string {
	names := make([]string, 0, len(Charsets))
	for name := range Charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveCharset returns the glyphs for a named set, or treats name as a
// literal glyph string.
func ResolveCharset(name string) ([]rune, error) {
	if set, ok := Charsets[name]; ok {
		return []rune(set), nil
	}
	if name == "" {
		return nil, fmt.Errorf("charset cannot be empty")
	}
	for i, r := range name {
		if r < '!' || r > '~' {
			return nil, fmt.Errorf("charset %q: glyph %q at byte %d is not printable ASCII", name, r, i)
		}
	}
	return []rune(name), nil
}
