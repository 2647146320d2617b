package strip

import (
	"image/color"
	"strings"
)

// Theme names the background color of a plain strip.
type Theme string

// Known themes.
const (
	Pink   Theme = "pink"
	Blue   Theme = "blue"
	Yellow Theme = "yellow"
	Purple Theme = "purple"
	Mario  Theme = "mario"
	Red    Theme = "red"
	Green  Theme = "green"
	Custom Theme = "custom"
)

var themeColors = map[Theme]color.NRGBA{
	Pink:   {R: 0xFF, G: 0x99, B: 0xC8, A: 0xFF},
	Blue:   {R: 0xA9, G: 0xDE, B: 0xF9, A: 0xFF},
	Yellow: {R: 0xFC, G: 0xF6, B: 0xBD, A: 0xFF},
	Purple: {R: 0xE4, G: 0xC1, B: 0xF9, A: 0xFF},
	Mario:  {R: 0x6B, G: 0xB5, B: 0xFF, A: 0xFF},
	Red:    {R: 0xE5, G: 0x25, B: 0x21, A: 0xFF},
	Green:  {R: 0x43, G: 0xB0, B: 0x47, A: 0xFF},
	Custom: {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
}

// ParseTheme normalizes s. Unknown or empty names fall back to Pink.
func ParseTheme(s string) Theme {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := themeColors[t]; ok {
		return t
	}
	return Pink
}

// Color returns the background color of t, or pink for unknown themes.
func (t Theme) Color() color.NRGBA {
	if c, ok := themeColors[t]; ok {
		return c
	}
	return themeColors[Pink]
}

// Known reports whether t is one of the fixed themes.
func (t Theme) Known() bool {
	_, ok := themeColors[t]
	return ok
}
