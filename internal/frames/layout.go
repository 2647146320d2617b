package frames

import (
	"errors"
	"fmt"
	"strings"

	"github.com/youruser/boothapp/internal/strip"
)

// Matcher finds the preset key for a frame name or image URL.
type Matcher interface {
	Match(name string) (string, bool)
}

// SelectLayout picks the layout variant for a frame once, at the boundary.
// A nil frame yields a plain themed strip. A non-empty layout_config takes
// precedence over preset matching; frames that match neither get the
// generic fallback.
func SelectLayout(f *Frame, theme strip.Theme, m Matcher) strip.Layout {
	if f == nil {
		return strip.NoOverlay{Theme: theme}
	}
	if len(f.LayoutConfig) > 0 {
		return strip.ExplicitSlots{Slots: append([]strip.Slot(nil), f.LayoutConfig...)}
	}
	if m != nil {
		for _, name := range []string{f.ImageURL, f.Name} {
			if key, ok := m.Match(name); ok {
				return strip.NamedPreset{Key: key}
			}
		}
	}
	return strip.GenericFallback{}
}

// Validate checks the fields an administrator must supply and normalizes
// the optional ones.
func Validate(f *Frame) error {
	f.Name = strings.TrimSpace(f.Name)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	if f.Name == "" || f.ImageURL == "" {
		return errors.New("name and image_url are required")
	}
	switch f.Status {
	case "":
		f.Status = StatusActive
	case StatusActive, StatusComingSoon:
	default:
		return fmt.Errorf("unknown status %q", f.Status)
	}
	if f.Style == "" {
		f.Style = "Custom"
	}
	if f.Rarity == "" {
		f.Rarity = "Common"
	}
	if f.Artist == "" {
		f.Artist = "Default"
	}
	if f.Type == "" {
		f.Type = "custom"
	}
	for i, s := range f.LayoutConfig {
		if err := validSlot(s); err != nil {
			return fmt.Errorf("layout_config[%d]: %w", i, err)
		}
	}
	return nil
}

func validSlot(s strip.Slot) error {
	in := func(v float64) bool { return v >= 0 && v <= 100 }
	if !in(s.X) || !in(s.Y) || !in(s.Width) || !in(s.Height) {
		return fmt.Errorf("slot %+v: values must be within 0..100", s)
	}
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("slot %+v: zero area", s)
	}
	return nil
}
