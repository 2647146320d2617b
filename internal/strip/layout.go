package strip

import (
	"fmt"
	"image"
	"math"
)

// Layout describes how photos are arranged on the canvas. It is one of
// NamedPreset, GenericFallback, ExplicitSlots or NoOverlay.
type Layout interface {
	isLayout()
}

// NamedPreset selects a hand-tuned geometry by preset key.
type NamedPreset struct {
	Key string
}

// GenericFallback is used when a frame overlay exists but no preset or
// explicit slot list applies.
type GenericFallback struct{}

// ExplicitSlots carries administrator-authored slots. Slot i receives photo i.
type ExplicitSlots struct {
	Slots []Slot
}

// NoOverlay stacks photos vertically on a solid theme background.
type NoOverlay struct {
	Theme Theme
}

func (NamedPreset) isLayout() {}
func (GenericFallback) isLayout() {}
func (ExplicitSlots) isLayout() {}
func (NoOverlay) isLayout() {}

// HasOverlay reports whether the layout is drawn under a frame overlay.
func HasOverlay(l Layout) bool {
	_, plain := l.(NoOverlay)
	return !plain
}

// Slot is a target rectangle in percent of the canvas size.
type Slot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Grow returns r expanded by n pixels on every side.
func (r Rect) Grow(n float64) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Pixels rounds r to integer canvas coordinates.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(round(r.X), round(r.Y), round(r.X+r.W), round(r.Y+r.H))
}

// Geometry is the resolved canvas size and ordered slot list.
type Geometry struct {
	Width  int
	Height int
	Slots  []Rect
}

// Preset holds the four tunables of a stacked layout. All values are
// fractions: margins and limits of the canvas height (side margin of the
// width), gap of the slot height.
type Preset struct {
	Key         string
	TopMargin   float64
	BottomLimit float64
	SideMargin  float64
	GapRatio    float64
}

// PresetLookup resolves a preset key to its tunables.
type PresetLookup interface {
	Lookup(key string) (Preset, bool)
}

// PresetFunc adapts a function to PresetLookup.
type PresetFunc func(key string) (Preset, bool)

// Lookup calls f(key).
func (f PresetFunc) Lookup(key string) (Preset, bool) { return f(key) }

// Generic is the tunable set used by GenericFallback.
var Generic = Preset{Key: "generic", TopMargin: 0.15, BottomLimit: 0.85, SideMargin: 0.05, GapRatio: 0.04}

// Dimensions of the plain (no overlay) strip.
const (
	PlainWidth   = 400
	PlainPhotoH  = 300
	PlainPadding = 20
	PlainHeader  = 80
	PlainFooter  = 60
)

// Resolve turns a layout into a canvas size and an ordered slot list.
// overlay is the decoded overlay size and is ignored for NoOverlay.
func Resolve(l Layout, overlay image.Point, photos int, presets PresetLookup) (Geometry, error) {
	if photos < 0 {
		photos = 0
	}

	if _, ok := l.(NoOverlay); ok {
		return plainGeometry(photos), nil
	}

	if overlay.X <= 0 || overlay.Y <= 0 {
		return Geometry{}, fmt.Errorf("overlay size %v: %w", overlay, ErrDegenerateGeometry)
	}
	g := Geometry{Width: overlay.X, Height: overlay.Y}

	switch v := l.(type) {
	case ExplicitSlots:
		g.Slots = make([]Rect, 0, len(v.Slots))
		for _, s := range v.Slots {
			g.Slots = append(g.Slots, s.Rect(g.Width, g.Height))
		}
	case NamedPreset:
		if presets == nil {
			return Geometry{}, fmt.Errorf("preset %q: %w", v.Key, ErrUnknownPreset)
		}
		p, ok := presets.Lookup(v.Key)
		if !ok {
			return Geometry{}, fmt.Errorf("preset %q: %w", v.Key, ErrUnknownPreset)
		}
		g.Slots = stacked(p, g.Width, g.Height, photos)
	case GenericFallback:
		g.Slots = stacked(Generic, g.Width, g.Height, photos)
	case nil:
		return Geometry{}, fmt.Errorf("nil layout")
	default:
		return Geometry{}, fmt.Errorf("unsupported layout %T", l)
	}
	return g, nil
}

// Rect maps the percentage slot onto a w×h canvas.
func (s Slot) Rect(w, h int) Rect {
	return Rect{
		X: s.X / 100 * float64(w),
		Y: s.Y / 100 * float64(h),
		W: s.Width / 100 * float64(w),
		H: s.Height / 100 * float64(h),
	}
}

func plainGeometry(n int) Geometry {
	gaps := n - 1
	if gaps < 0 {
		gaps = 0
	}
	g := Geometry{
		Width:  PlainWidth,
		Height: PlainHeader + n*PlainPhotoH + gaps*PlainPadding + PlainFooter + 2*PlainPadding,
	}
	for i := 0; i < n; i++ {
		g.Slots = append(g.Slots, Rect{
			X: PlainPadding,
			Y: float64(PlainHeader + PlainPadding + i*(PlainPhotoH+PlainPadding)),
			W: PlainWidth - 2*PlainPadding,
			H: PlainPhotoH,
		})
	}
	return g
}

// stacked derives n equal-height slots between the preset's top margin and
// bottom limit. The gap between slots is GapRatio of the slot height.
func stacked(p Preset, w, h, n int) []Rect {
	if n == 0 {
		return nil
	}
	top := p.TopMargin * float64(h)
	usable := (p.BottomLimit - p.TopMargin) * float64(h)
	side := p.SideMargin * float64(w)

	slotH := usable / (float64(n) + float64(n-1)*p.GapRatio)
	gap := slotH * p.GapRatio
	slotW := float64(w) - 2*side

	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{
			X: (float64(w) - slotW) / 2,
			Y: top + float64(i)*(slotH+gap),
			W: slotW,
			H: slotH,
		}
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}
