package strip

import (
	"errors"
	"image"
	"math"
	"testing"
)

var testPresets = PresetFunc(func(key string) (Preset, bool) {
	if key == "the1975" {
		return Preset{Key: key, TopMargin: 0.15, BottomLimit: 0.85, SideMargin: 0.15, GapRatio: 0.04}, true
	}
	return Preset{}, false
})

func TestResolveStackedFillsUsableHeight(t *testing.T) {
	layouts := map[string]struct {
		layout Layout
		preset Preset
	}{
		"named":   {NamedPreset{Key: "the1975"}, Preset{TopMargin: 0.15, BottomLimit: 0.85, SideMargin: 0.15, GapRatio: 0.04}},
		"generic": {GenericFallback{}, Generic},
	}
	for name, tc := range layouts {
		for _, n := range []int{1, 3, 4} {
			g, err := Resolve(tc.layout, image.Pt(600, 1800), n, testPresets)
			if err != nil {
				t.Fatalf("%s/%d: Resolve: %v", name, n, err)
			}
			if g.Width != 600 || g.Height != 1800 {
				t.Errorf("%s/%d: canvas = %dx%d, want overlay size 600x1800", name, n, g.Width, g.Height)
			}
			if len(g.Slots) != n {
				t.Fatalf("%s/%d: got %d slots", name, n, len(g.Slots))
			}

			usable := (tc.preset.BottomLimit - tc.preset.TopMargin) * 1800
			var sum float64
			for i, s := range g.Slots {
				sum += s.H
				if i > 0 {
					prev := g.Slots[i-1]
					gap := s.Y - (prev.Y + prev.H)
					if math.Abs(gap-s.H*tc.preset.GapRatio) > 1e-6 {
						t.Errorf("%s/%d: gap %d = %g, want %g", name, n, i, gap, s.H*tc.preset.GapRatio)
					}
					sum += gap
				}
				if wantW := 600 - 2*tc.preset.SideMargin*600; math.Abs(s.W-wantW) > 1e-6 {
					t.Errorf("%s/%d: slot width = %g, want %g", name, n, s.W, wantW)
				}
				if math.Abs(s.X-(600-s.W)/2) > 1e-6 {
					t.Errorf("%s/%d: slot %d not centered: %+v", name, n, i, s)
				}
			}
			if math.Abs(sum-usable) > 1e-6 {
				t.Errorf("%s/%d: heights+gaps = %g, want %g", name, n, sum, usable)
			}
			if math.Abs(g.Slots[0].Y-tc.preset.TopMargin*1800) > 1e-6 {
				t.Errorf("%s/%d: first slot starts at %g", name, n, g.Slots[0].Y)
			}
		}
	}
}

func TestResolveZeroPhotos(t *testing.T) {
	for _, l := range []Layout{NamedPreset{Key: "the1975"}, GenericFallback{}, NoOverlay{Theme: Blue}} {
		g, err := Resolve(l, image.Pt(800, 1200), 0, testPresets)
		if err != nil {
			t.Fatalf("%T: Resolve: %v", l, err)
		}
		if len(g.Slots) != 0 {
			t.Errorf("%T: got %d slots, want none", l, len(g.Slots))
		}
		if g.Width <= 0 || g.Height <= 0 {
			t.Errorf("%T: canvas %dx%d", l, g.Width, g.Height)
		}
	}
}

func TestResolveExplicitSlotsVerbatim(t *testing.T) {
	slots := []Slot{{X: 50, Y: 10, Width: 30, Height: 20}, {X: 10, Y: 10, Width: 30, Height: 20}, {X: 0, Y: 60, Width: 100, Height: 40}}
	g, err := Resolve(ExplicitSlots{Slots: slots}, image.Pt(800, 1200), 1, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []image.Rectangle{
		image.Rect(400, 120, 640, 360),
		image.Rect(80, 120, 320, 360),
		image.Rect(0, 720, 800, 1200),
	}
	if len(g.Slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(g.Slots), len(want))
	}
	for i, r := range g.Slots {
		if r.Pixels() != want[i] {
			t.Errorf("slot %d = %v, want %v", i, r.Pixels(), want[i])
		}
	}
}

func TestResolvePlain(t *testing.T) {
	g, err := Resolve(NoOverlay{Theme: Pink}, image.Point{}, 3, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Width != 400 || g.Height != 80+3*300+2*20+60+40 {
		t.Errorf("canvas = %dx%d", g.Width, g.Height)
	}
	if got, want := g.Slots[1].Pixels(), image.Rect(20, 420, 380, 720); got != want {
		t.Errorf("slot 1 = %v, want %v", got, want)
	}

	g, _ = Resolve(NoOverlay{Theme: Blue}, image.Point{}, 0, nil)
	if g.Height != 80+60+40 {
		t.Errorf("empty plain height = %d, want %d", g.Height, 180)
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := Resolve(NamedPreset{Key: "nope"}, image.Pt(10, 10), 2, testPresets); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset error = %v", err)
	}
	if _, err := Resolve(NamedPreset{Key: "the1975"}, image.Pt(10, 10), 2, nil); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("nil lookup error = %v", err)
	}
	if _, err := Resolve(GenericFallback{}, image.Point{}, 2, nil); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("missing overlay size error = %v", err)
	}
}

func TestParseTheme(t *testing.T) {
	if got := ParseTheme(" Mario "); got != Mario {
		t.Errorf("ParseTheme(Mario) = %q", got)
	}
	if got := ParseTheme("teal"); got != Pink {
		t.Errorf("ParseTheme(teal) = %q, want pink", got)
	}
	if c := Theme("teal").Color(); c != Pink.Color() {
		t.Errorf("unknown theme color = %v", c)
	}
}
