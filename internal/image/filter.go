package imagepkg

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/youruser/boothapp/internal/strip"
)

// Capture filters offered by the booth.
const (
	FilterNone    = "none"
	FilterBright  = "bright"
	FilterVintage = "vintage"
	FilterBW      = "bw"
	FilterSoft    = "soft"
)

// ValidFilter reports whether name is a known filter. Empty means none.
func ValidFilter(name string) bool {
	switch name {
	case "", FilterNone, FilterBright, FilterVintage, FilterBW, FilterSoft:
		return true
	}
	return false
}

// ApplyFilter returns img with the named capture filter applied.
func ApplyFilter(img image.Image, name string) (image.Image, error) {
	switch name {
	case "", FilterNone:
		return img, nil
	case FilterBright:
		return imaging.AdjustContrast(imaging.AdjustBrightness(img, 20), 10), nil
	case FilterVintage:
		toned := blend.Opacity(img, effect.Sepia(img), 0.4)
		return imaging.AdjustContrast(toned, 20), nil
	case FilterBW:
		return imaging.Grayscale(img), nil
	case FilterSoft:
		soft := imaging.AdjustBrightness(imaging.AdjustContrast(img, -10), 10)
		return imaging.Blur(soft, 0.5), nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

// Capture wraps src so the decoded photo is filtered and, when mirror is
// set, flipped horizontally like a selfie preview.
func Capture(src strip.Source, filter string, mirror bool) strip.Source {
	if (filter == "" || filter == FilterNone) && !mirror {
		return src
	}
	return strip.SourceFunc(func(ctx context.Context) (image.Image, error) {
		img, err := src.Open(ctx)
		if err != nil {
			return nil, err
		}
		if mirror {
			img = imaging.FlipH(img)
		}
		return ApplyFilter(img, filter)
	})
}
