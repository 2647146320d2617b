package strip

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Default overdraw amounts in canvas pixels.
const (
	DefaultBleed  = 2
	DefaultBorder = 5
)

// Crop is a source-space crop window.
type Crop struct {
	X, Y, W, H float64
}

// CoverCrop computes the centered window of a srcW×srcH image that fills a
// rectW×rectH target without distortion ("object-fit: cover").
func CoverCrop(srcW, srcH, rectW, rectH float64) (Crop, error) {
	if srcW <= 0 || srcH <= 0 || rectW <= 0 || rectH <= 0 {
		return Crop{}, fmt.Errorf("cover %gx%g into %gx%g: %w", srcW, srcH, rectW, rectH, ErrDegenerateGeometry)
	}
	rs := srcW / srcH
	rt := rectW / rectH

	if rs > rt {
		h := srcH
		w := h * rt
		return Crop{X: (srcW - w) / 2, Y: 0, W: w, H: h}, nil
	}
	w := srcW
	h := w / rt
	return Crop{X: 0, Y: (srcH - h) / 2, W: w, H: h}, nil
}

// DrawCover cover-crops src and draws it into r grown by bleed pixels on
// every side. Slots smaller than one pixel or entirely off dst are rejected
// with ErrDegenerateGeometry; partially visible slots are clipped by dst.
func DrawCover(dst draw.Image, src image.Image, r Rect, bleed float64) error {
	if src == nil {
		return fmt.Errorf("nil source: %w", ErrDecode)
	}
	exact := r.Pixels()
	if r.W <= 0 || r.H <= 0 || exact.Dx() < 1 || exact.Dy() < 1 {
		return fmt.Errorf("slot %+v: %w", r, ErrDegenerateGeometry)
	}
	if !exact.Overlaps(dst.Bounds()) {
		return fmt.Errorf("slot %v outside canvas %v: %w", exact, dst.Bounds(), ErrDegenerateGeometry)
	}

	sb := src.Bounds()
	c, err := CoverCrop(float64(sb.Dx()), float64(sb.Dy()), r.W, r.H)
	if err != nil {
		return err
	}

	window := image.Rect(round(c.X), round(c.Y), round(c.X+c.W), round(c.Y+c.H))
	if window.Dx() < 1 {
		window.Max.X = window.Min.X + 1
	}
	if window.Dy() < 1 {
		window.Max.Y = window.Min.Y + 1
	}
	window = window.Add(sb.Min).Intersect(sb)

	target := r.Grow(bleed).Pixels()
	if target.Dx() < 1 || target.Dy() < 1 {
		return fmt.Errorf("slot %v with bleed %g: %w", exact, bleed, ErrDegenerateGeometry)
	}

	fitted := imaging.Resize(imaging.Crop(src, window), target.Dx(), target.Dy(), imaging.Lanczos)
	draw.Draw(dst, target, fitted, image.Point{}, draw.Over)
	return nil
}
