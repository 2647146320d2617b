package strip

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Branding and footer typography of the plain strip.
const (
	Title          = "PixenzeBooth"
	TitleSize      = 32
	TitleBaseline  = 55
	FooterSize     = 16
	FooterBaseline = 25 // distance from the bottom edge
	FooterLayout   = "1/2/2006"
)

type fontLoader func() (*opentype.Font, error)

var (
	boldFont    fontLoader = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
	regularFont fontLoader = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
)

// newFace returns a fresh face; faces are not safe for concurrent use.
func newFace(load fontLoader, size float64) (font.Face, error) {
	f, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}
