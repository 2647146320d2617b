package strip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Options configure a Composer. The zero value is usable.
type Options struct {
	// Presets resolves NamedPreset keys.
	Presets PresetLookup
	// Bleed is the overdraw around each slot under an overlay. Defaults to DefaultBleed.
	Bleed float64
	// Border is the white margin around photos on a plain strip. Defaults to DefaultBorder.
	Border float64
	// Now stamps the footer date. Defaults to time.Now.
	Now func() time.Time
	// OmitFooter drops the date footer, which makes plain strips deterministic.
	OmitFooter bool
	// Concurrency bounds parallel decodes; 0 means unbounded.
	Concurrency int
}

// Composer renders photo strips.
type Composer struct {
	opts Options
}

// NewComposer returns a Composer with defaults filled in.
func NewComposer(opts Options) *Composer {
	if opts.Bleed == 0 {
		opts.Bleed = DefaultBleed
	}
	if opts.Border == 0 {
		opts.Border = DefaultBorder
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Composer{opts: opts}
}

// Request is one composite job.
type Request struct {
	Photos []Source
	// Overlay is required for every layout except NoOverlay.
	Overlay Source
	Layout  Layout
}

// Result is a finished strip.
type Result struct {
	PNG    []byte
	Image  *image.RGBA
	Width  int
	Height int
	// Drawn counts photos that reached the canvas.
	Drawn int
	// Skipped lists slots that were paired with a photo but left blank.
	Skipped []SkippedSlot
	// ExtraPhotos counts photos beyond the last slot. EmptySlots counts
	// slots beyond the last photo. Neither is an error.
	ExtraPhotos int
	EmptySlots  int
}

// Compose decodes every image concurrently, then draws photos in slot order
// and the overlay last. Only an overlay failure or cancellation aborts the
// composite; photo failures are reported in Result.Skipped.
func (c *Composer) Compose(ctx context.Context, req Request) (*Result, error) {
	if req.Layout == nil {
		return nil, errors.New("compose: nil layout")
	}
	withOverlay := HasOverlay(req.Layout)
	if withOverlay && req.Overlay == nil {
		return nil, fmt.Errorf("compose: %T requires an overlay: %w", req.Layout, ErrOverlayDecode)
	}

	n := len(req.Photos)
	if es, ok := req.Layout.(ExplicitSlots); ok && len(es.Slots) < n {
		n = len(es.Slots)
	}

	overlay, photos, failures, err := c.decode(ctx, req, withOverlay, n)
	if err != nil {
		return nil, err
	}

	var size image.Point
	if overlay != nil {
		size = overlay.Bounds().Size()
	}
	geom, err := Resolve(req.Layout, size, len(req.Photos), c.opts.Presets)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, geom.Width, geom.Height))
	dc := gg.NewContextForRGBA(canvas)

	if !withOverlay {
		theme := req.Layout.(NoOverlay).Theme
		dc.SetColor(theme.Color())
		dc.Clear()
		if err := c.text(dc, boldFont, TitleSize, color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}, Title, TitleBaseline); err != nil {
			return nil, err
		}
	}

	res := &Result{Width: geom.Width, Height: geom.Height}
	pairs := min(n, len(geom.Slots))
	res.ExtraPhotos = len(req.Photos) - pairs
	res.EmptySlots = len(geom.Slots) - pairs

	for i := 0; i < pairs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failures[i] != nil {
			res.Skipped = append(res.Skipped, SkippedSlot{Index: i, Err: failures[i]})
			continue
		}
		r := geom.Slots[i]
		bleed := c.opts.Bleed
		if !withOverlay {
			b := r.Grow(c.opts.Border)
			dc.SetColor(color.White)
			dc.DrawRectangle(b.X, b.Y, b.W, b.H)
			dc.Fill()
			bleed = 0
		}
		if err := DrawCover(canvas, photos[i], r, bleed); err != nil {
			res.Skipped = append(res.Skipped, SkippedSlot{Index: i, Err: err})
			continue
		}
		res.Drawn++
	}

	if overlay != nil {
		draw.Draw(canvas, canvas.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	} else if !c.opts.OmitFooter {
		date := c.opts.Now().Format(FooterLayout)
		if err := c.text(dc, regularFont, FooterSize, color.Black, date, float64(geom.Height-FooterBaseline)); err != nil {
			return nil, err
		}
	}

	for _, s := range res.Skipped {
		klog.Warningf("strip: skipped %v", s)
	}
	klog.V(1).Infof("composed %dx%d strip (%T): %d drawn, %d skipped, %d extra photos, %d empty slots",
		geom.Width, geom.Height, req.Layout, res.Drawn, len(res.Skipped), res.ExtraPhotos, res.EmptySlots)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	res.PNG = buf.Bytes()
	res.Image = canvas
	return res, nil
}

// decode opens the overlay and the first n photos concurrently. A photo
// failure is returned per index; an overlay failure aborts.
func (c *Composer) decode(ctx context.Context, req Request, withOverlay bool, n int) (image.Image, []image.Image, []error, error) {
	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}

	var overlay image.Image
	if withOverlay {
		g.Go(func() error {
			img, err := req.Overlay.Open(gctx)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrOverlayDecode, err)
			}
			if img.Bounds().Empty() {
				return fmt.Errorf("%w: empty overlay", ErrOverlayDecode)
			}
			overlay = img
			return nil
		})
	}

	photos := make([]image.Image, n)
	failures := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			src := req.Photos[i]
			if src == nil {
				failures[i] = fmt.Errorf("photo %d: nil source: %w", i, ErrDecode)
				return nil
			}
			img, err := src.Open(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures[i] = fmt.Errorf("photo %d: %w: %w", i, ErrDecode, err)
				return nil
			}
			if img.Bounds().Empty() {
				failures[i] = fmt.Errorf("photo %d is empty: %w", i, ErrDegenerateGeometry)
				return nil
			}
			photos[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return overlay, photos, failures, nil
}

// text draws s centered horizontally with its baseline at y.
func (c *Composer) text(dc *gg.Context, load fontLoader, size float64, col color.Color, s string, y float64) error {
	face, err := newFace(load, size)
	if err != nil {
		return err
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(col)
	dc.DrawStringAnchored(s, float64(dc.Width())/2, y, 0.5, 0)
	return nil
}
