package strip

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Source yields a decoded image. Photos and overlays are both sources.
type Source interface {
	Open(ctx context.Context) (image.Image, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (image.Image, error)

// Open calls f(ctx).
func (f SourceFunc) Open(ctx context.Context) (image.Image, error) { return f(ctx) }

type decoded struct{ img image.Image }

// Image wraps an already decoded image.
func Image(img image.Image) Source { return decoded{img} }

func (d decoded) Open(context.Context) (image.Image, error) {
	if d.img == nil {
		return nil, fmt.Errorf("nil image")
	}
	return d.img, nil
}

// Encoded is an encoded raster (PNG, JPEG, GIF...).
type Encoded []byte

// Open decodes b, honouring EXIF orientation.
func (b Encoded) Open(context.Context) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging.Decode: %w", err)
	}
	return img, nil
}

// DataURL is a base64 "data:image/...;base64," string as produced by a
// browser canvas. A bare base64 payload is accepted too.
type DataURL string

// Open strips the data URL header and decodes the payload.
func (d DataURL) Open(ctx context.Context) (image.Image, error) {
	b, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	return Encoded(b).Open(ctx)
}

// Bytes returns the raw payload of d.
func (d DataURL) Bytes() ([]byte, error) {
	s := strings.TrimSpace(string(d))
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data url")
		}
		if !strings.HasSuffix(s[:i], ";base64") {
			return nil, fmt.Errorf("data url is not base64")
		}
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return b, nil
}
