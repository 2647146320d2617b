package strip

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks a photo that could not be decoded. The slot is skipped.
	ErrDecode = errors.New("decode failed")

	// ErrOverlayDecode aborts a composite: the canvas size depends on the overlay.
	ErrOverlayDecode = errors.New("overlay decode failed")

	// ErrDegenerateGeometry marks a zero-area or off-canvas slot, or a
	// zero-sized source image.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrUnknownPreset is returned when a NamedPreset key has no tunables.
	ErrUnknownPreset = errors.New("unknown preset")
)

// SkippedSlot records a slot that received no pixels.
type SkippedSlot struct {
	Index int
	Err   error
}

func (s SkippedSlot) Error() string {
	return fmt.Sprintf("slot %d: %v", s.Index, s.Err)
}

func (s SkippedSlot) Unwrap() error { return s.Err }
