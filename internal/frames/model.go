package frames

import (
	"time"

	"github.com/youruser/boothapp/internal/strip"
)

// Frame statuses.
const (
	StatusActive     = "active"
	StatusComingSoon = "coming_soon"
)

// Frame is a decorative overlay asset and its calibration.
type Frame struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ImageURL     string       `json:"image_url"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	Status       string       `json:"status"`
	Style        string       `json:"style"`
	Rarity       string       `json:"rarity"`
	Artist       string       `json:"artist"`
	Type         string       `json:"type"`
	LayoutConfig []strip.Slot `json:"layout_config"`
	CreatedAt    time.Time    `json:"created_at"`
}
