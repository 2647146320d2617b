package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/youruser/boothapp/internal/frames"
	imagepkg "github.com/youruser/boothapp/internal/image"
	"github.com/youruser/boothapp/internal/links"
	"github.com/youruser/boothapp/internal/store"
	"github.com/youruser/boothapp/internal/strip"
)

// DefaultMaxPhotos bounds the photos accepted by one strip request.
const DefaultMaxPhotos = 10

// Server holds the handler dependencies.
type Server struct {
	DB        *store.DB
	Presets   frames.Presets
	Composer  *strip.Composer
	MaxPhotos int
	// Overlay opens a frame image. Defaults to downloading it.
	Overlay func(url string) strip.Source
}

func (s *Server) overlay(url string) strip.Source {
	if s.Overlay != nil {
		return s.Overlay(url)
	}
	return imagepkg.URLSource(url)
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, strip.ErrOverlayDecode):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		klog.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "presets": s.Presets.Keys()})
}

type stripRequest struct {
	Photos  []string `json:"photos"`
	FrameID string   `json:"frame_id"`
	Theme   string   `json:"theme"`
	Filter  string   `json:"filter"`
	Mirror  bool     `json:"mirror"`
}

type skippedJSON struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// stripHandler composes the posted photos into a strip. The response is a
// PNG unless ?format=json asks for a data URL plus the skipped slots.
func (s *Server) stripHandler(c *gin.Context) {
	var req stripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	limit := s.MaxPhotos
	if limit <= 0 {
		limit = DefaultMaxPhotos
	}
	if len(req.Photos) > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many photos", "max": limit})
		return
	}
	if !imagepkg.ValidFilter(req.Filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter " + strconv.Quote(req.Filter)})
		return
	}

	var frame *frames.Frame
	if req.FrameID != "" {
		f, err := s.DB.GetFrame(c.Request.Context(), req.FrameID)
		if err != nil {
			fail(c, err)
			return
		}
		if f.Status == frames.StatusComingSoon {
			c.JSON(http.StatusConflict, gin.H{"error": "frame " + f.Name + " is coming soon"})
			return
		}
		frame = f
	}

	layout := frames.SelectLayout(frame, strip.ParseTheme(req.Theme), s.Presets)
	job := strip.Request{Layout: layout}
	for _, p := range req.Photos {
		job.Photos = append(job.Photos, imagepkg.Capture(strip.DataURL(p), req.Filter, req.Mirror))
	}
	if frame != nil {
		job.Overlay = s.overlay(frame.ImageURL)
	}

	res, err := s.Composer.Compose(c.Request.Context(), job)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("X-Strip-Drawn", strconv.Itoa(res.Drawn))
	c.Header("X-Strip-Skipped", strconv.Itoa(len(res.Skipped)))
	c.Header("X-Strip-Extra-Photos", strconv.Itoa(res.ExtraPhotos))
	c.Header("X-Strip-Empty-Slots", strconv.Itoa(res.EmptySlots))

	if c.Query("format") == "json" {
		skipped := []skippedJSON{}
		for _, sk := range res.Skipped {
			skipped = append(skipped, skippedJSON{Index: sk.Index, Error: sk.Err.Error()})
		}
		c.JSON(http.StatusOK, gin.H{
			"image":        "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.PNG),
			"width":        res.Width,
			"height":       res.Height,
			"drawn":        res.Drawn,
			"skipped":      skipped,
			"extra_photos": res.ExtraPhotos,
			"empty_slots":  res.EmptySlots,
		})
		return
	}
	c.Data(http.StatusOK, "image/png", res.PNG)
}

func sizeParam(c *gin.Context) int {
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil {
		return imagepkg.DefaultQRSize
	}
	return imagepkg.ClampQRSize(size)
}

// qr endpoint returns a PNG of a QR for "text" query param
func (s *Server) qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		badRequest(c, errors.New("text is required"))
		return
	}
	b, err := imagepkg.GenerateQRPNG(text, sizeParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func splitQuery(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *Server) listFrames(c *gin.Context) {
	all, err := s.DB.ListFrames(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := frames.Filter(all, frames.FilterOptions{
		Statuses:  splitQuery(c, "status"),
		Styles:    splitQuery(c, "style"),
		Rarities:  splitQuery(c, "rarity"),
		Artists:   splitQuery(c, "artist"),
		FreeWords: c.Query("q"),
	})
	if out == nil {
		out = []frames.Frame{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "frames": out})
}

func (s *Server) getFrame(c *gin.Context) {
	f, err := s.DB.GetFrame(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) createFrame(c *gin.Context) {
	var f frames.Frame
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, err)
		return
	}
	if err := frames.Validate(&f); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.DB.CreateFrame(c.Request.Context(), &f); err != nil {
		fail(c, err)
		return
	}
	klog.Infof("created frame %s (%s)", f.ID, f.Name)
	c.JSON(http.StatusCreated, f)
}

// updateFrame applies the posted fields over the stored frame.
func (s *Server) updateFrame(c *gin.Context) {
	f, err := s.DB.GetFrame(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	id, created := f.ID, f.CreatedAt
	if err := c.ShouldBindJSON(f); err != nil {
		badRequest(c, err)
		return
	}
	f.ID, f.CreatedAt = id, created
	if err := frames.Validate(f); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.DB.UpdateFrame(c.Request.Context(), f); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) deleteFrame(c *gin.Context) {
	if err := s.DB.DeleteFrame(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listLinks(c *gin.Context) {
	all, err := s.DB.ListLinks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if c.Query("active") == "true" {
		all = links.Visible(all)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(all), "links": all})
}

func (s *Server) exportLinks(c *gin.Context) {
	all, err := s.DB.ListLinks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.String(http.StatusOK, links.ExportText(all))
}

func (s *Server) createLink(c *gin.Context) {
	l := links.Link{IsActive: true}
	if err := c.ShouldBindJSON(&l); err != nil {
		badRequest(c, err)
		return
	}
	if err := links.Validate(&l); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.DB.CreateLink(c.Request.Context(), &l); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (s *Server) updateLink(c *gin.Context) {
	l, err := s.DB.GetLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	id := l.ID
	if err := c.ShouldBindJSON(l); err != nil {
		badRequest(c, err)
		return
	}
	l.ID = id
	if err := links.Validate(l); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.DB.UpdateLink(c.Request.Context(), l); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) deleteLink(c *gin.Context) {
	if err := s.DB.DeleteLink(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// linkQRHandler renders a QR code pointing at the link's URL.
func (s *Server) linkQRHandler(c *gin.Context) {
	l, err := s.DB.GetLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	b, err := imagepkg.GenerateQRPNG(l.URL, sizeParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
