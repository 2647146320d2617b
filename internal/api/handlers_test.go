package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/boothapp/internal/frames"
	"github.com/youruser/boothapp/internal/store"
	"github.com/youruser/boothapp/internal/strip"
)

func newTestServer(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &Server{
		DB:       db,
		Presets:  frames.DefaultPresets(),
		Composer: strip.NewComposer(strip.Options{Presets: frames.DefaultPresets(), OmitFooter: true}),
		Overlay: func(url string) strip.Source {
			if url == "https://cdn.test/broken.png" {
				return strip.Encoded("broken")
			}
			return strip.Image(image.NewNRGBA(image.Rect(0, 0, 800, 1200)))
		},
	}
	r := gin.New()
	RegisterRoutes(r, s)
	return r, s
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataURL(t *testing.T, c color.NRGBA) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(64, 48, c)); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStripPlain(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(t, r, http.MethodPost, "/api/strips", stripRequest{
		Photos: []string{dataURL(t, color.NRGBA{R: 255, A: 255}), "not-base64!"},
		Theme:  "blue",
		Filter: "bw",
		Mirror: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if w.Header().Get("X-Strip-Drawn") != "1" || w.Header().Get("X-Strip-Skipped") != "1" {
		t.Errorf("headers = %v", w.Header())
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 80+2*300+20+60+40 {
		t.Errorf("strip size = %v", img.Bounds())
	}
}

func TestStripWithFrame(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(t, r, http.MethodPost, "/api/frames", frames.Frame{
		Name:         "Neon",
		ImageURL:     "https://cdn.test/neon.png",
		LayoutConfig: []strip.Slot{{X: 10, Y: 10, Width: 30, Height: 20}, {X: 50, Y: 10, Width: 30, Height: 20}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create frame = %d: %s", w.Code, w.Body.String())
	}
	var f frames.Frame
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}

	w = do(t, r, http.MethodPost, "/api/strips?format=json", stripRequest{
		FrameID: f.ID,
		Photos:  []string{dataURL(t, color.NRGBA{R: 255, A: 255}), dataURL(t, color.NRGBA{B: 255, A: 255}), dataURL(t, color.NRGBA{G: 255, A: 255})},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("strip = %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Image       string `json:"image"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Drawn       int    `json:"drawn"`
		ExtraPhotos int    `json:"extra_photos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 800 || out.Height != 1200 || out.Drawn != 2 || out.ExtraPhotos != 1 {
		t.Errorf("result = %+v", out)
	}
	img, err := strip.DataURL(out.Image).Open(context.Background())
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if red, _, _, _ := img.At(200, 240).RGBA(); red>>8 < 250 {
		t.Errorf("slot 0 pixel = %v, want red", img.At(200, 240))
	}
}

func TestStripErrors(t *testing.T) {
	r, s := newTestServer(t)

	if w := do(t, r, http.MethodPost, "/api/strips", stripRequest{FrameID: "missing"}); w.Code != http.StatusNotFound {
		t.Errorf("missing frame = %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/strips", stripRequest{Filter: "neon"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad filter = %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/strips", stripRequest{Photos: make([]string, 11)}); w.Code != http.StatusBadRequest {
		t.Errorf("too many photos = %d", w.Code)
	}

	broken := &frames.Frame{Name: "Broken", ImageURL: "https://cdn.test/broken.png", Status: frames.StatusActive}
	if err := frames.Validate(broken); err != nil {
		t.Fatal(err)
	}
	if err := s.DB.CreateFrame(context.Background(), broken); err != nil {
		t.Fatal(err)
	}
	if w := do(t, r, http.MethodPost, "/api/strips", stripRequest{FrameID: broken.ID}); w.Code != http.StatusBadGateway {
		t.Errorf("broken overlay = %d", w.Code)
	}

	soon := &frames.Frame{Name: "Soon", ImageURL: "https://cdn.test/soon.png", Status: frames.StatusComingSoon}
	if err := frames.Validate(soon); err != nil {
		t.Fatal(err)
	}
	if err := s.DB.CreateFrame(context.Background(), soon); err != nil {
		t.Fatal(err)
	}
	if w := do(t, r, http.MethodPost, "/api/strips", stripRequest{FrameID: soon.ID}); w.Code != http.StatusConflict {
		t.Errorf("coming soon frame = %d", w.Code)
	}
}

func TestFrameCRUD(t *testing.T) {
	r, _ := newTestServer(t)

	if w := do(t, r, http.MethodPost, "/api/frames", frames.Frame{Name: "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid create = %d", w.Code)
	}

	w := do(t, r, http.MethodPost, "/api/frames", frames.Frame{Name: "Perunggu", ImageURL: "https://cdn.test/perunggu.png"})
	var f frames.Frame
	json.Unmarshal(w.Body.Bytes(), &f)

	w = do(t, r, http.MethodPut, "/api/frames/"+f.ID, map[string]any{"status": "coming_soon"})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}
	var updated frames.Frame
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Status != frames.StatusComingSoon || updated.Name != "Perunggu" || updated.ID != f.ID {
		t.Errorf("updated = %+v", updated)
	}

	w = do(t, r, http.MethodGet, "/api/frames?status=active", nil)
	var list struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 0 {
		t.Errorf("active frames = %d, want 0", list.Count)
	}

	if w := do(t, r, http.MethodDelete, "/api/frames/"+f.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/frames/"+f.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", w.Code)
	}
}

func TestLinksAndQR(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/links", map[string]any{"title": "Instagram", "url": "https://instagram.com/pixenze"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create link = %d: %s", w.Code, w.Body.String())
	}
	var l struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
		Icon     string `json:"icon"`
	}
	json.Unmarshal(w.Body.Bytes(), &l)
	if !l.IsActive || l.Icon != "Link" {
		t.Errorf("created link = %+v", l)
	}

	w = do(t, r, http.MethodGet, "/api/links/"+l.ID+"/qr?size=128", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("qr = %d", w.Code)
	}
	img, err := png.Decode(w.Body)
	if err != nil || img.Bounds().Dx() != 128 {
		t.Errorf("qr image = %v, %v", img, err)
	}

	w = do(t, r, http.MethodGet, "/api/links/export", nil)
	if got := w.Body.String(); got != "Instagram: https://instagram.com/pixenze" {
		t.Errorf("export = %q", got)
	}

	if w := do(t, r, http.MethodPut, "/api/links/"+l.ID, map[string]any{"is_active": false}); w.Code != http.StatusOK {
		t.Errorf("update link = %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/links?active=true", nil)
	var list struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 0 {
		t.Errorf("visible links = %d", list.Count)
	}

	if w := do(t, r, http.MethodGet, "/api/qr", nil); w.Code != http.StatusBadRequest {
		t.Errorf("qr without text = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/links/"+l.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete link = %d", w.Code)
	}
}
