package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/youruser/boothapp/internal/strip"
)

func TestApplyFilter(t *testing.T) {
	src := imaging.New(8, 8, color.NRGBA{R: 200, G: 60, B: 30, A: 255})
	for _, name := range []string{"", FilterNone, FilterBright, FilterVintage, FilterBW, FilterSoft} {
		out, err := ApplyFilter(src, name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if out.Bounds().Size() != src.Bounds().Size() {
			t.Errorf("%q changed size to %v", name, out.Bounds())
		}
	}

	bw, _ := ApplyFilter(src, FilterBW)
	r, g, b, _ := bw.At(4, 4).RGBA()
	if r != g || g != b {
		t.Errorf("bw pixel not gray: %d %d %d", r, g, b)
	}

	if _, err := ApplyFilter(src, "neon"); err == nil {
		t.Errorf("unknown filter accepted")
	}
	if ValidFilter("neon") || !ValidFilter(FilterSoft) {
		t.Errorf("ValidFilter mismatch")
	}
}

func TestCaptureMirrors(t *testing.T) {
	src := imaging.New(2, 1, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	img, err := Capture(strip.Image(src), FilterNone, true).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, b, _ := img.At(0, 0).RGBA(); b == 0 {
		t.Errorf("left pixel after mirror = %v, want blue", img.At(0, 0))
	}

	plain := strip.Image(src)
	if Capture(plain, "", false) != plain {
		t.Errorf("no-op capture should return the source unchanged")
	}
}

func TestGenerateQR(t *testing.T) {
	img, err := GenerateQRImage("https://example.com/l/abc", 256)
	if err != nil {
		t.Fatalf("GenerateQRImage: %v", err)
	}
	if img.Bounds().Dx() != 256 {
		t.Errorf("qr width = %d", img.Bounds().Dx())
	}
	for in, want := range map[int]int{0: DefaultQRSize, 10: MinQRSize, 5000: MaxQRSize, 300: 300} {
		if got := ClampQRSize(in); got != want {
			t.Errorf("ClampQRSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestURLSource(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 80, 120))); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/frame.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	img, err := URLSource(srv.URL + "/frame.png").Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Size() != image.Pt(80, 120) {
		t.Errorf("size = %v", img.Bounds().Size())
	}

	if _, err := URLSource(srv.URL + "/missing.png").Open(context.Background()); err == nil {
		t.Errorf("404 accepted")
	}

	// A missing overlay aborts the whole composite.
	_, err = strip.NewComposer(strip.Options{}).Compose(context.Background(), strip.Request{
		Overlay: URLSource(srv.URL + "/missing.png"),
		Layout:  strip.GenericFallback{},
	})
	if !errors.Is(err, strip.ErrOverlayDecode) {
		t.Errorf("Compose error = %v, want ErrOverlayDecode", err)
	}
}
