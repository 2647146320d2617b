package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/youruser/boothapp/internal/frames"
	imagepkg "github.com/youruser/boothapp/internal/image"
	"github.com/youruser/boothapp/internal/strip"
)

var composeOpts struct {
	overlay  string
	slots    string
	theme    string
	filter   string
	mirror   bool
	out      string
	noFooter bool
}

var composeCmd = &cobra.Command{
	Use:   "compose [flags] PHOTO...",
	Short: "Compose local photos into a strip PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		o := composeOpts
		if !imagepkg.ValidFilter(o.filter) {
			return fmt.Errorf("unknown filter %q", o.filter)
		}
		slots, err := parseSlots(o.slots)
		if err != nil {
			return err
		}

		req := strip.Request{}
		for _, path := range args {
			req.Photos = append(req.Photos, imagepkg.Capture(fileSource(path), o.filter, o.mirror))
		}

		var frame *frames.Frame
		if o.overlay != "" {
			frame = &frames.Frame{ImageURL: o.overlay, LayoutConfig: slots}
			req.Overlay = fileSource(o.overlay)
		}
		presets := loadPresets()
		req.Layout = frames.SelectLayout(frame, strip.ParseTheme(o.theme), presets)

		c := strip.NewComposer(strip.Options{Presets: presets, OmitFooter: o.noFooter})
		res, err := c.Compose(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.out, res.PNG, 0o644); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		klog.Infof("wrote %s (%dx%d, %T): %d drawn, %d skipped", o.out, res.Width, res.Height, req.Layout, res.Drawn, len(res.Skipped))
		for _, s := range res.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", s)
		}
		return nil
	},
}

// parseSlots accepts a JSON slot list inline or "@file".
func parseSlots(v string) ([]strip.Slot, error) {
	if v == "" {
		return nil, nil
	}
	b := []byte(v)
	if strings.HasPrefix(v, "@") {
		var err error
		if b, err = os.ReadFile(v[1:]); err != nil {
			return nil, err
		}
	}
	var slots []strip.Slot
	if err := json.Unmarshal(b, &slots); err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	return slots, nil
}

func fileSource(path string) strip.Source {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return imagepkg.URLSource(path)
	}
	return strip.SourceFunc(func(ctx context.Context) (image.Image, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return strip.Encoded(b).Open(ctx)
	})
}

func init() {
	f := composeCmd.Flags()
	f.StringVar(&composeOpts.overlay, "overlay", "", "frame overlay image (file or URL)")
	f.StringVar(&composeOpts.slots, "slots", "", `explicit slots as JSON, e.g. [{"x":10,"y":10,"width":30,"height":20}], or @file`)
	f.StringVar(&composeOpts.theme, "theme", "pink", "background theme when no overlay is given")
	f.StringVar(&composeOpts.filter, "filter", "none", "capture filter: none, bright, vintage, bw, soft")
	f.BoolVar(&composeOpts.mirror, "mirror", false, "flip photos horizontally")
	f.StringVar(&composeOpts.out, "out", "strip.png", "output PNG path")
	f.BoolVar(&composeOpts.noFooter, "no-footer", false, "omit the date footer")
}
