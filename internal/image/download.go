package imagepkg

import (
	"context"
	"fmt"
	"image"

	"k8s.io/klog/v2"

	"github.com/youruser/boothapp/internal/strip"
	"github.com/youruser/boothapp/internal/util"
)

// URLSource is a remote image, typically a frame overlay in the asset store.
type URLSource string

// Open downloads and decodes the image.
func (u URLSource) Open(ctx context.Context) (image.Image, error) {
	return DownloadImage(ctx, string(u))
}

// DownloadImage downloads an image from url and decodes it.
func DownloadImage(ctx context.Context, url string) (image.Image, error) {
	klog.V(1).Infof("downloading %s", url)
	body, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	img, err := strip.Encoded(body).Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	klog.V(1).Infof("downloaded %s: %v", url, img.Bounds())
	return img, nil
}
