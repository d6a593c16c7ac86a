package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Stryxus/WebTools/internal/logging"

	// Image format decoders for the RGBA repack path
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// LosslessDepth is the directory depth below the source root at which
// raster assets are treated as icons and encoded losslessly. Everything
// deeper or shallower takes the lossy photographic path.
const LosslessDepth = 2

// RasterOptions is the tunable encoding policy for raster images. The
// numeric targets are configuration, not a hard contract.
type RasterOptions struct {
	// MaxDimension is the resize ceiling; images whose width or height
	// exceeds it are downscaled preserving aspect ratio.
	MaxDimension int
	// AvifQuality is the quality target for the lossy AVIF path.
	AvifQuality int
	// PNGCompression is the zlib effort for the lossless PNG path.
	PNGCompression int
}

// Raster transcodes raster images into web-ready formats using libvips.
type Raster struct {
	opts RasterOptions
}

// NewRaster creates a raster strategist with the given policy.
func NewRaster(opts RasterOptions) *Raster {
	return &Raster{opts: opts}
}

// TargetExt returns the output extension for an image at the given
// directory depth below the source root.
func (r *Raster) TargetExt(depth int) string {
	if depth == LosslessDepth {
		return ".png"
	}
	return ".avif"
}

// Transcode re-encodes the input image into the target path. The target's
// extension carries the format decision made by TargetExt.
func (r *Raster) Transcode(_ context.Context, input, target string) error {
	lossless := strings.EqualFold(filepath.Ext(target), ".png")

	ref, err := vips.LoadImageFromFile(input, vips.NewImportParams())
	if err != nil {
		return fmt.Errorf("failed to load image %s: %w", input, err)
	}
	defer ref.Close()

	width := ref.Width()
	height := ref.Height()

	// Alpha images go through a raw RGBA repack so the alpha channel
	// survives the codec's chroma pipeline.
	if ref.HasAlpha() {
		logging.Debug("Repacking %s as raw RGBA (alpha present, %dx%d)", filepath.Base(input), width, height)
		return r.transcodeWithAlpha(input, target, lossless)
	}

	if w, h, resize := fitWithin(width, height, r.opts.MaxDimension); resize {
		logging.Debug("Downscaling %s from %dx%d to %dx%d", filepath.Base(input), width, height, w, h)
		if err := ref.Thumbnail(w, h, vips.InterestingNone); err != nil {
			return fmt.Errorf("failed to resize %s: %w", input, err)
		}
	}

	return r.export(ref, target, lossless)
}

// transcodeWithAlpha decodes the image to an interleaved NRGBA buffer,
// resizes in that space if needed, and re-imports the raw pixels into vips
// for the final encode.
func (r *Raster) transcodeWithAlpha(input, target string, lossless bool) error {
	img, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", input, err)
	}

	bounds := img.Bounds()
	if w, h, resize := fitWithin(bounds.Dx(), bounds.Dy(), r.opts.MaxDimension); resize {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	nrgba := imaging.Clone(img)
	ref, err := vips.LoadImageFromMemory(nrgba.Pix, nrgba.Rect.Dx(), nrgba.Rect.Dy(), 4)
	if err != nil {
		return fmt.Errorf("failed to import raw RGBA for %s: %w", input, err)
	}
	defer ref.Close()

	return r.export(ref, target, lossless)
}

func (r *Raster) export(ref *vips.ImageRef, target string, lossless bool) error {
	var buf []byte
	var err error

	if lossless {
		params := vips.NewPngExportParams()
		params.Compression = r.opts.PNGCompression
		buf, _, err = ref.ExportPng(params)
	} else {
		params := vips.NewAvifExportParams()
		params.Quality = r.opts.AvifQuality
		params.Lossless = false
		buf, _, err = ref.ExportAvif(params)
	}
	if err != nil {
		return fmt.Errorf("encode failed for %s: %w", target, err)
	}

	if err := os.WriteFile(target, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// fitWithin constrains dimensions to max preserving aspect ratio. It
// returns the target dimensions and whether a resize is needed at all.
func fitWithin(width, height, max int) (int, int, bool) {
	if max <= 0 || (width <= max && height <= max) {
		return width, height, false
	}
	if width >= height {
		return max, height * max / width, true
	}
	return width * max / height, max, true
}
