package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
)

// Preview limits.
const (
	// PreviewTarget is the longest side, in pixels, an automatic scale aims for.
	PreviewTarget = 256

	// MaxPreviewSide bounds either side of a preview image.
	MaxPreviewSide = 4096
)

// PreviewResult contains an enlarged rendering of a carrier.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders a carrier enlarged for viewing.
//
// Carriers are usually tiny (a 1 KiB payload fits in 17x16 pixels), so each
// pixel is scaled up to a scale x scale block with nearest-neighbour sampling;
// no blending happens between neighbouring pixels.
//
// Parameters:
//   - g: The carrier grid.
//   - scale: Integer magnification. 0 picks the largest scale that keeps the
//     longest side at or below PreviewTarget (minimum 1).
//   - opaque: Force channel 3 to 255 so pixels with a zero alpha channel still
//     show their other channels.
//
// Returns an error when the grid is empty, the scale is negative, or the result
// would exceed MaxPreviewSide on either side.
func Preview(g *Grid, scale int, opaque bool) (*PreviewResult, error) {
	scaled, scale, err := renderScaled(g, scale, opaque)
	if err != nil {
		return nil, err
	}

	encoded, err := encodePNGBase64(scaled)
	if err != nil {
		return nil, err
	}

	b := scaled.Bounds()
	return &PreviewResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Scale:       scale,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// renderScaled upscales g by scale (0 = automatic) with nearest-neighbour
// sampling and returns the new image along with the scale used.
func renderScaled(g *Grid, scale int, opaque bool) (*image.RGBA, int, error) {
	width, height := g.Dimensions()
	if width == 0 || height == 0 {
		return nil, 0, fmt.Errorf("cannot preview empty %dx%d grid", width, height)
	}
	if scale < 0 {
		return nil, 0, fmt.Errorf("invalid preview scale %d", scale)
	}
	if scale == 0 {
		scale = autoScale(width, height)
	}

	newWidth, newHeight := width*scale, height*scale
	if newWidth > MaxPreviewSide || newHeight > MaxPreviewSide {
		return nil, 0, fmt.Errorf("preview %dx%d exceeds %d pixel limit", newWidth, newHeight, MaxPreviewSide)
	}

	var src image.Image = g.Image()
	if opaque {
		flat := image.NewNRGBA(g.Image().Rect)
		copy(flat.Pix, g.Image().Pix)
		for i := 3; i < len(flat.Pix); i += 4 {
			flat.Pix[i] = 0xFF
		}
		src = flat
	}

	return transform.Resize(src, newWidth, newHeight, transform.NearestNeighbor), scale, nil
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func autoScale(width, height int) int {
	longest := width
	if height > longest {
		longest = height
	}
	scale := PreviewTarget / longest
	if scale < 1 {
		scale = 1
	}
	return scale
}
