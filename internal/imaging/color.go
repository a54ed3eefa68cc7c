package imaging

import (
	"fmt"

	"github.com/ironsheep/pixpack/internal/codec"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Pixel roles within a carrier.
const (
	RoleHeader  = "header"
	RolePayload = "payload"
	RolePadding = "padding"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PixelSample describes one carrier pixel.
//
// Channels holds the raw, non-premultiplied bytes exactly as the codec sees
// them. Hex and HSL interpret channels 0-2 as RGB for people looking at the
// image; they carry no meaning for the codec.
type PixelSample struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Index    int      `json:"index"`    // Row-major linear index
	Role     string   `json:"role"`     // header, payload, or padding
	Channels [4]uint8 `json:"channels"` // Channel 0..3
	Bytes    int      `json:"bytes"`    // Payload bytes this pixel carries
	Hex      string   `json:"hex"`      // "#rrggbb" from channels 0-2
	HSL      HSLColor `json:"hsl"`
}

// SamplePixel reads the pixel at (x, y) of a carrier and classifies it.
//
// Parameters:
//   - g: The carrier grid.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *PixelSample: The raw channels plus the pixel's role in the carrier.
//   - error: Non-nil if coordinates are outside the grid bounds.
//
// # Roles
//
// Pixel (0,0) is the header. Pixels whose linear index is at most ceil(N/4)
// for the declared length N are payload; everything after that is padding.
// If the header exceeds the grid's capacity, every non-header pixel is reported
// as payload.
func SamplePixel(g *Grid, x, y int) (*PixelSample, error) {
	width, height := g.Dimensions()
	if x < 0 || x >= width || y < 0 || y >= height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	p := g.Pixel(x, y)
	idx := y*width + x

	sample := &PixelSample{
		X:        x,
		Y:        y,
		Index:    idx,
		Channels: p,
	}

	declared, _ := codec.Header(g)
	sample.Role, sample.Bytes = pixelRole(idx, declared)

	c := colorful.Color{
		R: float64(p[0]) / 255.0,
		G: float64(p[1]) / 255.0,
		B: float64(p[2]) / 255.0,
	}
	h, s, l := c.Hsl()
	sample.Hex = c.Hex()
	sample.HSL = HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}

	return sample, nil
}

// pixelRole classifies the pixel at linear index idx of a carrier declaring
// declared payload bytes, and reports how many of those bytes it carries.
func pixelRole(idx int, declared uint32) (string, int) {
	switch {
	case idx == 0:
		return RoleHeader, 0
	case uint64(idx-1)*4 < uint64(declared):
		if remaining := uint64(declared) - uint64(idx-1)*4; remaining < 4 {
			return RolePayload, int(remaining)
		}
		return RolePayload, 4
	}
	return RolePadding, 0
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledSample combines a pixel sample with its optional label.
type LabeledSample struct {
	Label string `json:"label,omitempty"`
	PixelSample
}

// MultiSampleResult contains pixel samples from multiple points, in input order.
type MultiSampleResult struct {
	Samples []LabeledSample `json:"samples"`
}

// SamplePixels samples several points in one call.
//
// On error, no partial results are returned.
func SamplePixels(g *Grid, points []LabeledPoint) (*MultiSampleResult, error) {
	results := make([]LabeledSample, 0, len(points))

	for _, pt := range points {
		sample, err := SamplePixel(g, pt.X, pt.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", pt.X, pt.Y, err)
		}
		results = append(results, LabeledSample{Label: pt.Label, PixelSample: *sample})
	}

	return &MultiSampleResult{Samples: results}, nil
}
