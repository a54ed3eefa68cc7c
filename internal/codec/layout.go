package codec

import (
	"fmt"
	"math"
)

// MaxLength is the largest payload the 32-bit header can describe.
const MaxLength = math.MaxUint32

// Layout describes the grid chosen for a payload of a given length.
type Layout struct {
	Length int `json:"length"` // Payload length in bytes
	Pixels int `json:"pixels"` // Header pixel plus payload pixels
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Capacity returns the number of payload bytes the layout's grid can hold.
func (l Layout) Capacity() int {
	return Capacity(l.Width, l.Height)
}

// PixelCount returns the number of pixels needed for n payload bytes: one header
// pixel plus ceil(n/4) payload pixels.
func PixelCount(n int) int {
	return 1 + (n+3)/4
}

// Plan applies the sizing policy to a payload of n bytes.
func Plan(n int) (Layout, error) {
	if n < 0 || uint64(n) > MaxLength {
		return Layout{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}

	pixels := PixelCount(n)
	width := isqrt(pixels)
	if width < 1 {
		width = 1
	}
	height := (pixels + width - 1) / width

	return Layout{
		Length: n,
		Pixels: pixels,
		Width:  width,
		Height: height,
	}, nil
}

// Capacity returns the payload bytes a width x height grid can carry.
func Capacity(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return (width*height - 1) * 4
}

// LinearToXY converts a row-major pixel index to grid coordinates.
func LinearToXY(idx, width int) (x, y int) {
	return idx % width, idx / width
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	// Correct float error at large n
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
