package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/pixpack/internal/codec"
)

// Grid is a pixel grid stored as a non-premultiplied RGBA image.
//
// Grid implements codec.Sink and codec.Source, mapping codec channels 0-3 to
// the R, G, B and A bytes of each pixel. Pixels never written keep the NRGBA
// zero value (transparent black).
type Grid struct {
	img    *image.NRGBA
	format Format
}

// Compile-time interface checks
var (
	_ codec.Sink   = (*Grid)(nil)
	_ codec.Source = (*Grid)(nil)
)

// NewGrid returns an empty grid ready to be passed to codec.Pack.
func NewGrid() *Grid {
	return &Grid{img: image.NewNRGBA(image.Rect(0, 0, 0, 0))}
}

// FromImage converts any decoded image into a Grid.
//
// The image is copied into a fresh *image.NRGBA with its origin at (0,0).
// Premultiplied sources are un-premultiplied; 16-bit sources are reduced to
// 8 bits per channel.
func FromImage(img image.Image) *Grid {
	return &Grid{img: imaging.Clone(img)}
}

// Create allocates a width x height grid, discarding any previous contents.
func (g *Grid) Create(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	g.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// SetPixel writes the four channel bytes of p at (x, y).
// Coordinates outside the grid are ignored.
func (g *Grid) SetPixel(x, y int, p codec.Pixel) {
	if !g.inBounds(x, y) {
		return
	}
	i := g.img.PixOffset(x, y)
	copy(g.img.Pix[i:i+4], p[:])
}

// Pixel returns the four channel bytes at (x, y), or the zero pixel when the
// coordinates are outside the grid.
func (g *Grid) Pixel(x, y int) codec.Pixel {
	var p codec.Pixel
	if !g.inBounds(x, y) {
		return p
	}
	i := g.img.PixOffset(x, y)
	copy(p[:], g.img.Pix[i:i+4])
	return p
}

// Dimensions returns the grid width and height in pixels.
func (g *Grid) Dimensions() (width, height int) {
	if g.img == nil {
		return 0, 0
	}
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. It is shared, not copied.
func (g *Grid) Image() *image.NRGBA {
	return g.img
}

// Format returns the container format the grid was decoded from, or "" for
// grids built in memory.
func (g *Grid) Format() Format {
	return g.format
}

func (g *Grid) inBounds(x, y int) bool {
	if g.img == nil {
		return false
	}
	return (image.Point{X: x, Y: y}).In(g.img.Rect)
}
