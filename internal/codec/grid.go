package codec

// Pixel is one grid slot of four 8-bit channels. The codec assigns no color
// meaning to the channels.
type Pixel [4]byte

// Sink is a writable pixel grid.
//
// Create is called exactly once, before any SetPixel, with the dimensions chosen
// by Plan. Pixels never passed to SetPixel keep whatever default the sink uses.
type Sink interface {
	Create(width, height int) error
	SetPixel(x, y int, p Pixel)
}

// Source is a readable pixel grid.
type Source interface {
	Dimensions() (width, height int)
	Pixel(x, y int) Pixel
}

// Grid is an in-memory pixel grid implementing both Sink and Source.
// The zero value is an empty 0x0 grid.
type Grid struct {
	width  int
	height int
	pix    []Pixel
}

// NewGrid returns a zeroed width x height grid.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	_ = g.Create(width, height)
	return g
}

// Create resets the grid to width x height zero pixels.
func (g *Grid) Create(width, height int) error {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	g.width = width
	g.height = height
	g.pix = make([]Pixel, width*height)
	return nil
}

// SetPixel writes p at (x, y). Out-of-range coordinates are ignored.
func (g *Grid) SetPixel(x, y int, p Pixel) {
	if !g.inBounds(x, y) {
		return
	}
	g.pix[y*g.width+x] = p
}

// Pixel returns the pixel at (x, y), or the zero pixel when out of range.
func (g *Grid) Pixel(x, y int) Pixel {
	if !g.inBounds(x, y) {
		return Pixel{}
	}
	return g.pix[y*g.width+x]
}

// Dimensions returns the grid width and height.
func (g *Grid) Dimensions() (width, height int) {
	return g.width, g.height
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}
