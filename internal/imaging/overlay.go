package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/ironsheep/pixpack/internal/codec"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultGridColor is the cell border color used when none is given.
const DefaultGridColor = "#FF00FF"

// Label background colors, one per pixel role.
var roleLabelColors = map[string]color.NRGBA{
	RoleHeader:  {200, 0, 0, 255},
	RolePayload: {0, 0, 0, 255},
	RolePadding: {96, 96, 96, 255},
}

// GridOverlayResult contains an enlarged carrier with its pixel cells outlined.
type GridOverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	Cells       int    `json:"cells"`
	Labeled     int    `json:"labeled"` // Cells that received an index label
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// GridOverlay renders an opaque preview of g and outlines every carrier pixel.
//
// Borders are drawn every scale pixels in gridColorHex ("#RRGGBB" or
// "#RRGGBBAA"; empty means DefaultGridColor). With showIndices set, each cell
// large enough to hold it gets its row-major linear index, on a background
// that marks its role: red for the header, black for payload, gray for padding.
func GridOverlay(g *Grid, scale int, showIndices bool, gridColorHex string) (*GridOverlayResult, error) {
	if gridColorHex == "" {
		gridColorHex = DefaultGridColor
	}
	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		return nil, err
	}

	img, scale, err := renderScaled(g, scale, true)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width, height := g.Dimensions()

	for x := scale; x < bounds.Dx(); x += scale {
		for y := 0; y < bounds.Dy(); y++ {
			img.Set(x, y, gridColor)
		}
	}
	for y := scale; y < bounds.Dy(); y += scale {
		for x := 0; x < bounds.Dx(); x++ {
			img.Set(x, y, gridColor)
		}
	}

	labeled := 0
	if showIndices {
		declared, _ := codec.Header(g)
		for idx := 0; idx < width*height; idx++ {
			label := strconv.Itoa(idx)
			if !labelFits(label, scale) {
				continue
			}
			role, _ := pixelRole(idx, declared)
			cx, cy := codec.LinearToXY(idx, width)
			drawLabel(img, cx*scale+2, cy*scale+2, label, color.NRGBA{255, 255, 255, 255}, roleLabelColors[role])
			labeled++
		}
	}

	encoded, err := encodePNGBase64(img)
	if err != nil {
		return nil, err
	}

	return &GridOverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Scale:       scale,
		Cells:       width * height,
		Labeled:     labeled,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// labelFits reports whether label, with its one pixel background margin,
// stays inside a cell without touching the next border.
func labelFits(label string, scale int) bool {
	need := len(label)*glyphAdvance + 2
	if need < glyphHeight+4 {
		need = glyphHeight + 4
	}
	return need <= scale
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	alpha := uint8(255)
	if len(s) == 8 {
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:6]
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", hex)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

const (
	glyphAdvance = 4
	glyphHeight  = 5
)

// 3x5 digit font.
var glyphs = map[rune][glyphHeight]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text with its top-left glyph pixel at (x, y) over a
// background box with a one pixel margin.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	set := func(px, py int, c color.Color) {
		if image.Pt(px, py).In(bounds) {
			img.Set(px, py, c)
		}
	}

	labelWidth := len(text) * glyphAdvance
	for dy := -1; dy <= glyphHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, bit := range line {
				if bit == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += glyphAdvance
	}
}
