package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeOverlay(t *testing.T, result *GridOverlayResult) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestGridOverlay_Borders(t *testing.T) {
	g := packGrid(t, make([]byte, 100)) // 5x6

	result, err := GridOverlay(g, 10, false, "#00FF00")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if result.Width != 50 || result.Height != 60 || result.Cells != 30 || result.Labeled != 0 {
		t.Errorf("unexpected result: %dx%d cells=%d labeled=%d", result.Width, result.Height, result.Cells, result.Labeled)
	}

	img := decodeOverlay(t, result)
	green := color.NRGBA{0, 255, 0, 255}
	for _, pt := range []image.Point{{10, 0}, {40, 59}, {0, 10}, {49, 50}} {
		if got := nrgbaAt(img, pt.X, pt.Y); got != green {
			t.Errorf("border pixel %v = %v, want %v", pt, got, green)
		}
	}

	// Cell interiors keep the carrier's pixels, made opaque
	if got := nrgbaAt(img, 5, 5); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("header interior = %v", got)
	}
}

func TestGridOverlay_RoleLabels(t *testing.T) {
	// 13 bytes: header, 4 payload pixels, 1 padding pixel in a 2x3 grid
	g := packGrid(t, make([]byte, 13))
	if w, h := g.Dimensions(); w != 2 || h != 3 {
		t.Fatalf("grid is %dx%d, want 2x3", w, h)
	}

	result, err := GridOverlay(g, 12, true, "")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if result.Labeled != 6 {
		t.Errorf("labeled %d cells, want 6", result.Labeled)
	}

	img := decodeOverlay(t, result)
	white := color.NRGBA{255, 255, 255, 255}
	tests := []struct {
		name string
		x, y int
		role string
	}{
		{"header", 0, 0, RoleHeader},
		{"first payload", 1, 0, RolePayload},
		{"last payload", 0, 2, RolePayload},
		{"padding", 1, 2, RolePadding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Background margin sits one pixel inside the cell
			got := nrgbaAt(img, tt.x*12+1, tt.y*12+1)
			if want := roleLabelColors[tt.role]; got != want {
				t.Errorf("label background = %v, want %v", got, want)
			}
			// Top-left glyph pixel is lit for every digit except 1
			idx := tt.y*2 + tt.x
			if fg := nrgbaAt(img, tt.x*12+2, tt.y*12+2); idx != 1 && fg != white {
				t.Errorf("glyph pixel of %d = %v, want white", idx, fg)
			}
		})
	}
}

func TestGridOverlay_SmallCellsSkipLabels(t *testing.T) {
	g := packGrid(t, make([]byte, 100))
	result, err := GridOverlay(g, 4, true, "")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if result.Labeled != 0 {
		t.Errorf("labeled %d cells at scale 4, want 0", result.Labeled)
	}
}

func TestGridOverlay_Errors(t *testing.T) {
	g := packGrid(t, []byte("abc"))
	if _, err := GridOverlay(g, 8, false, "red"); err == nil {
		t.Error("expected error for invalid color")
	}
	if _, err := GridOverlay(NewGrid(), 8, false, ""); err == nil {
		t.Error("expected error for empty grid")
	}
	if _, err := GridOverlay(g, -2, false, ""); err == nil {
		t.Error("expected error for negative scale")
	}
}

func TestLabelFits(t *testing.T) {
	tests := []struct {
		label string
		scale int
		want  bool
	}{
		{"0", 8, false},
		{"0", 9, true},
		{"12", 10, true},
		{"123", 13, false},
		{"123", 14, true},
	}
	for _, tt := range tests {
		if got := labelFits(tt.label, tt.scale); got != tt.want {
			t.Errorf("labelFits(%q, %d) = %v, want %v", tt.label, tt.scale, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.NRGBA{0, 0, 255, 128}, false},
		{"#FFF", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
		{"#FF0000ZZ", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
