package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"
)

func decodePreview(t *testing.T, result *PreviewResult) (int, int) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestPreview(t *testing.T) {
	g := packGrid(t, make([]byte, 100)) // 5x6

	result, err := Preview(g, 4, true)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Width != 20 || result.Height != 24 || result.Scale != 4 {
		t.Errorf("got %dx%d scale %d, want 20x24 scale 4", result.Width, result.Height, result.Scale)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if w, h := decodePreview(t, result); w != 20 || h != 24 {
		t.Errorf("decoded preview is %dx%d, want 20x24", w, h)
	}
}

func TestPreview_AutoScale(t *testing.T) {
	g := packGrid(t, make([]byte, 100)) // 5x6 -> 256/6 = 42

	result, err := Preview(g, 0, false)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Scale != 42 {
		t.Errorf("auto scale: got %d, want 42", result.Scale)
	}
}

func TestPreview_DoesNotModifyGrid(t *testing.T) {
	g := packGrid(t, []byte{1, 2, 3})
	before := append([]byte(nil), g.Image().Pix...)

	if _, err := Preview(g, 2, true); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !bytes.Equal(before, g.Image().Pix) {
		t.Error("opaque preview modified the carrier pixels")
	}
}

func TestPreview_Errors(t *testing.T) {
	if _, err := Preview(NewGrid(), 1, true); err == nil {
		t.Error("expected error for empty grid")
	}

	g := packGrid(t, []byte("abc"))
	if _, err := Preview(g, -1, true); err == nil {
		t.Error("expected error for negative scale")
	}
	if _, err := Preview(g, MaxPreviewSide, true); err == nil {
		t.Error("expected error for oversized preview")
	}
}

func TestAutoScale(t *testing.T) {
	tests := []struct {
		w, h, want int
	}{
		{1, 1, 256},
		{16, 17, 15},
		{300, 10, 1},
		{1000, 1000, 1},
	}
	for _, tt := range tests {
		if got := autoScale(tt.w, tt.h); got != tt.want {
			t.Errorf("autoScale(%d,%d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
