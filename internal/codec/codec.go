package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrMalformedGrid reports a grid that cannot hold the payload its header
	// declares, or that has no header pixel at all.
	ErrMalformedGrid = errors.New("malformed pixel grid")

	// ErrPayloadTooLarge reports a payload longer than MaxLength bytes.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Pack writes data into dst and returns the layout it used.
//
// dst.Create is called with the planned dimensions, then the header pixel and
// every payload pixel are set. The final payload pixel is zero-filled past the
// end of data.
func Pack(data []byte, dst Sink) (Layout, error) {
	layout, err := Plan(len(data))
	if err != nil {
		return Layout{}, err
	}

	if err := dst.Create(layout.Width, layout.Height); err != nil {
		return Layout{}, fmt.Errorf("failed to create %dx%d grid: %w", layout.Width, layout.Height, err)
	}

	var header Pixel
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))
	dst.SetPixel(0, 0, header)

	for k := 0; k*4 < len(data); k++ {
		var p Pixel
		copy(p[:], data[k*4:])
		x, y := LinearToXY(k+1, layout.Width)
		dst.SetPixel(x, y, p)
	}

	return layout, nil
}

// Header returns the payload length declared by the grid's header pixel.
func Header(src Source) (uint32, error) {
	width, height := src.Dimensions()
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d grid has no header pixel", ErrMalformedGrid, width, height)
	}
	p := src.Pixel(0, 0)
	return binary.BigEndian.Uint32(p[:]), nil
}

// Unpack recovers the byte stream stored in src.
//
// Only the pixels needed to cover the declared length are read; trailing pixels
// are ignored. The result is never nil, even for an empty payload.
func Unpack(src Source) ([]byte, error) {
	n, err := Header(src)
	if err != nil {
		return nil, err
	}

	width, height := src.Dimensions()
	if capacity := Capacity(width, height); uint64(n) > uint64(capacity) {
		return nil, fmt.Errorf("%w: header declares %d bytes, %dx%d grid holds %d",
			ErrMalformedGrid, n, width, height, capacity)
	}

	length := int(n)
	out := make([]byte, 0, length)
	for idx := 1; len(out) < length; idx++ {
		x, y := LinearToXY(idx, width)
		p := src.Pixel(x, y)
		count := length - len(out)
		if count > len(p) {
			count = len(p)
		}
		out = append(out, p[:count]...)
	}

	return out, nil
}
