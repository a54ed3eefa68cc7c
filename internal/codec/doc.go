// Package codec maps an arbitrary byte stream onto a grid of 4-channel pixels
// and back.
//
// The codec knows nothing about image containers. It writes through a Sink and
// reads through a Source, so any pixel store with (x, y) get/set access can carry
// a payload. The imaging package provides the NRGBA-backed implementation used for
// real files; Grid is a plain in-memory one.
//
// # Layout
//
// A packed grid holds:
//   - Pixel (0,0): the payload length N as a big-endian uint32.
//   - Pixels 1..ceil(N/4): the payload, four bytes per pixel in channel order.
//     Channels past the end of the payload in the last pixel are zero.
//   - Any trailing pixels: ignored.
//
// Pixels are linearized row-major (y outer, x inner). LinearToXY is the single
// place that ordering is defined; Pack and Unpack both go through it.
//
// # Sizing
//
// For pixel count P = 1 + ceil(N/4), the grid is floor(sqrt(P)) wide and
// ceil(P/width) tall. Prime P near a perfect square produces a narrow grid; that
// shape is kept as-is because existing carriers depend on it.
//
// # Errors
//
// Unpack returns ErrMalformedGrid when the grid is empty or its header declares
// more bytes than the payload pixels can hold. Pack returns ErrPayloadTooLarge
// for streams longer than the 32-bit header can express.
package codec
