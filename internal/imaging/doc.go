// Package imaging backs the pixel-grid codec with real raster images.
//
// This package provides the image-side collaborators of the codec: an
// NRGBA-backed Grid that implements codec.Sink and codec.Source, container
// encoding and decoding for lossless formats, a thread-safe cache of loaded
// carriers, and a few inspection helpers (carrier metadata, raw pixel sampling,
// enlarged previews).
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Pixel (0,0) of a carrier is its length header
//
// # Channel Storage
//
// Grids are stored as *image.NRGBA, the non-premultiplied RGBA model. Channel
// bytes are kept verbatim regardless of the alpha channel, so a payload pixel
// with channel 3 equal to 0 does not lose channels 0-2. Premultiplied types
// such as *image.RGBA would zero them.
//
// # Container Formats
//
// Carriers must survive the container byte-for-byte:
//   - PNG: lossless, the default
//   - TIFF: lossless, deflate compressed
//   - BMP: recognized and rejected with ErrLossyFormat (alpha is not kept)
//   - JPEG, GIF: recognized and rejected with ErrLossyFormat
//
// Encoding and decoding go through github.com/disintegration/imaging.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. Grid values are not; callers sharing a
// Grid across goroutines must synchronize writes.
//
// # Error Handling
//
// Read and write failures are returned as *IOError, which records the operation
// and target and unwraps to the underlying error. Format problems are reported
// with ErrUnsupportedFormat or ErrLossyFormat.
package imaging
