package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// Format identifies an image container format.
type Format string

// Recognized container formats. Only lossless formats can carry a payload.
// BMP is recognized but lossy here: the BMP codec drops channel 3 and reads it
// back as 0xFF, which corrupts the header and every fourth payload byte.
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// DefaultFormat is used when neither an explicit format nor a file extension
// selects one.
const DefaultFormat = PNG

var (
	// ErrUnsupportedFormat is returned for names and data that map to no known
	// container format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrLossyFormat is returned when a carrier would be written to, or read
	// from, a format that does not preserve pixel bytes exactly.
	ErrLossyFormat = errors.New("lossy image format cannot carry data")
)

// IOError reports a failure to read or write a carrier or its payload.
type IOError struct {
	Op     string // "read", "write", "decode", "encode", "stat"
	Target string // path, "stdin", "stdout", or a short description
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

var knownFormats = []Format{PNG, TIFF, BMP, JPEG, GIF}

// Formats returns every recognized format, lossless ones first.
func Formats() []Format {
	return append([]Format(nil), knownFormats...)
}

// LosslessFormats returns the formats that can carry a payload.
func LosslessFormats() []Format {
	var out []Format
	for _, f := range knownFormats {
		if f.Lossless() {
			out = append(out, f)
		}
	}
	return out
}

// Lossless reports whether f preserves every channel byte.
func (f Format) Lossless() bool {
	switch f {
	case PNG, TIFF:
		return true
	}
	return false
}

// MimeType returns the media type for f.
func (f Format) MimeType() string {
	switch f {
	case "":
		return "application/octet-stream"
	case TIFF:
		return "image/tiff"
	}
	return "image/" + string(f)
}

// ParseFormat maps a format name or extension ("png", ".tif", "JPG") to a Format.
func ParseFormat(name string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return fromImagingFormat(f)
}

// FormatFromName picks a Format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	f, err := imaging.FormatFromFilename(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return fromImagingFormat(f)
}

func fromImagingFormat(f imaging.Format) (Format, error) {
	switch f {
	case imaging.PNG:
		return PNG, nil
	case imaging.BMP:
		return BMP, nil
	case imaging.TIFF:
		return TIFF, nil
	case imaging.JPEG:
		return JPEG, nil
	case imaging.GIF:
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

func (f Format) imagingFormat() (imaging.Format, error) {
	switch f {
	case PNG:
		return imaging.PNG, nil
	case BMP:
		return imaging.BMP, nil
	case TIFF:
		return imaging.TIFF, nil
	case JPEG:
		return imaging.JPEG, nil
	case GIF:
		return imaging.GIF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// Encode writes g to w in format f.
//
// Parameters:
//   - w: Destination stream.
//   - g: A grid produced by codec.Pack or decoded from a carrier.
//   - f: Container format. Must be lossless.
//
// # Errors
//
//   - ErrLossyFormat for JPEG or GIF
//   - ErrUnsupportedFormat for unknown formats
//   - *IOError wrapping the encoder error
func Encode(w io.Writer, g *Grid, f Format) error {
	if !f.Lossless() {
		if _, err := f.imagingFormat(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrLossyFormat, f)
	}
	imgFormat, err := f.imagingFormat()
	if err != nil {
		return err
	}

	if err := imaging.Encode(w, g.Image(), imgFormat, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return &IOError{Op: "encode", Target: string(f) + " image", Err: err}
	}
	return nil
}

// Decode reads a carrier image from r.
//
// The whole stream is read into memory so the container format can be sniffed
// before decoding. Lossy containers are rejected without being decoded.
//
// Returns the decoded grid (whose Format reports the detected container) and
// the format itself.
func Decode(r io.Reader) (*Grid, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", &IOError{Op: "read", Target: "image stream", Err: err}
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &IOError{Op: "decode", Target: "image header", Err: err}
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	if !format.Lossless() {
		return nil, format, fmt.Errorf("%w: %s", ErrLossyFormat, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, &IOError{Op: "decode", Target: string(format) + " image", Err: err}
	}

	g := FromImage(img)
	g.format = format
	return g, format, nil
}

// Save encodes g in format f and writes it to path.
//
// The image is fully encoded in memory before the file is touched, so an
// encoding failure never leaves a partial file behind. If f is empty the format
// is taken from the path's extension.
func Save(path string, g *Grid, f Format) error {
	if f == "" {
		var err error
		if f, err = FormatFromName(path); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g, f); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &IOError{Op: "write", Target: path, Err: err}
	}
	return nil
}

// Open loads the carrier image at path.
func Open(path string) (*Grid, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &IOError{Op: "read", Target: path, Err: err}
	}
	defer f.Close()

	g, format, err := Decode(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Target != path {
			ioErr.Target = path
		}
		return nil, format, err
	}
	return g, format, nil
}
