// Package carrier moves byte streams in and out of carrier images.
//
// It joins the codec to concrete inputs and outputs: it reads the whole input,
// builds the grid in memory, and only then writes the destination. Nothing here
// retries; the first error is returned to the caller.
package carrier

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/pixpack/internal/codec"
	"github.com/ironsheep/pixpack/internal/imaging"
	"go.uber.org/zap"
)

// Options controls packing and unpacking.
type Options struct {
	// Format is the container to write. Empty means "from the output file
	// extension", falling back to imaging.DefaultFormat.
	Format imaging.Format

	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// PackBytes packs data into a new in-memory grid.
func PackBytes(data []byte) (*imaging.Grid, codec.Layout, error) {
	g := imaging.NewGrid()
	layout, err := codec.Pack(data, g)
	if err != nil {
		return nil, codec.Layout{}, err
	}
	return g, layout, nil
}

// PackStream reads all of r, packs it, and writes the carrier image to w.
//
// The image is encoded into memory before anything is written to w.
func PackStream(r io.Reader, w io.Writer, opts Options) (codec.Layout, error) {
	format := opts.Format
	if format == "" {
		format = imaging.DefaultFormat
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return codec.Layout{}, &imaging.IOError{Op: "read", Target: "input stream", Err: err}
	}

	g, layout, err := PackBytes(data)
	if err != nil {
		return codec.Layout{}, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, g, format); err != nil {
		return codec.Layout{}, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return codec.Layout{}, &imaging.IOError{Op: "write", Target: "output stream", Err: err}
	}

	opts.logger().Debug("packed stream",
		zap.Int("bytes", layout.Length),
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height),
		zap.String("format", string(format)),
		zap.Int("image_bytes", buf.Len()))

	return layout, nil
}

// PackFile packs the file at in into a carrier image at out.
func PackFile(in, out string, opts Options) (codec.Layout, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return codec.Layout{}, &imaging.IOError{Op: "read", Target: in, Err: err}
	}

	format, err := ResolveFormat(out, opts.Format)
	if err != nil {
		return codec.Layout{}, err
	}

	g, layout, err := PackBytes(data)
	if err != nil {
		return codec.Layout{}, err
	}
	if err := imaging.Save(out, g, format); err != nil {
		return codec.Layout{}, err
	}

	opts.logger().Debug("packed file",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("bytes", layout.Length),
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height),
		zap.String("format", string(format)))

	return layout, nil
}

// UnpackStream decodes the carrier image read from r and writes its payload to w.
func UnpackStream(r io.Reader, w io.Writer, opts Options) (int, error) {
	g, format, err := imaging.Decode(r)
	if err != nil {
		return 0, err
	}

	data, err := codec.Unpack(g)
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(data); err != nil {
		return 0, &imaging.IOError{Op: "write", Target: "output stream", Err: err}
	}

	opts.logger().Debug("unpacked stream",
		zap.Int("bytes", len(data)),
		zap.String("format", string(format)))

	return len(data), nil
}

// UnpackFile decodes the carrier at in and writes its payload to out.
// The output file is only created once the payload has been fully decoded.
func UnpackFile(in, out string, opts Options) (int, error) {
	g, format, err := imaging.Open(in)
	if err != nil {
		return 0, err
	}

	data, err := codec.Unpack(g)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", in, err)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, &imaging.IOError{Op: "write", Target: out, Err: err}
	}

	opts.logger().Debug("unpacked file",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("bytes", len(data)),
		zap.String("format", string(format)))

	return len(data), nil
}

// ResolveFormat picks the container for an output path. An explicit format
// wins; otherwise the extension decides, and paths without a known extension
// get the default. A lossy format from either source is an error.
func ResolveFormat(path string, explicit imaging.Format) (imaging.Format, error) {
	if explicit != "" {
		if !explicit.Lossless() {
			if _, err := imaging.ParseFormat(string(explicit)); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: %s", imaging.ErrLossyFormat, explicit)
		}
		return explicit, nil
	}

	format, err := imaging.FormatFromName(path)
	if err != nil {
		return imaging.DefaultFormat, nil
	}
	if !format.Lossless() {
		return "", fmt.Errorf("%w: %s (from %s)", imaging.ErrLossyFormat, format, path)
	}
	return format, nil
}
