package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/pixpack/internal/carrier"
	"github.com/ironsheep/pixpack/internal/imaging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	modeRead  = "read"
	modeWrite = "write"

	// stdio selects stdin or stdout in place of a file path.
	stdio = "-"
)

// cli holds the state shared by every command.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	format   string
	logLevel string

	logger *zap.Logger
	opts   carrier.Options
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	var mode, input, output string

	root := &cobra.Command{
		Use:   "pixpack",
		Short: "Pretend everything is an image",
		Long: `pixpack stores any byte stream in a lossless RGBA image and recovers it exactly.

The first pixel holds the payload length; the bytes follow four per pixel in
row-major order. Use "-" for --input or --output to read stdin or write stdout.

  pixpack --mode write --input notes.txt --output notes.png
  pixpack --mode read --input notes.png --output -`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case modeWrite:
				return c.pack(input, output)
			case modeRead:
				return c.unpack(input, output)
			default:
				return fmt.Errorf("unknown mode %q (want %s or %s)", mode, modeRead, modeWrite)
			}
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.Flags().StringVarP(&mode, "mode", "m", "", "Specify mode (read or write)")
	root.Flags().StringVarP(&input, "input", "i", "", "Read from this file")
	root.Flags().StringVarP(&output, "output", "o", "", "Write to this file")
	_ = root.MarkFlagRequired("mode")
	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("output")

	root.PersistentFlags().StringVar(&c.format, "format", envOr("PIXPACK_FORMAT", ""),
		"Carrier format: png or tiff (default: output extension, else png) [$PIXPACK_FORMAT]")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", envOr("PIXPACK_LOG_LEVEL", "warn"),
		"Log level: debug, info, warn or error [$PIXPACK_LOG_LEVEL]")

	root.AddCommand(
		c.packCmd(),
		c.unpackCmd(),
		c.inspectCmd(),
		c.planCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)
	return root
}

// setup validates the shared flags and builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(c.stderr, c.logLevel)
	if err != nil {
		return err
	}
	c.logger = logger

	var format imaging.Format
	if c.format != "" {
		format, err = imaging.ParseFormat(c.format)
		if err != nil {
			return err
		}
	}
	c.opts = carrier.Options{Format: format, Logger: logger}

	c.logger.Debug("starting",
		zap.String("command", cmd.Name()),
		zap.String("version", Version))
	return nil
}

// pack reads in and writes its carrier image to out. Either may be stdio.
func (c *cli) pack(in, out string) error {
	if in != stdio && out != stdio {
		_, err := carrier.PackFile(in, out, c.opts)
		return err
	}

	r, closeIn, err := c.openInput(in)
	if err != nil {
		return err
	}
	defer closeIn()

	if out == stdio {
		_, err := carrier.PackStream(r, c.stdout, c.opts)
		return err
	}

	opts := c.opts
	opts.Format, err = carrier.ResolveFormat(out, c.opts.Format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := carrier.PackStream(r, &buf, opts); err != nil {
		return err
	}
	return writeFile(out, buf.Bytes())
}

// unpack decodes the carrier at in and writes its payload to out.
func (c *cli) unpack(in, out string) error {
	if in != stdio && out != stdio {
		_, err := carrier.UnpackFile(in, out, c.opts)
		return err
	}

	r, closeIn, err := c.openInput(in)
	if err != nil {
		return err
	}
	defer closeIn()

	if out == stdio {
		_, err := carrier.UnpackStream(r, c.stdout, c.opts)
		return err
	}

	var buf bytes.Buffer
	if _, err := carrier.UnpackStream(r, &buf, c.opts); err != nil {
		return err
	}
	return writeFile(out, buf.Bytes())
}

func (c *cli) openInput(path string) (io.Reader, func(), error) {
	if path == stdio {
		return c.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &imaging.IOError{Op: "open", Target: path, Err: err}
	}
	return f, func() { f.Close() }, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &imaging.IOError{Op: "write", Target: path, Err: err}
	}
	return nil
}
