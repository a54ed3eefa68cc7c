package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ironsheep/pixpack/internal/codec"
	"github.com/ironsheep/pixpack/internal/imaging"
	"github.com/ironsheep/pixpack/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) packCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack INPUT OUTPUT",
		Short: "Pack a file into a carrier image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.pack(args[0], args[1])
		},
	}
}

func (c *cli) unpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack INPUT OUTPUT",
		Short: "Recover the bytes stored in a carrier image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.unpack(args[0], args[1])
		},
	}
}

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Report a carrier's dimensions, format, and declared length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := imaging.LoadCarrierInfo(imaging.NewGridCache(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(info)
		},
	}
}

func (c *cli) planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan LENGTH",
		Short: "Show the grid a payload of LENGTH bytes is packed into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid length %q: %w", args[0], err)
			}
			layout, err := codec.Plan(int(n))
			if err != nil {
				return err
			}
			return c.printJSON(layout)
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server on stdin/stdout.

The server speaks JSON-RPC 2.0, one message per line. Configure it in your MCP
client; logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.logger.Info("MCP server starting",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("commit", GitCommit))
			return server.New(server.WithLogger(c.logger)).Serve(c.stdin, c.stdout)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.stdout, "pixpack %s\n", Version)
			fmt.Fprintf(c.stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(c.stdout, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
