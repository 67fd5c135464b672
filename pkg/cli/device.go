package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/doclingo/pkg/infra/device"
	"github.com/urfave/cli/v3"
)

func cmdDevice() *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Show the compute device used for conversion",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			info := device.Detect(ctx)

			ok := color.New(color.FgGreen, color.Bold)
			ng := color.New(color.FgRed, color.Bold)

			if !info.CUDAAvailable {
				ng.Fprint(w, "✗ ")
				fmt.Fprintln(w, "CUDA is not available, running on CPU")
				return nil
			}

			ok.Fprint(w, "✓ ")
			fmt.Fprintf(w, "CUDA is available (version %s)\n", valueOr(info.CUDAVersion, "unknown"))
			fmt.Fprintf(w, "  GPU count: %d\n", len(info.GPUNames))
			for i, name := range info.GPUNames {
				fmt.Fprintf(w, "  GPU %d: %s\n", i, name)
			}
			return nil
		},
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
