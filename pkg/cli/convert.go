package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/doclingo/pkg/cli/config"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/doclingo/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdConvert() *cli.Command {
	var (
		converterCfg config.Converter
		format       string
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (markdown, html, json)",
			Value:       model.DefaultOutputFormat.String(),
			Destination: &format,
		},
	}, converterCfg.Flags()...)

	return &cli.Command{
		Name:      "convert",
		Aliases:   []string{"c"},
		Usage:     "Convert local files and print the batch summary as JSON",
		ArgsUsage: "FILE...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			converter, err := converterCfg.New()
			if err != nil {
				return err
			}
			uc := usecase.NewConvert(converter, converterCfg.NewStager())

			paths := c.Args().Slice()
			uploads := make([]*model.Upload, 0, len(paths))
			for _, path := range paths {
				uploads = append(uploads, fileUpload(path))
			}

			summary, err := uc.ConvertBatch(ctx, uploads, format)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return goerr.Wrap(err, "failed to write summary")
			}
			return nil
		},
	}
}

// fileUpload presents a local file the same way as a multipart upload
func fileUpload(path string) *model.Upload {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	return &model.Upload{
		Filename: filepath.Base(path),
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to open file", goerr.V("path", path))
			}
			return f, nil
		},
	}
}
