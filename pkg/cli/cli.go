package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/cli/config"
	"github.com/m-mizutani/doclingo/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type runConfig struct {
	writer io.Writer
}

// Option is a functional option for Run
type Option func(*runConfig)

// WithWriter sets where command output is written. Logs are not affected.
func WithWriter(w io.Writer) Option {
	return func(c *runConfig) {
		c.writer = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	var loggerCfg config.Logger
	var logger *slog.Logger

	app := &cli.Command{
		Name:    "doclingo",
		Usage:   "Document conversion API server",
		Version: types.Version,
		Flags:   loggerCfg.Flags(),
		Writer:  rc.writer,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdConvert(),
			cmdDevice(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
