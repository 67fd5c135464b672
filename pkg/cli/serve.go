package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/cli/config"
	controller "github.com/m-mizutani/doclingo/pkg/controller/http"
	"github.com/m-mizutani/doclingo/pkg/infra/device"
	"github.com/m-mizutani/doclingo/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		converterCfg config.Converter
		sentryCfg    config.Sentry
	)

	flags := append(serverCfg.Flags(), converterCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			maxUploadSize, err := serverCfg.MaxUploadBytes()
			if err != nil {
				return err
			}

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			logger.Info("Starting doclingo server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("allowed_origins", serverCfg.AllowedOrigins),
				slog.Int64("max_upload_size", maxUploadSize),
				slog.Any("converter", converterCfg),
				slog.Any("sentry", sentryCfg),
			)

			dev := device.Detect(ctx)
			logger.Info("Compute device detected",
				slog.String("device", dev.Device),
				slog.Bool("cuda_available", dev.CUDAAvailable),
				slog.Any("gpus", dev.GPUNames),
				slog.String("cuda_version", dev.CUDAVersion),
			)

			converter, err := converterCfg.New()
			if err != nil {
				return err
			}

			// Create use cases
			convertUC := usecase.NewConvert(converter, converterCfg.NewStager())

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				convertUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithDevice(dev),
				controller.WithAllowedOrigins(serverCfg.AllowedOrigins),
				controller.WithMaxUploadSize(maxUploadSize),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return err
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
