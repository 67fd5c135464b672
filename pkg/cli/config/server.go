package config

import (
	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr           string
	AllowedOrigins []string
	MaxUploadSize  string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "0.0.0.0:8001",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("DOCLINGO_ADDR"),
		},
		&cli.StringSliceFlag{
			Name:        "allowed-origin",
			Usage:       "Origin allowed by CORS (repeatable)",
			Value:       []string{"http://localhost:3000", "http://localhost:3001"},
			Destination: &c.AllowedOrigins,
			Sources:     cli.EnvVars("DOCLINGO_ALLOWED_ORIGINS"),
		},
		&cli.StringFlag{
			Name:        "max-upload-size",
			Usage:       "Maximum request body size (e.g. 100MB)",
			Value:       "100MB",
			Destination: &c.MaxUploadSize,
			Sources:     cli.EnvVars("DOCLINGO_MAX_UPLOAD_SIZE"),
		},
	}
}

// MaxUploadBytes parses MaxUploadSize
func (c *Server) MaxUploadBytes() (int64, error) {
	size, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid max upload size", goerr.V("value", c.MaxUploadSize))
	}
	if size == 0 {
		return 0, goerr.New("max upload size must be positive", goerr.V("value", c.MaxUploadSize))
	}
	return int64(size), nil
}
