package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/doclingo/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `json:"dsn" masq:"secret"`
	Env string `json:"env"`
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN, empty disables reporting",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("DOCLINGO_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Env,
			Sources:     cli.EnvVars("DOCLINGO_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry client when a DSN is set. The returned
// function flushes pending events and is safe to call when disabled.
func (c *Sentry) Configure() (func(), error) {
	if c.DSN == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     "doclingo@" + types.Version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

// Enabled reports whether error reporting is configured
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}
