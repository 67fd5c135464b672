package config

import (
	"net/http"
	"time"

	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/infra/docling"
	"github.com/m-mizutani/doclingo/pkg/infra/native"
	"github.com/m-mizutani/doclingo/pkg/infra/staging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	BackendDocling = "docling"
	BackendNative  = "native"
)

// Converter holds conversion backend configuration
type Converter struct {
	Backend        string        `json:"backend"`
	DoclingURL     string        `json:"docling_url"`
	DoclingAPIKey  string        `json:"docling_api_key" masq:"secret"`
	DoclingTimeout time.Duration `json:"docling_timeout"`
	StagingDir     string        `json:"staging_dir"`
}

// Flags returns CLI flags for converter configuration
func (c *Converter) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "converter",
			Usage:       "Conversion backend (docling, native)",
			Value:       BackendDocling,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("DOCLINGO_CONVERTER"),
		},
		&cli.StringFlag{
			Name:        "docling-url",
			Usage:       "Base URL of docling-serve",
			Value:       "http://localhost:5001",
			Destination: &c.DoclingURL,
			Sources:     cli.EnvVars("DOCLINGO_DOCLING_URL"),
		},
		&cli.StringFlag{
			Name:        "docling-api-key",
			Usage:       "API key sent to docling-serve",
			Destination: &c.DoclingAPIKey,
			Sources:     cli.EnvVars("DOCLINGO_DOCLING_API_KEY"),
		},
		&cli.DurationFlag{
			Name:        "docling-timeout",
			Usage:       "Timeout of one docling-serve call, 0 for none",
			Destination: &c.DoclingTimeout,
			Sources:     cli.EnvVars("DOCLINGO_DOCLING_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "staging-dir",
			Usage:       "Directory for staged uploads (default: OS temp dir)",
			Destination: &c.StagingDir,
			Sources:     cli.EnvVars("DOCLINGO_STAGING_DIR"),
		},
	}
}

// New builds the configured Converter. The returned backend shares one HTTP
// client across all requests.
func (c *Converter) New() (interfaces.Converter, error) {
	client := &http.Client{}

	switch c.Backend {
	case BackendDocling:
		opts := []docling.Option{
			docling.WithHTTPClient(client),
			docling.WithTimeout(c.DoclingTimeout),
		}
		if c.DoclingAPIKey != "" {
			opts = append(opts, docling.WithAPIKey(c.DoclingAPIKey))
		}
		conv, err := docling.NewClient(c.DoclingURL, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create docling client")
		}
		return conv, nil

	case BackendNative:
		return native.New(native.WithHTTPClient(client)), nil

	default:
		return nil, goerr.New("unknown converter backend", goerr.V("backend", c.Backend))
	}
}

// NewStager builds the staging store for uploads
func (c *Converter) NewStager() interfaces.Stager {
	return staging.New(c.StagingDir)
}
