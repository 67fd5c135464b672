package native

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const defaultMaxFetchSize = 100 << 20

// parser turns raw bytes into a document body
type parser func(data []byte) (*body, error)

type config struct {
	httpClient   *http.Client
	maxFetchSize int64
}

// Option is a functional option for Converter configuration
type Option func(*config)

// WithHTTPClient sets the client used to fetch URL sources
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithMaxFetchSize limits the size of documents fetched from URLs
func WithMaxFetchSize(size int64) Option {
	return func(c *config) {
		c.maxFetchSize = size
	}
}

// Converter converts documents in process with Go libraries. It handles
// HTML, XLSX and PDF text; other formats are reported as conversion errors.
type Converter struct {
	httpClient   *http.Client
	maxFetchSize int64
}

var _ interfaces.Converter = (*Converter)(nil)

// New creates a native Converter
func New(opts ...Option) *Converter {
	cfg := &config{
		httpClient:   &http.Client{},
		maxFetchSize: defaultMaxFetchSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Converter{
		httpClient:   cfg.httpClient,
		maxFetchSize: cfg.maxFetchSize,
	}
}

// Name returns the backend name
func (c *Converter) Name() string {
	return "native"
}

// Convert reads the source, detects its type and renders it
func (c *Converter) Convert(ctx context.Context, src model.Source) (*model.Document, error) {
	var (
		data []byte
		name string
		err  error
	)
	if src.URL != "" {
		data, err = c.fetch(ctx, src.URL)
		name = path.Base(strings.SplitN(src.URL, "?", 2)[0])
	} else {
		data, err = os.ReadFile(src.Path)
		if err != nil {
			err = goerr.Wrap(err, "failed to read source file", goerr.V("path", src.Path))
		}
		name = filepath.Base(src.Path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load document", goerr.T(model.ErrTagConversion))
	}

	mime := mimetype.Detect(data)
	parse := selectParser(mime, model.FileExtension(name))
	if parse == nil {
		return nil, goerr.New("native converter cannot handle "+mime.String(),
			goerr.T(model.ErrTagConversion),
			goerr.V("source", src.Name()),
		)
	}

	ctxlog.From(ctx).Debug("Converting document in process",
		"source", src.Name(),
		"mimetype", mime.String(),
	)

	b, err := parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert document",
			goerr.T(model.ErrTagConversion),
			goerr.V("source", src.Name()),
			goerr.V("mimetype", mime.String()),
		)
	}
	b.Name = name
	b.MIMEType = mime.String()

	return b.render()
}

// selectParser picks a parser by sniffed type. Generic zip containers fall
// back to the extension since OOXML sniffing depends on entry order.
func selectParser(mime *mimetype.MIME, ext string) parser {
	switch {
	case mime.Is("text/html"):
		return parseHTML
	case mime.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return parseXLSX
	case mime.Is("application/pdf"):
		return parsePDF
	case mime.Is("application/zip") && ext == ".xlsx":
		return parseXLSX
	default:
		return nil
	}
}

func (c *Converter) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fetch request", goerr.V("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch document", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status "+resp.Status+" fetching document", goerr.V("url", url))
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, c.maxFetchSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read document body", goerr.V("url", url))
	}
	if n > c.maxFetchSize {
		return nil, goerr.New("fetched document exceeds size limit",
			goerr.V("url", url),
			goerr.V("limit", c.maxFetchSize),
		)
	}

	return buf.Bytes(), nil
}
