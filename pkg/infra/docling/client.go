package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// toFormats requests every rendering at once so that the output format can
// be chosen after conversion
var toFormats = []string{"md", "html", "json"}

type config struct {
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithAPIKey sets the key sent in the X-Api-Key header
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

// WithTimeout bounds each conversion call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// Client converts documents through a docling-serve instance
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

var _ interfaces.Converter = (*Client)(nil)

// NewClient creates a docling-serve client for baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("docling-serve URL is required")
	}

	cfg := &config{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.apiKey,
		timeout:    cfg.timeout,
		httpClient: cfg.httpClient,
	}, nil
}

// Name returns the backend name
func (c *Client) Name() string {
	return "docling"
}

// Convert sends the source to docling-serve and returns every rendering
func (c *Client) Convert(ctx context.Context, src model.Source) (*model.Document, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		req *http.Request
		err error
	)
	if src.URL != "" {
		req, err = c.sourceRequest(ctx, src.URL)
	} else {
		req, err = c.fileRequest(ctx, src.Path)
	}
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("Calling docling-serve",
		"endpoint", req.URL.String(),
		"source", src.Name(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call docling-serve",
			goerr.T(model.ErrTagConversion),
			goerr.V("endpoint", req.URL.String()),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, goerr.New("docling-serve returned status "+resp.Status+": "+strings.TrimSpace(string(data)),
			goerr.T(model.ErrTagConversion),
			goerr.V("endpoint", req.URL.String()),
			goerr.V("status", resp.StatusCode),
		)
	}

	var parsed convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode docling-serve response",
			goerr.T(model.ErrTagConversion),
		)
	}

	return parsed.toDocument(src)
}

func (c *Client) fileRequest(ctx context.Context, path string) (*http.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open source file",
			goerr.T(model.ErrTagConversion),
			goerr.V("path", path),
		)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, format := range toFormats {
		if err := mw.WriteField("to_formats", format); err != nil {
			return nil, goerr.Wrap(err, "failed to write form field")
		}
	}
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create form file")
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, goerr.Wrap(err, "failed to copy source file", goerr.V("path", path))
	}
	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/convert/file", &body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create docling-serve request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setHeaders(req)

	return req, nil
}

func (c *Client) sourceRequest(ctx context.Context, url string) (*http.Request, error) {
	payload := sourceRequest{
		Sources: []httpSource{{Kind: "http", URL: url}},
		Options: convertOptions{ToFormats: toFormats},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal docling-serve request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/convert/source", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create docling-serve request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	return req, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
