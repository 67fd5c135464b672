package model

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Source is the input of a converter: either a staged local file or a URL
type Source struct {
	Path string // Local path of a staged upload
	URL  string // Remote document fetched by the converter itself
}

// Name returns a human readable identifier of the source
func (s Source) Name() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// Document is the converted representation returned by a converter backend.
// It carries one rendering per output format.
type Document struct {
	Name     string
	Markdown string
	HTML     string
	JSON     json.RawMessage
}

// Export selects the rendering for format. JSON is re-indented so that
// every backend produces the same layout.
func (d *Document) Export(format OutputFormat) (string, error) {
	switch format {
	case FormatMarkdown:
		return d.Markdown, nil

	case FormatHTML:
		return d.HTML, nil

	case FormatJSON:
		if len(d.JSON) == 0 {
			return "", goerr.New("document has no JSON representation",
				goerr.T(ErrTagConversion),
				goerr.V("name", d.Name),
			)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, d.JSON, "", "  "); err != nil {
			return "", goerr.Wrap(err, "failed to serialize document as JSON",
				goerr.T(ErrTagConversion),
				goerr.V("name", d.Name),
			)
		}
		return buf.String(), nil

	default:
		return "", goerr.New("Unsupported output format: "+string(format),
			goerr.T(ErrTagValidation),
		)
	}
}
