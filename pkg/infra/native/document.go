package native

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const schemaName = "doclingo.document"

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// section is one page, sheet or HTML document of a converted body
type section struct {
	Kind     string `json:"kind"`
	Label    string `json:"label,omitempty"`
	Markdown string `json:"markdown"`
}

// body is the structured result of a parser
type body struct {
	SchemaName string    `json:"schema_name"`
	Name       string    `json:"name"`
	MIMEType   string    `json:"mimetype"`
	Title      string    `json:"title,omitempty"`
	Sections   []section `json:"body"`
}

func (b *body) markdown() string {
	parts := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		if text := strings.TrimSpace(s.Markdown); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (b *body) render() (*model.Document, error) {
	b.SchemaName = schemaName
	md := normalizeOutput(b.markdown())

	var html bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &html); err != nil {
		return nil, goerr.Wrap(err, "failed to render HTML", goerr.T(model.ErrTagConversion))
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal document", goerr.T(model.ErrTagConversion))
	}

	return &model.Document{
		Name:     b.Name,
		Markdown: md,
		HTML:     html.String(),
		JSON:     raw,
	}, nil
}
