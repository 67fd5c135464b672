package docling

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type httpSource struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

type convertOptions struct {
	ToFormats []string `json:"to_formats"`
}

type sourceRequest struct {
	Sources []httpSource   `json:"sources"`
	Options convertOptions `json:"options"`
}

type conversionStatus string

const (
	statusSuccess        conversionStatus = "success"
	statusPartialSuccess conversionStatus = "partial_success"
)

type errorItem struct {
	ComponentType string `json:"component_type"`
	ModuleName    string `json:"module_name"`
	ErrorMessage  string `json:"error_message"`
}

type exportDocument struct {
	Filename string          `json:"filename"`
	Markdown string          `json:"md_content"`
	HTML     string          `json:"html_content"`
	JSON     json.RawMessage `json:"json_content"`
}

type convertResponse struct {
	Document       *exportDocument  `json:"document"`
	Status         conversionStatus `json:"status"`
	Errors         []errorItem      `json:"errors"`
	ProcessingTime float64          `json:"processing_time"`
}

func (r *convertResponse) toDocument(src model.Source) (*model.Document, error) {
	if r.Status != statusSuccess && r.Status != statusPartialSuccess {
		msgs := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			msgs = append(msgs, e.ErrorMessage)
		}
		msg := "docling conversion " + string(r.Status)
		if len(msgs) > 0 {
			msg += ": " + strings.Join(msgs, "; ")
		}
		return nil, goerr.New(msg,
			goerr.T(model.ErrTagConversion),
			goerr.V("source", src.Name()),
		)
	}

	if r.Document == nil {
		return nil, goerr.New("docling-serve returned no document",
			goerr.T(model.ErrTagConversion),
			goerr.V("source", src.Name()),
		)
	}

	raw := r.Document.JSON
	if string(raw) == "null" {
		raw = nil
	}

	return &model.Document{
		Name:     r.Document.Filename,
		Markdown: r.Document.Markdown,
		HTML:     r.Document.HTML,
		JSON:     raw,
	}, nil
}
