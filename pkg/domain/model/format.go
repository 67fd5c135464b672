package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// OutputFormat selects which export of a converted document is returned
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatJSON     OutputFormat = "json"

	DefaultOutputFormat = FormatMarkdown
)

// OutputFormats lists every accepted output format
var OutputFormats = []OutputFormat{FormatMarkdown, FormatHTML, FormatJSON}

// ParseOutputFormat converts a request value into an OutputFormat. An empty
// value selects DefaultOutputFormat; unknown values are validation errors.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if s == "" {
		return DefaultOutputFormat, nil
	}

	for _, f := range OutputFormats {
		if OutputFormat(s) == f {
			return f, nil
		}
	}

	names := make([]string, len(OutputFormats))
	for i, f := range OutputFormats {
		names[i] = string(f)
	}
	return "", goerr.New("Unsupported output format: "+s+". Supported formats: "+strings.Join(names, ", "),
		goerr.T(ErrTagValidation),
	)
}

func (f OutputFormat) String() string {
	return string(f)
}
