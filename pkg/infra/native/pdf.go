package native

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/m-mizutani/goerr/v2"
)

func parsePDF(data []byte) (*body, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open PDF")
	}

	b := &body{}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := strings.TrimSpace(pageText(page))
		if text == "" {
			continue
		}

		b.Sections = append(b.Sections, section{
			Kind:     "page",
			Label:    strconv.Itoa(i),
			Markdown: text,
		})
	}

	if len(b.Sections) == 0 {
		return nil, goerr.New("no readable text found in PDF", goerr.V("pages", r.NumPage()))
	}

	return b, nil
}

// pageText joins words row by row; empty glyph runs mark word boundaries.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return text
	}

	var out strings.Builder
	for _, row := range rows {
		var line strings.Builder
		gap := false
		for _, word := range row.Content {
			if word.S == "" {
				gap = true
				continue
			}
			if gap && line.Len() > 0 && !strings.HasSuffix(line.String(), " ") {
				line.WriteString(" ")
			}
			line.WriteString(word.S)
			gap = false
		}
		if text := strings.TrimSpace(line.String()); text != "" {
			out.WriteString(text)
			out.WriteString("\n")
		}
	}
	return out.String()
}
