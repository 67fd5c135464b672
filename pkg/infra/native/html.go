package native

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/m-mizutani/goerr/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	reScript  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reDataURI = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)
)

func parseHTML(data []byte) (*body, error) {
	src := decodeHTML(data)
	title := htmlTitle(src)

	src = reScript.ReplaceAllString(src, "")
	src = reStyle.ReplaceAllString(src, "")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(src)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert HTML to markdown")
	}
	md = reDataURI.ReplaceAllString(md, "${1}...")

	return &body{
		Title: title,
		Sections: []section{
			{Kind: "html", Label: title, Markdown: md},
		},
	}, nil
}

// decodeHTML returns the document as UTF-8, guessing the charset when the
// bytes are not already valid UTF-8.
func decodeHTML(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	result, err := chardet.NewHtmlDetector().DetectBest(data)
	if err != nil || result == nil {
		return strings.ToValidUTF8(string(data), "")
	}

	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}

func htmlTitle(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}

	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				return strings.TrimSpace(n.FirstChild.Data)
			}
			return ""
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := walk(c); t != "" {
				return t
			}
		}
		return ""
	}

	return walk(doc)
}
