package usecase_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/doclingo/pkg/domain/mock"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/doclingo/pkg/infra/staging"
	"github.com/m-mizutani/doclingo/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newUpload(name, body string) *model.Upload {
	return &model.Upload{
		Filename: name,
		Size:     int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// echoConverter returns a document built from the staged file content
func echoConverter() *mock.ConverterMock {
	return &mock.ConverterMock{
		NameFunc: func() string { return "echo" },
		ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
			data, err := os.ReadFile(src.Path)
			if err != nil {
				return nil, err
			}
			return &model.Document{
				Name:     src.Path,
				Markdown: "# " + string(data),
				HTML:     "<h1>" + string(data) + "</h1>",
				JSON:     []byte(`{"text":"` + string(data) + `"}`),
			}, nil
		},
	}
}

func stagedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	return entries
}

func TestConvertFile(t *testing.T) {
	ctx := context.Background()

	t.Run("converts each output format", func(t *testing.T) {
		testCases := map[string]struct {
			format string
			want   string
			label  string
		}{
			"default":  {format: "", want: "# hello", label: "markdown"},
			"markdown": {format: "markdown", want: "# hello", label: "markdown"},
			"html":     {format: "html", want: "<h1>hello</h1>", label: "html"},
			"json":     {format: "json", want: "{\n  \"text\": \"hello\"\n}", label: "json"},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				dir := t.TempDir()
				uc := usecase.NewConvert(echoConverter(), staging.New(dir))

				resp, err := uc.ConvertFile(ctx, newUpload("report.PDF", "hello"), tc.format)
				gt.NoError(t, err)
				gt.True(t, resp.Success)
				gt.V(t, resp.Filename).Equal("report.PDF")
				gt.V(t, resp.Format).Equal(tc.label)
				gt.V(t, resp.Content).Equal(tc.want)
				gt.A(t, stagedFiles(t, dir)).Length(0)
			})
		}
	})

	t.Run("staged file keeps the extension and is removed", func(t *testing.T) {
		dir := t.TempDir()
		var stagedPath string
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				stagedPath = src.Path
				_, err := os.Stat(src.Path)
				gt.NoError(t, err)
				return &model.Document{Markdown: "ok"}, nil
			},
		}

		uc := usecase.NewConvert(conv, staging.New(dir))
		_, err := uc.ConvertFile(ctx, newUpload("deck.pptx", "data"), "markdown")
		gt.NoError(t, err)
		gt.True(t, strings.HasSuffix(stagedPath, ".pptx"))

		_, err = os.Stat(stagedPath)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("unsupported extension is rejected before staging", func(t *testing.T) {
		stager := &mock.StagerMock{}
		conv := &mock.ConverterMock{NameFunc: func() string { return "mock" }}

		uc := usecase.NewConvert(conv, stager)
		_, err := uc.ConvertFile(ctx, newUpload("notes.txt", "data"), "markdown")
		gt.Error(t, err)
		gt.True(t, model.IsValidationError(err))
		gt.String(t, err.Error()).Contains(".txt")
		gt.String(t, err.Error()).Contains(".pdf, .docx, .pptx")
		gt.A(t, stager.WithCalls()).Length(0)
		gt.A(t, conv.ConvertCalls()).Length(0)
	})

	t.Run("unsupported output format is rejected before staging", func(t *testing.T) {
		stager := &mock.StagerMock{}
		conv := &mock.ConverterMock{NameFunc: func() string { return "mock" }}

		uc := usecase.NewConvert(conv, stager)
		_, err := uc.ConvertFile(ctx, newUpload("report.pdf", "data"), "docx")
		gt.Error(t, err)
		gt.True(t, model.IsValidationError(err))
		gt.String(t, err.Error()).Contains("Unsupported output format: docx")
		gt.A(t, stager.WithCalls()).Length(0)
	})

	t.Run("conversion failure is a server error and cleans up", func(t *testing.T) {
		dir := t.TempDir()
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				return nil, errors.New("corrupted document")
			},
		}

		uc := usecase.NewConvert(conv, staging.New(dir))
		_, err := uc.ConvertFile(ctx, newUpload("report.pdf", "data"), "markdown")
		gt.Error(t, err)
		gt.False(t, model.IsValidationError(err))
		gt.String(t, err.Error()).Contains("corrupted document")
		gt.A(t, stagedFiles(t, dir)).Length(0)
	})

	t.Run("export failure cleans up", func(t *testing.T) {
		dir := t.TempDir()
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				return &model.Document{Markdown: "ok"}, nil
			},
		}

		uc := usecase.NewConvert(conv, staging.New(dir))
		_, err := uc.ConvertFile(ctx, newUpload("report.pdf", "data"), "json")
		gt.Error(t, err)
		gt.False(t, model.IsValidationError(err))
		gt.A(t, stagedFiles(t, dir)).Length(0)
	})

	t.Run("open failure", func(t *testing.T) {
		upload := &model.Upload{
			Filename: "report.pdf",
			Open: func() (io.ReadCloser, error) {
				return nil, errors.New("gone")
			},
		}
		uc := usecase.NewConvert(echoConverter(), staging.New(t.TempDir()))
		_, err := uc.ConvertFile(ctx, upload, "markdown")
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("gone")
	})
}

func TestConvertURL(t *testing.T) {
	ctx := context.Background()

	t.Run("converts without staging", func(t *testing.T) {
		stager := &mock.StagerMock{}
		var got model.Source
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				got = src
				return &model.Document{HTML: "<p>remote</p>"}, nil
			},
		}

		uc := usecase.NewConvert(conv, stager)
		resp, err := uc.ConvertURL(ctx, "https://example.com/doc.pdf", "html")
		gt.NoError(t, err)
		gt.True(t, resp.Success)
		gt.V(t, resp.URL).Equal("https://example.com/doc.pdf")
		gt.V(t, resp.Format).Equal("html")
		gt.V(t, resp.Content).Equal("<p>remote</p>")
		gt.V(t, got.URL).Equal("https://example.com/doc.pdf")
		gt.V(t, got.Path).Equal("")
		gt.A(t, stager.WithCalls()).Length(0)
	})

	t.Run("invalid input", func(t *testing.T) {
		testCases := map[string]struct {
			url    string
			format string
		}{
			"empty url":    {url: "", format: "markdown"},
			"no scheme":    {url: "example.com/doc.pdf", format: "markdown"},
			"file scheme":  {url: "file:///etc/passwd", format: "markdown"},
			"bad format":   {url: "https://example.com/doc.pdf", format: "text"},
			"missing host": {url: "https:///doc.pdf", format: "markdown"},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				conv := &mock.ConverterMock{NameFunc: func() string { return "mock" }}
				uc := usecase.NewConvert(conv, &mock.StagerMock{})
				_, err := uc.ConvertURL(ctx, tc.url, tc.format)
				gt.Error(t, err)
				gt.True(t, model.IsValidationError(err))
				gt.A(t, conv.ConvertCalls()).Length(0)
			})
		}
	})

	t.Run("conversion failure", func(t *testing.T) {
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				return nil, errors.New("fetch failed")
			},
		}
		uc := usecase.NewConvert(conv, &mock.StagerMock{})
		_, err := uc.ConvertURL(ctx, "https://example.com/doc.pdf", "markdown")
		gt.Error(t, err)
		gt.False(t, model.IsValidationError(err))
		gt.String(t, err.Error()).Contains("fetch failed")
	})
}

func TestConvertBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed outcomes keep order and counts", func(t *testing.T) {
		dir := t.TempDir()
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				data, err := os.ReadFile(src.Path)
				gt.NoError(t, err)
				switch string(data) {
				case "fail":
					return nil, errors.New("converter exploded")
				case "panic":
					panic("converter panicked")
				}
				return &model.Document{Markdown: string(data)}, nil
			},
		}

		uploads := []*model.Upload{
			newUpload("a.pdf", "first"),
			newUpload("b.txt", "ignored"),
			newUpload("c.docx", "fail"),
			newUpload("d.html", "panic"),
			newUpload("e.xlsx", "last"),
		}

		uc := usecase.NewConvert(conv, staging.New(dir))
		summary, err := uc.ConvertBatch(ctx, uploads, "markdown")
		gt.NoError(t, err)

		gt.True(t, summary.Success)
		gt.V(t, summary.Total).Equal(5)
		gt.V(t, summary.Successful).Equal(2)
		gt.V(t, summary.Failed).Equal(3)
		gt.A(t, summary.Results).Length(5)

		for i, r := range summary.Results {
			gt.V(t, r.Filename).Equal(uploads[i].Filename)
			gt.V(t, r.Format).Equal("markdown")
		}

		gt.True(t, summary.Results[0].Success)
		gt.V(t, *summary.Results[0].Content).Equal("first")
		gt.V(t, summary.Results[0].Error).Equal((*string)(nil))

		gt.False(t, summary.Results[1].Success)
		gt.String(t, *summary.Results[1].Error).Contains("Unsupported file type: .txt")
		gt.V(t, summary.Results[1].Content).Equal((*string)(nil))

		gt.False(t, summary.Results[2].Success)
		gt.String(t, *summary.Results[2].Error).Contains("converter exploded")

		gt.False(t, summary.Results[3].Success)
		gt.String(t, *summary.Results[3].Error).Contains("converter panicked")

		gt.True(t, summary.Results[4].Success)
		gt.V(t, *summary.Results[4].Content).Equal("last")

		// a.pdf, c.docx, d.html and e.xlsx were staged; b.txt was not
		gt.A(t, conv.ConvertCalls()).Length(4)
		gt.A(t, stagedFiles(t, dir)).Length(0)
	})

	t.Run("bad output format fails every item without aborting", func(t *testing.T) {
		conv := &mock.ConverterMock{NameFunc: func() string { return "mock" }}
		uc := usecase.NewConvert(conv, &mock.StagerMock{})

		summary, err := uc.ConvertBatch(ctx, []*model.Upload{
			newUpload("a.pdf", "x"),
			newUpload("b.pdf", "y"),
		}, "yaml")
		gt.NoError(t, err)
		gt.True(t, summary.Success)
		gt.V(t, summary.Total).Equal(2)
		gt.V(t, summary.Failed).Equal(2)
		for _, r := range summary.Results {
			gt.V(t, r.Format).Equal("yaml")
			gt.String(t, *r.Error).Contains("Unsupported output format: yaml")
		}
	})

	t.Run("empty batch is a validation error", func(t *testing.T) {
		conv := &mock.ConverterMock{NameFunc: func() string { return "mock" }}
		uc := usecase.NewConvert(conv, &mock.StagerMock{})

		summary, err := uc.ConvertBatch(ctx, nil, "markdown")
		gt.Error(t, err)
		gt.True(t, model.IsValidationError(err))
		gt.V(t, summary).Equal((*model.BatchSummary)(nil))
	})

	t.Run("processes items sequentially", func(t *testing.T) {
		active := 0
		conv := &mock.ConverterMock{
			NameFunc: func() string { return "mock" },
			ConvertFunc: func(ctx context.Context, src model.Source) (*model.Document, error) {
				active++
				defer func() { active-- }()
				gt.V(t, active).Equal(1)
				return &model.Document{Markdown: "ok"}, nil
			},
		}
		uc := usecase.NewConvert(conv, staging.New(t.TempDir()))

		uploads := make([]*model.Upload, 10)
		for i := range uploads {
			uploads[i] = newUpload("doc.pdf", "x")
		}
		summary, err := uc.ConvertBatch(ctx, uploads, "")
		gt.NoError(t, err)
		gt.V(t, summary.Successful).Equal(10)
		gt.V(t, summary.Results[0].Format).Equal("markdown")
	})
}
