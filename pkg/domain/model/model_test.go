package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantExt  string
		wantErr  bool
	}{
		{name: "pdf", filename: "report.pdf", wantExt: ".pdf"},
		{name: "upper case", filename: "SCAN.JPEG", wantExt: ".jpeg"},
		{name: "mixed case", filename: "Deck.PpTx", wantExt: ".pptx"},
		{name: "audio", filename: "memo.mp3", wantExt: ".mp3"},
		{name: "multiple dots", filename: "archive.tar.pdf", wantExt: ".pdf"},
		{name: "text", filename: "notes.txt", wantErr: true},
		{name: "no extension", filename: "README", wantErr: true},
		{name: "htm is not html", filename: "page.htm", wantErr: true},
		{name: "extension only in dir", filename: "dir.pdf/file", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := model.ValidateFilename(tt.filename)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, model.IsValidationError(err))
				return
			}
			gt.NoError(t, err)
			gt.V(t, ext).Equal(tt.wantExt)
		})
	}

	t.Run("message names extension and allowed set", func(t *testing.T) {
		_, err := model.ValidateFilename("notes.TXT")
		gt.Error(t, err)
		gt.V(t, err.Error()).Equal("Unsupported file type: .txt. Supported types: .pdf, .docx, .pptx, .xlsx, .html, .png, .jpg, .jpeg, .tiff, .wav, .mp3")
	})

	t.Run("message for missing extension", func(t *testing.T) {
		_, err := model.ValidateFilename("README")
		gt.String(t, err.Error()).Contains("Unsupported file type: (none)")
	})
}

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    model.OutputFormat
		wantErr bool
	}{
		"empty selects markdown": {input: "", want: model.FormatMarkdown},
		"markdown":               {input: "markdown", want: model.FormatMarkdown},
		"html":                   {input: "html", want: model.FormatHTML},
		"json":                   {input: "json", want: model.FormatJSON},
		"unknown":                {input: "pdf", wantErr: true},
		"case sensitive":         {input: "HTML", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := model.ParseOutputFormat(tc.input)
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, model.IsValidationError(err))
				gt.String(t, err.Error()).Contains("Supported formats: markdown, html, json")
				return
			}
			gt.NoError(t, err)
			gt.V(t, got).Equal(tc.want)
		})
	}
}

func TestDocument_Export(t *testing.T) {
	doc := &model.Document{
		Name:     "report.pdf",
		Markdown: "# Title",
		HTML:     "<h1>Title</h1>",
		JSON:     json.RawMessage(`{"name":"report","texts":[{"text":"Title"}]}`),
	}

	t.Run("markdown", func(t *testing.T) {
		got, err := doc.Export(model.FormatMarkdown)
		gt.NoError(t, err)
		gt.V(t, got).Equal("# Title")
	})

	t.Run("html", func(t *testing.T) {
		got, err := doc.Export(model.FormatHTML)
		gt.NoError(t, err)
		gt.V(t, got).Equal("<h1>Title</h1>")
	})

	t.Run("json is indented with stable order", func(t *testing.T) {
		got, err := doc.Export(model.FormatJSON)
		gt.NoError(t, err)
		gt.V(t, got).Equal("{\n  \"name\": \"report\",\n  \"texts\": [\n    {\n      \"text\": \"Title\"\n    }\n  ]\n}")
	})

	t.Run("missing json", func(t *testing.T) {
		_, err := (&model.Document{Markdown: "x"}).Export(model.FormatJSON)
		gt.Error(t, err)
		gt.False(t, model.IsValidationError(err))
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := (&model.Document{JSON: json.RawMessage(`{"a":`)}).Export(model.FormatJSON)
		gt.Error(t, err)
		gt.False(t, model.IsValidationError(err))
	})

	t.Run("unknown format is not defaulted", func(t *testing.T) {
		_, err := doc.Export(model.OutputFormat("docx"))
		gt.Error(t, err)
		gt.True(t, model.IsValidationError(err))
	})
}

func TestNewBatchSummary(t *testing.T) {
	results := []model.ConversionResult{
		model.NewSucceededResult("a.pdf", "markdown", "# A"),
		model.NewFailedResult("b.txt", "markdown", errors.New("Unsupported file type: .txt")),
		model.NewSucceededResult("c.pdf", "markdown", ""),
		model.NewFailedResult("d.pdf", "markdown", errors.New("boom")),
	}

	summary := model.NewBatchSummary(results)
	gt.True(t, summary.Success)
	gt.V(t, summary.Total).Equal(4)
	gt.V(t, summary.Successful).Equal(2)
	gt.V(t, summary.Failed).Equal(2)
	gt.V(t, summary.Successful+summary.Failed).Equal(summary.Total)

	t.Run("all failed still reports completion", func(t *testing.T) {
		s := model.NewBatchSummary([]model.ConversionResult{
			model.NewFailedResult("x.pdf", "json", errors.New("boom")),
		})
		gt.True(t, s.Success)
		gt.V(t, s.Successful).Equal(0)
		gt.V(t, s.Failed).Equal(1)
	})

	t.Run("exactly one of content and error is set", func(t *testing.T) {
		raw, err := json.Marshal(results[1])
		gt.NoError(t, err)
		gt.V(t, string(raw)).Equal(`{"filename":"b.txt","success":false,"format":"markdown","content":null,"error":"Unsupported file type: .txt"}`)

		raw, err = json.Marshal(results[2])
		gt.NoError(t, err)
		gt.V(t, string(raw)).Equal(`{"filename":"c.pdf","success":true,"format":"markdown","content":"","error":null}`)
	})
}

func TestNewHealthStatus(t *testing.T) {
	t.Run("cpu", func(t *testing.T) {
		status := model.NewHealthStatus(model.CPUDevice())
		gt.V(t, status.Status).Equal("healthy")
		gt.V(t, status.Device).Equal("cpu")
		gt.False(t, status.CUDAAvailable)
		gt.V(t, status.GPUName).Equal("")
		gt.V(t, status.GPUCount).Equal(0)
	})

	t.Run("zero value device", func(t *testing.T) {
		status := model.NewHealthStatus(model.DeviceInfo{})
		gt.V(t, status.Device).Equal("cpu")
	})

	t.Run("cuda", func(t *testing.T) {
		status := model.NewHealthStatus(model.DeviceInfo{
			Device:        model.DeviceCUDA,
			CUDAAvailable: true,
			GPUNames:      []string{"Tesla T4"},
			CUDAVersion:   "12.2",
		})
		gt.V(t, status.Device).Equal("cuda")
		gt.V(t, status.GPUName).Equal("Tesla T4")
		gt.V(t, status.GPUCount).Equal(1)
		gt.V(t, status.CUDAVersion).Equal("12.2")
	})
}

func TestIsValidationError(t *testing.T) {
	base := goerr.New("bad input", goerr.T(model.ErrTagValidation))

	gt.True(t, model.IsValidationError(base))
	gt.True(t, model.IsValidationError(goerr.Wrap(base, "outer")))
	gt.False(t, model.IsValidationError(errors.New("plain")))
	gt.False(t, model.IsValidationError(goerr.New("conversion", goerr.T(model.ErrTagConversion))))
	gt.False(t, model.IsValidationError(nil))
}
