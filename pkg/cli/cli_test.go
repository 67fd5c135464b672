package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/doclingo/pkg/cli"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestConvertCommand(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	page := filepath.Join(dir, "page.html")
	gt.NoError(t, os.WriteFile(page, []byte("<html><body><h1>Hello</h1><p>world</p></body></html>"), 0600))
	notes := filepath.Join(dir, "notes.txt")
	gt.NoError(t, os.WriteFile(notes, []byte("plain"), 0600))

	var buf bytes.Buffer
	err := cli.Run(ctx, []string{
		"doclingo", "convert",
		"--converter", "native",
		"--staging-dir", dir,
		"--format", "markdown",
		page, notes,
	}, cli.WithWriter(&buf))
	gt.NoError(t, err)

	var summary model.BatchSummary
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	gt.True(t, summary.Success)
	gt.V(t, summary.Total).Equal(2)
	gt.V(t, summary.Successful).Equal(1)
	gt.V(t, summary.Failed).Equal(1)
	gt.V(t, summary.Results[0].Filename).Equal("page.html")
	gt.String(t, *summary.Results[0].Content).Contains("# Hello")
	gt.String(t, *summary.Results[1].Error).Contains("Unsupported file type: .txt")

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.A(t, entries).Length(2)
}

func TestConvertCommand_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Run(context.Background(), []string{"doclingo", "convert", "--converter", "native"}, cli.WithWriter(&buf))
	gt.Error(t, err)
	gt.V(t, buf.Len()).Equal(0)
}

func TestConvertCommand_UnknownBackend(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Run(context.Background(), []string{"doclingo", "convert", "--converter", "ocr", "a.pdf"}, cli.WithWriter(&buf))
	gt.Error(t, err)
}

func TestDeviceCommand(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Run(context.Background(), []string{"doclingo", "device"}, cli.WithWriter(&buf))
	gt.NoError(t, err)
	gt.String(t, buf.String()).Contains("CUDA")
}

func TestInvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"doclingo", "--log-level", "verbose", "device"}, cli.WithWriter(&bytes.Buffer{}))
	gt.Error(t, err)
}
