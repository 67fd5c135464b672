package usecase

import (
	"context"
	"net/url"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/doclingo/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type convertUseCase struct {
	converter interfaces.Converter
	stager    interfaces.Stager
}

var _ interfaces.ConvertUseCase = (*convertUseCase)(nil)

// NewConvert creates a ConvertUseCase running uploads through stager and converter
func NewConvert(converter interfaces.Converter, stager interfaces.Stager) *convertUseCase {
	return &convertUseCase{
		converter: converter,
		stager:    stager,
	}
}

// ConvertFile validates, stages, converts and exports a single upload
func (uc *convertUseCase) ConvertFile(ctx context.Context, upload *model.Upload, format string) (*model.ConvertResponse, error) {
	outputFormat, err := model.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}

	content, err := uc.convertUpload(ctx, upload, outputFormat)
	if err != nil {
		return nil, err
	}

	return &model.ConvertResponse{
		Success:  true,
		Filename: upload.Filename,
		Format:   outputFormat.String(),
		Content:  content,
	}, nil
}

// ConvertURL converts a remote document. Nothing is staged; the converter
// fetches the URL itself.
func (uc *convertUseCase) ConvertURL(ctx context.Context, rawURL, format string) (*model.ConvertURLResponse, error) {
	outputFormat, err := model.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	logger := ctxlog.From(ctx)
	logger.Info("Converting URL",
		"url", rawURL,
		"format", outputFormat,
		"converter", uc.converter.Name(),
	)

	doc, err := uc.converter.Convert(ctx, model.Source{URL: rawURL})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert URL", goerr.V("url", rawURL))
	}

	content, err := doc.Export(outputFormat)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to export document", goerr.V("url", rawURL))
	}

	return &model.ConvertURLResponse{
		Success: true,
		URL:     rawURL,
		Format:  outputFormat.String(),
		Content: content,
	}, nil
}

// ConvertBatch converts uploads one at a time in submission order. A failure
// of one upload, including a panic, becomes that upload's result and never
// stops the rest of the batch.
func (uc *convertUseCase) ConvertBatch(ctx context.Context, uploads []*model.Upload, format string) (*model.BatchSummary, error) {
	if len(uploads) == 0 {
		return nil, goerr.New("No files provided", goerr.T(model.ErrTagValidation))
	}

	logger := ctxlog.From(ctx)
	results := make([]model.ConversionResult, 0, len(uploads))

	label := format
	if f, err := model.ParseOutputFormat(format); err == nil {
		label = f.String()
	}

	for i, upload := range uploads {
		var content string
		err := safe.Run(ctx, func(ctx context.Context) error {
			outputFormat, err := model.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			content, err = uc.convertUpload(ctx, upload, outputFormat)
			return err
		})

		if err != nil {
			logFailure(ctx, "Batch item failed", err,
				"index", i,
				"filename", upload.Filename,
			)
			results = append(results, model.NewFailedResult(upload.Filename, label, err))
			continue
		}

		results = append(results, model.NewSucceededResult(upload.Filename, label, content))
	}

	summary := model.NewBatchSummary(results)
	logger.Info("Batch conversion finished",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
	)

	return summary, nil
}

// convertUpload runs one upload through validate, stage, convert and export.
// The staged file is removed before it returns.
func (uc *convertUseCase) convertUpload(ctx context.Context, upload *model.Upload, format model.OutputFormat) (string, error) {
	ext, err := model.ValidateFilename(upload.Filename)
	if err != nil {
		return "", err
	}

	logger := ctxlog.From(ctx)
	logger.Info("Converting file",
		"filename", upload.Filename,
		"size", upload.Size,
		"format", format,
		"converter", uc.converter.Name(),
	)

	r, err := upload.Open()
	if err != nil {
		return "", goerr.Wrap(err, "failed to open upload", goerr.V("filename", upload.Filename))
	}
	defer r.Close()

	var content string
	err = uc.stager.With(ctx, ext, r, func(ctx context.Context, path string) error {
		doc, err := uc.converter.Convert(ctx, model.Source{Path: path})
		if err != nil {
			return goerr.Wrap(err, "failed to convert file", goerr.V("filename", upload.Filename))
		}

		content, err = doc.Export(format)
		if err != nil {
			return goerr.Wrap(err, "failed to export document", goerr.V("filename", upload.Filename))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return goerr.New("URL is required", goerr.T(model.ErrTagValidation))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return goerr.Wrap(err, "Invalid URL: "+rawURL, goerr.T(model.ErrTagValidation))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.New("Invalid URL: "+rawURL+". Only http and https URLs are supported",
			goerr.T(model.ErrTagValidation),
			goerr.V("url", rawURL),
		)
	}

	return nil
}

// logFailure logs validation errors as expected client mistakes and
// everything else as a fault with the full error value.
func logFailure(ctx context.Context, msg string, err error, args ...any) {
	logger := ctxlog.From(ctx)
	if model.IsValidationError(err) {
		logger.Info(msg, append(args, "error", err.Error())...)
		return
	}
	logger.Error(msg, append(args, "error", err)...)
}
