package interfaces

import (
	"context"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

// ConvertUseCase defines document conversion operations
type ConvertUseCase interface {
	// ConvertFile validates, stages, converts and exports one upload
	ConvertFile(ctx context.Context, upload *model.Upload, format string) (*model.ConvertResponse, error)

	// ConvertURL converts a remote document without staging it
	ConvertURL(ctx context.Context, url string, format string) (*model.ConvertURLResponse, error)

	// ConvertBatch converts uploads one at a time, recording each failure
	// in its own result
	ConvertBatch(ctx context.Context, uploads []*model.Upload, format string) (*model.BatchSummary, error)
}
