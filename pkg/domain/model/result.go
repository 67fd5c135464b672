package model

import "io"

// Upload is one file received from a client. Open is called at most once,
// when the file is about to be staged.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// ConversionResult is the outcome of converting one item. Exactly one of
// Content and Error is set.
type ConversionResult struct {
	Filename string  `json:"filename"`
	Success  bool    `json:"success"`
	Format   string  `json:"format"`
	Content  *string `json:"content"`
	Error    *string `json:"error"`
}

// NewSucceededResult builds a successful ConversionResult
func NewSucceededResult(filename, format, content string) ConversionResult {
	return ConversionResult{
		Filename: filename,
		Success:  true,
		Format:   format,
		Content:  &content,
	}
}

// NewFailedResult builds a failed ConversionResult carrying err's message
func NewFailedResult(filename, format string, err error) ConversionResult {
	msg := err.Error()
	return ConversionResult{
		Filename: filename,
		Success:  false,
		Format:   format,
		Error:    &msg,
	}
}

// BatchSummary aggregates the results of a batch in submission order.
// Success reports that the batch operation completed, not that every item
// converted.
type BatchSummary struct {
	Success    bool               `json:"success"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []ConversionResult `json:"results"`
}

// NewBatchSummary counts results and builds the summary
func NewBatchSummary(results []ConversionResult) *BatchSummary {
	summary := &BatchSummary{
		Success: true,
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		}
	}
	summary.Failed = summary.Total - summary.Successful
	return summary
}

// ConvertResponse is the body of a successful single-document conversion
type ConvertResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Content  string `json:"content"`
}

// ConvertURLResponse is the body of a successful URL conversion
type ConvertURLResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Format  string `json:"format"`
	Content string `json:"content"`
}
