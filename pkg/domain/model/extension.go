package model

import (
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// AllowedExtensions is the fixed set of input file suffixes accepted for
// conversion. Order is kept for error messages.
var AllowedExtensions = []string{
	".pdf", ".docx", ".pptx", ".xlsx", ".html",
	".png", ".jpg", ".jpeg", ".tiff", ".wav", ".mp3",
}

// FileExtension returns the lowercase suffix of filename including the dot
func FileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ValidateFilename checks the suffix of filename against AllowedExtensions
// and returns the lowercase extension. Only the name is inspected; content
// is never sniffed here.
func ValidateFilename(filename string) (string, error) {
	ext := FileExtension(filename)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}

	return "", goerr.New("Unsupported file type: "+displayExt(ext)+". Supported types: "+strings.Join(AllowedExtensions, ", "),
		goerr.T(ErrTagValidation),
		goerr.V("filename", filename),
	)
}

func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}
