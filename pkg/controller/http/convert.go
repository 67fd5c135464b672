package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	fieldFile         = "file"
	fieldFiles        = "files"
	fieldOutputFormat = "output_format"
	fieldURL          = "url"

	// multipart parts beyond this size are spooled to disk by net/http
	multipartMemory = 32 << 20
)

// ConvertHandler serves the conversion endpoints
type ConvertHandler struct {
	convertUC     interfaces.ConvertUseCase
	maxUploadSize int64
}

// NewConvertHandler creates a new ConvertHandler
func NewConvertHandler(convertUC interfaces.ConvertUseCase, maxUploadSize int64) *ConvertHandler {
	return &ConvertHandler{
		convertUC:     convertUC,
		maxUploadSize: maxUploadSize,
	}
}

// ConvertFile handles POST /convert
func (h *ConvertHandler) ConvertFile(w http.ResponseWriter, r *http.Request) {
	if err := h.parseMultipart(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	headers := r.MultipartForm.File[fieldFile]
	if len(headers) == 0 {
		writeError(w, r, goerr.New("No file provided", goerr.T(model.ErrTagValidation)))
		return
	}

	resp, err := h.convertUC.ConvertFile(r.Context(), toUpload(headers[0]), r.FormValue(fieldOutputFormat))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// ConvertBatch handles POST /convert-batch. Per-file failures are part of
// the 200 response.
func (h *ConvertHandler) ConvertBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.parseMultipart(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	headers := r.MultipartForm.File[fieldFiles]
	uploads := make([]*model.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, toUpload(fh))
	}

	summary, err := h.convertUC.ConvertBatch(r.Context(), uploads, r.FormValue(fieldOutputFormat))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summary)
}

type convertURLRequest struct {
	URL          string `json:"url"`
	OutputFormat string `json:"output_format"`
}

// ConvertURL handles POST /convert-url. Parameters come from a JSON body,
// a urlencoded form or the query string.
func (h *ConvertHandler) ConvertURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req convertURLRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, classifyBodyError(err, "Invalid JSON body"))
			return
		}
	}
	if req.URL == "" {
		req.URL = r.FormValue(fieldURL)
	}
	if req.OutputFormat == "" {
		req.OutputFormat = r.FormValue(fieldOutputFormat)
	}

	resp, err := h.convertUC.ConvertURL(r.Context(), req.URL, req.OutputFormat)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *ConvertHandler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > h.maxUploadSize {
		return goerr.New("request body too large",
			goerr.T(model.ErrTagValidation),
			goerr.V("length", r.ContentLength),
			goerr.V("limit", h.maxUploadSize),
		)
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return classifyBodyError(err, "Invalid multipart form")
	}
	return nil
}

func classifyBodyError(err error, msg string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return goerr.Wrap(err, "request body too large",
			goerr.T(model.ErrTagValidation),
			goerr.V("limit", maxErr.Limit),
		)
	}
	return goerr.Wrap(err, msg, goerr.T(model.ErrTagValidation))
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm == nil {
		return
	}
	if err := r.MultipartForm.RemoveAll(); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to remove multipart temp files", "error", err)
	}
}

func toUpload(fh *multipart.FileHeader) *model.Upload {
	return &model.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
