package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	service "github.com/okian/runstats/internal/app"
	"github.com/okian/runstats/internal/domain/cleaning"
	"github.com/okian/runstats/internal/domain/schema"
	"github.com/okian/runstats/pkg/logger"
	"github.com/okian/runstats/pkg/metrics"
)

// Upload error codes and messages.
const (
	codeMissingFile   = "missing_file"
	codeEmptyFilename = "empty_filename"
	codeTooLarge      = "too_large"

	msgMissingFile   = "No file part"
	msgEmptyFilename = "No selected file"

	uploadField = "file"
)

// ProcessHandler handles activity export uploads.
type ProcessHandler struct {
	deps           Dependencies
	maxUploadBytes int64
	logger         logger.Logger
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(deps Dependencies, maxUploadBytes int64, l logger.Logger) *ProcessHandler {
	return &ProcessHandler{deps: deps, maxUploadBytes: maxUploadBytes, logger: l}
}

// HandleProcess handles POST /process. The export is read from the
// multipart field "file" or, for text/csv requests, from the body.
func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	const op = "api.process"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	body, status, code, err := h.upload(r)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, status, code, err)
		return
	}
	defer body.Close()

	report, err := h.deps.ProcessCSV(r.Context(), body)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, WrapKind(op, ErrTooLarge, err))
			return
		}
		h.writeProcessError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// upload returns the export body, or the status, code and error to report.
func (h *ProcessHandler) upload(r *http.Request) (io.ReadCloser, int, string, error) {
	const op = "api.process.upload"
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, http.StatusBadRequest, codeMissingFile, WrapKind(op, ErrBadRequest, err)
		}
		file, hdr, err := r.FormFile(uploadField)
		if errors.Is(err, http.ErrMissingFile) {
			// A part with an empty filename is parsed as a plain value.
			if _, ok := r.MultipartForm.Value[uploadField]; ok {
				return nil, http.StatusBadRequest, codeEmptyFilename, WrapKind(op, ErrBadRequest, errors.New(msgEmptyFilename))
			}
			return nil, http.StatusBadRequest, codeMissingFile, WrapKind(op, ErrBadRequest, errors.New(msgMissingFile))
		}
		if err != nil {
			return nil, http.StatusBadRequest, codeMissingFile, WrapKind(op, ErrBadRequest, err)
		}
		if strings.TrimSpace(hdr.Filename) == "" {
			_ = file.Close()
			return nil, http.StatusBadRequest, codeEmptyFilename, WrapKind(op, ErrBadRequest, errors.New(msgEmptyFilename))
		}
		metrics.RecordUploadBytes(hdr.Size)
		return file, 0, "", nil

	case mediaType == "text/csv" || mediaType == "application/csv":
		if r.ContentLength > 0 {
			metrics.RecordUploadBytes(r.ContentLength)
		}
		return r.Body, 0, "", nil

	default:
		return nil, http.StatusBadRequest, codeMissingFile, WrapKind(op, ErrBadRequest, errors.New(msgMissingFile))
	}
}

func (h *ProcessHandler) writeProcessError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := service.ErrorCode(err)
	resp := errorResponse{Code: code, Message: err.Error()}

	var (
		missing *schema.MissingColumnsError
		conv    *cleaning.ConversionError
	)
	status := http.StatusInternalServerError
	switch code {
	case service.CodeBadCSV:
		status = http.StatusBadRequest
		resp.Message = WrapKind(op, ErrBadRequest, err).Error()
	case service.CodeSchemaError, service.CodeConversionError, service.CodeEmptyDataset, service.CodeNumericOverflow:
		status = http.StatusUnprocessableEntity
		resp.Message = WrapKind(op, ErrUnprocessable, err).Error()
		if errors.As(err, &missing) {
			resp.Missing = missing.Missing
		}
		if errors.As(err, &conv) {
			row := conv.Row
			resp.Column = conv.Column
			resp.Row = &row
		}
	case service.CodeCanceled:
		status = http.StatusServiceUnavailable
	default:
		resp.Message = WrapKind(op, ErrInternal, err).Error()
		h.logger.Error(r.Context(), "process failed", logger.Error(err))
	}

	writeJSON(w, status, resp)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
