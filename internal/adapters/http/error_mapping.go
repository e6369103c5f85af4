package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const (
	msgNoText           = "Could not extract text from resume."
	msgUnsupported      = "Unsupported file type. Upload a PDF or DOCX resume."
	msgCorrupt          = "The document could not be read. Re-upload a valid PDF or DOCX file."
	msgTooLarge         = "The file is larger than the upload limit."
	msgInvalidInput     = "Upload a non-empty PDF or DOCX resume."
	msgMissingFile      = "Choose a PDF or DOCX file to classify."
	msgModelUnavailable = "The classification model is unavailable."
	msgInternal         = "Classification failed. Try again."
	msgRateLimited      = "Too many uploads. Wait a moment and try again."
	msgBusy             = "Another resume is being classified. Try again shortly."
)

func mapErrorToHTTPStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr), domain.IsKind(err, domain.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrCorruptDocument), domain.IsKind(err, domain.ErrNoTextFound):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr), domain.IsKind(err, domain.ErrUploadTooLarge):
		return msgTooLarge
	case domain.IsKind(err, domain.ErrNoTextFound):
		return msgNoText
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return msgUnsupported
	case domain.IsKind(err, domain.ErrCorruptDocument):
		return msgCorrupt
	case domain.IsKind(err, domain.ErrInvalidInput):
		return msgInvalidInput
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return msgModelUnavailable
	default:
		return msgInternal
	}
}
