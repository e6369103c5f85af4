package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorruptDocument   = errors.New("corrupt document")
	ErrNoTextFound       = errors.New("no text found")
	ErrModelUnavailable  = errors.New("model unavailable")

	// ErrUploadTooLarge is always wrapped together with ErrInvalidInput.
	ErrUploadTooLarge = errors.New("upload too large")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// Reason returns a stable reason code for logs and metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsKind(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case IsKind(err, ErrCorruptDocument):
		return "corrupt_document"
	case IsKind(err, ErrNoTextFound):
		return "no_text_found"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	case IsKind(err, ErrModelUnavailable):
		return "model_unavailable"
	default:
		return "error"
	}
}
