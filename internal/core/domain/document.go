package domain

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var mediaTypeByExtension = map[string]MediaType{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
}

// Short returns the label used in logs, metrics and the UI.
func (m MediaType) Short() string {
	switch m {
	case MediaTypePDF:
		return "pdf"
	case MediaTypeDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// DetectMediaType resolves the declared content type first and falls back to
// the filename extension, since browsers often send application/octet-stream.
func DetectMediaType(declared, filename string) (MediaType, error) {
	if parsed, _, err := mime.ParseMediaType(strings.TrimSpace(declared)); err == nil {
		switch MediaType(strings.ToLower(parsed)) {
		case MediaTypePDF:
			return MediaTypePDF, nil
		case MediaTypeDOCX:
			return MediaTypeDOCX, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if mediaType, ok := mediaTypeByExtension[ext]; ok {
		return mediaType, nil
	}

	return "", WrapError(
		ErrUnsupportedFormat,
		"detect media type",
		fmt.Errorf("content type %q, filename %q", declared, filename),
	)
}

// Document is an uploaded file held in memory for a single classification.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MediaType MediaType `json:"media_type"`
	Content   []byte    `json:"-"`
}

func (d *Document) Validate() error {
	if d == nil {
		return WrapError(ErrInvalidInput, "validate document", errors.New("document is nil"))
	}
	if len(d.Content) == 0 {
		return WrapError(ErrInvalidInput, "validate document", errors.New("empty upload"))
	}
	return nil
}
