// Package pdftext extracts the text layer of PDF documents.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// pageSource is the slice of a parsed PDF the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

type Extractor struct {
	open func(content []byte) (pageSource, error)
}

func NewExtractor() *Extractor {
	return &Extractor{open: openReader}
}

// Extract concatenates the text of every page in order with no separator.
// Pages without a text layer contribute nothing.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil || len(doc.Content) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf", errors.New("empty document"))
	}

	src, err := e.open(doc.Content)
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open pdf", err)
	}
	return concatPages(ctx, src, doc.Filename)
}

func concatPages(ctx context.Context, src pageSource, filename string) (string, error) {
	var text strings.Builder
	for num := 1; num <= src.NumPage(); num++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := src.PageText(num)
		if err != nil {
			slog.Debug("pdf_page_skipped", "filename", filename, "page", num, "error", err)
			continue
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

type readerSource struct {
	reader   *pdf.Reader
	numPages int
}

// openReader converts parser panics on malformed input into errors.
func openReader(content []byte) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	return &readerSource{reader: reader, numPages: reader.NumPage()}, nil
}

func (s *readerSource) NumPage() int {
	return s.numPages
}

func (s *readerSource) PageText(num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := s.reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
