// Package docxtext extracts paragraph text from Office Open XML documents.
package docxtext

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const documentPart = "word/document.xml"

var wordNamespaces = map[string]struct{}{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main": {},
	"http://purl.oclc.org/ooxml/wordprocessingml/main":             {},
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract joins the text of the body's top-level paragraphs with a single
// space. Tables and text boxes are not part of the paragraph stream.
func (e *Extractor) Extract(_ context.Context, doc *domain.Document) (string, error) {
	if doc == nil || len(doc.Content) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract docx", errors.New("empty document"))
	}

	reader, err := zip.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx", err)
	}

	paragraphs, err := readDocumentPart(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "read docx", err)
	}
	return strings.Join(paragraphs, " "), nil
}

func readDocumentPart(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}
		return paragraphs, nil
	}
	return nil, fmt.Errorf("missing %s", documentPart)
}

// paragraphParser follows the Word paragraph model: only runs that are
// direct children of a top-level paragraph, or of a hyperlink directly inside
// it, contribute text. Runs nested in insertions, content controls, smart tags
// or simple fields are skipped.
type paragraphParser struct {
	depth      int
	bodyDepth  int
	foundBody  bool
	paraDepth  int
	linkDepth  int
	runDepth   int
	textDepth  int
	current    strings.Builder
	paragraphs []string
}

func parseParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	p := &paragraphParser{bodyDepth: -1, paraDepth: -1, linkDepth: -1, runDepth: -1, textDepth: -1}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.start(t)
		case xml.EndElement:
			p.end(t.Name)
		case xml.CharData:
			if p.textDepth >= 0 {
				p.current.Write(t)
			}
		}
	}
	if !p.foundBody {
		return nil, errors.New("document body not found")
	}
	return p.paragraphs, nil
}

func (p *paragraphParser) start(el xml.StartElement) {
	p.depth++
	if !isWord(el.Name) {
		return
	}

	name := el.Name.Local
	switch {
	case name == "body" && p.bodyDepth < 0:
		p.bodyDepth = p.depth
		p.foundBody = true
	case name == "p" && p.paraDepth < 0:
		if p.bodyDepth >= 0 && p.depth == p.bodyDepth+1 {
			p.paraDepth = p.depth
			p.current.Reset()
		}
	case p.paraDepth < 0:
	case name == "hyperlink" && p.depth == p.paraDepth+1:
		p.linkDepth = p.depth
	case name == "r" && p.runDepth < 0 && p.isRunParent():
		p.runDepth = p.depth
	case p.runDepth < 0 || p.depth != p.runDepth+1:
	case name == "t":
		p.textDepth = p.depth
	case name == "tab" || name == "ptab":
		p.current.WriteByte('\t')
	case name == "cr":
		p.current.WriteByte('\n')
	case name == "br" && isTextWrappingBreak(el):
		p.current.WriteByte('\n')
	case name == "noBreakHyphen":
		p.current.WriteByte('-')
	}
}

func (p *paragraphParser) isRunParent() bool {
	return p.depth == p.paraDepth+1 || (p.linkDepth >= 0 && p.depth == p.linkDepth+1)
}

func (p *paragraphParser) end(name xml.Name) {
	defer func() { p.depth-- }()
	if !isWord(name) {
		return
	}

	switch p.depth {
	case p.textDepth:
		p.textDepth = -1
	case p.runDepth:
		p.runDepth = -1
	case p.linkDepth:
		p.linkDepth = -1
	case p.paraDepth:
		if name.Local == "p" {
			p.paragraphs = append(p.paragraphs, p.current.String())
			p.paraDepth = -1
		}
	}
}

// isTextWrappingBreak reports whether a w:br is a line break. Page and
// column breaks carry no text.
func isTextWrappingBreak(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" {
			return attr.Value == "" || attr.Value == "textWrapping"
		}
	}
	return true
}

func isWord(name xml.Name) bool {
	_, ok := wordNamespaces[name.Space]
	return ok
}
