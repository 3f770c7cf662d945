package extract

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/inbucket/html2text"
	"github.com/testhr/llamagate/internal/core"
)

// OCR recognizes text in a raster image.
type OCR interface {
	Text(image []byte) (string, error)
}

// Extractor turns uploaded attachments into prompt text, dispatching on
// the filename extension.
type Extractor struct {
	ocr OCR
}

func New() *Extractor {
	return &Extractor{ocr: tesseractOCR{}}
}

// NewWithOCR injects the OCR engine; used by tests to avoid a tesseract
// dependency.
func NewWithOCR(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		if !utf8.Valid(content) {
			return "", &core.ExtractionError{Filename: filename, Err: errNotUTF8}
		}
		return string(content), nil

	case ".html", ".htm":
		text, err := html2text.FromReader(bytes.NewReader(content), html2text.Options{})
		if err != nil {
			return "", &core.ExtractionError{Filename: filename, Err: err}
		}
		return text, nil

	case ".docx":
		text, err := docxText(content)
		if err != nil {
			return "", &core.ExtractionError{Filename: filename, Err: err}
		}
		return text, nil

	case ".pdf":
		text, err := pdfText(content)
		if err != nil {
			return "", &core.ExtractionError{Filename: filename, Err: err}
		}
		return text, nil

	case ".png", ".jpg", ".jpeg", ".bmp", ".tiff":
		text, err := e.ocr.Text(content)
		if err != nil {
			return "", &core.ExtractionError{Filename: filename, Err: err}
		}
		return text, nil

	default:
		return "", &core.UnsupportedInputError{Filename: filename}
	}
}
