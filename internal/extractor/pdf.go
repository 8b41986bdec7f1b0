package extractor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ErrIncorrectPassword is returned by Loader.Open when the document is
// encrypted and the supplied password does not unlock it.
var ErrIncorrectPassword = errors.New("incorrect document password")

// Loader opens statement documents.
type Loader interface {
	Open(data []byte, password string) (Document, error)
}

// Document is an opened statement. Callers must Close it; Close may be
// called more than once.
type Document interface {
	NumPages() int
	// Page returns page n, counting from 1.
	Page(n int) (Page, error)
	Close() error
}

// Page exposes the two views of a page the parser needs.
type Page interface {
	// LayoutText returns the page text with horizontal spacing preserved.
	// Glyphs further apart than xTolerance points are separated by at
	// least one space.
	LayoutText(xTolerance float64) string
	// Tables infers tables from text alignment rather than ruling lines.
	Tables() []models.RawTable
}

// ReadPage takes both views of p in one go.
func ReadPage(p Page, xTolerance float64) models.RawPage {
	return models.RawPage{
		LayoutText: p.LayoutText(xTolerance),
		Tables:     p.Tables(),
	}
}

// PDFLoader opens PDFs with the ledongthuc/pdf reader.
type PDFLoader struct {
	Layout LayoutOptions
}

// NewPDFLoader returns a loader with default layout options.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{Layout: DefaultLayoutOptions()}
}

// Open parses data, decrypting it with password when the PDF is encrypted.
func (l *PDFLoader) Open(data []byte, password string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), passwordOnce(password))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %v", ErrIncorrectPassword, err)
		}
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	return &pdfDocument{reader: r, opts: l.Layout}, nil
}

// passwordOnce offers the password a single time. The reader keeps asking
// until it gets an empty string.
func passwordOnce(password string) func() string {
	offered := false
	return func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	}
}

type pdfDocument struct {
	reader *pdf.Reader
	opts   LayoutOptions
}

func (d *pdfDocument) NumPages() int {
	if d.reader == nil {
		return 0
	}
	return d.reader.NumPage()
}

func (d *pdfDocument) Page(n int) (p Page, err error) {
	if d.reader == nil {
		return nil, errors.New("document is closed")
	}
	if n < 1 || n > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range 1-%d", n, d.reader.NumPage())
	}

	// The reader panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d: PDF library crashed: %v", n, r)
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return newGlyphPage(nil, d.opts), nil
	}
	return newGlyphPage(page.Content().Text, d.opts), nil
}

// Close drops the reader. The document bytes are owned by the caller, so
// there is no file handle to release.
func (d *pdfDocument) Close() error {
	d.reader = nil
	return nil
}
