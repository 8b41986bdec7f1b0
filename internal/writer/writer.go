// Package writer renders parsed statements to files.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Writer renders a statement to a stream or a file.
type Writer interface {
	Write(out io.Writer, result *models.StatementResult) error
	WriteToFile(path string, result *models.StatementResult) error
	// Ext is the file extension, dot included, for outputs of this writer.
	Ext() string
}

func (w *CSVWriter) Ext() string  { return ".csv" }
func (w *JSONWriter) Ext() string { return ".json" }

// New returns the writer for format ("csv" or "json").
func New(format string, includeHeader bool) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return &CSVWriter{IncludeHeader: includeHeader}, nil
	case "json":
		return &JSONWriter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q, use csv or json", format)
	}
}
