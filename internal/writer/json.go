package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// JSONWriter writes the statement in the same schema the HTTP API returns.
type JSONWriter struct {
	Indent bool
}

// WriteToFile writes the statement to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, result *models.StatementResult) error {
	return writeFile(path, func(out io.Writer) error { return w.Write(out, result) })
}

// Write encodes result to out.
func (w *JSONWriter) Write(out io.Writer, result *models.StatementResult) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	return nil
}
