package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// CSVWriter writes statement transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the statement to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *models.StatementResult) error {
	return writeFile(path, func(out io.Writer) error { return w.Write(out, result) })
}

// Write writes the statement in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *models.StatementResult) error {
	writer := csv.NewWriter(out)

	// Metadata goes first as "# key,value" rows
	if w.IncludeHeader {
		for _, kv := range metadataRows(result) {
			if err := writer.Write(kv); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := writer.Write([]string{"Date", "Merchant", "Amount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{txn.Date, txn.Merchant, txn.Amount.StringFixed(2)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func metadataRows(result *models.StatementResult) [][]string {
	var rows [][]string
	if result.CardName != nil {
		rows = append(rows, []string{"# Card Name", *result.CardName})
	}
	if result.CardLast4Digits != nil {
		rows = append(rows, []string{"# Card Last 4 Digits", *result.CardLast4Digits})
	}
	if result.NameOnCard != nil {
		rows = append(rows, []string{"# Name On Card", *result.NameOnCard})
	}
	if result.CreditLimit != nil {
		rows = append(rows, []string{"# Credit Limit", result.CreditLimit.StringFixed(2)})
	}
	debits, credits := result.Totals()
	rows = append(rows,
		[]string{"# Transactions", strconv.Itoa(len(result.Transactions))},
		[]string{"# Total Debits", debits.StringFixed(2)},
		[]string{"# Total Credits", credits.StringFixed(2)},
	)
	return rows
}

// writeFile creates path and hands it to write, reporting close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %q: %w", path, cerr)
		}
	}()
	return write(f)
}
