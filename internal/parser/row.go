package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ErrRowRejected is wrapped by every error ParseTransactionRow returns.
// Rejected rows are expected (sub-headers, footers, wrapped lines) and are
// dropped by the caller.
var ErrRowRejected = errors.New("row rejected")

// ParseTransactionRow turns one ledger row (header excluded) into a
// Transaction. The layout it expects is
//
//	date [| time] | merchant columns and junk columns... | amount
//
// with a variable number of middle columns.
func ParseTransactionRow(row models.RawRow) (models.Transaction, error) {
	if len(row) < 3 {
		return models.Transaction{}, fmt.Errorf("%w: %d cells, need at least 3", ErrRowRejected, len(row))
	}

	date := splitDateCell(row.Cell(0))
	if !txDatePattern.MatchString(date) {
		return models.Transaction{}, fmt.Errorf("%w: invalid date %q", ErrRowRejected, date)
	}

	last := row.Cell(len(row) - 1)
	amount, ok := NormalizeAmount(last)
	if !ok {
		return models.Transaction{}, fmt.Errorf("%w: invalid amount %q", ErrRowRejected, last)
	}

	merchant := merchantText(row[1 : len(row)-1])
	if merchant == "" {
		return models.Transaction{}, fmt.Errorf("%w: empty merchant", ErrRowRejected)
	}
	if strings.HasPrefix(strings.ToLower(merchant), "total") {
		return models.Transaction{}, fmt.Errorf("%w: summary row %q", ErrRowRejected, merchant)
	}

	return models.Transaction{
		Date:     date,
		Merchant: merchant,
		Amount:   amount,
	}, nil
}

// merchantText joins the middle cells that are not junk columns.
func merchantText(cells models.RawRow) string {
	parts := make([]string, 0, len(cells))
	for i := range cells {
		part := strings.TrimSpace(cells.Cell(i))
		if part == "" || isJunkCell(part) {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
