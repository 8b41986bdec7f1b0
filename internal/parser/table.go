package parser

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// ledgerHeaderWords must all appear somewhere in a ledger's header row.
var ledgerHeaderWords = []string{"date", "transaction", "amount"}

// IsTransactionTable reports whether header (a table's first row) names a
// transaction ledger. Word order and extra header text do not matter.
func IsTransactionTable(header models.RawRow) bool {
	if len(header) == 0 {
		return false
	}
	// cases.Caser is stateful, so each call gets its own.
	text := cases.Fold().String(header.Join(" "))
	for _, word := range ledgerHeaderWords {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}
