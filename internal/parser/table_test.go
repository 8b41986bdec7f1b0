package parser

import (
	"testing"

	"github.com/insightdelivered/statement-parser/internal/models"
)

func TestIsTransactionTable(t *testing.T) {
	tests := []struct {
		name     string
		header   models.RawRow
		expected bool
	}{
		{"standard header", models.Row("Date", "Transaction Details", "Amount"), true},
		{"upper case with extras", models.Row("DATE & TIME", "TRANSACTION DESCRIPTION", "REWARDS", "AMOUNT (in Rs.)"), true},
		{"words in one cell", models.Row("Date Transaction Amount"), true},
		{"order irrelevant", models.Row("Amount", "Date", "Transaction"), true},
		{"absent cells ignored", models.RawRow{nil, models.Row("Date")[0], nil, models.Row("Transaction")[0], models.Row("Amount")[0]}, true},
		{"not a ledger", models.Row("S.No", "Description"), false},
		{"missing amount", models.Row("Date", "Transaction Details", "Value"), false},
		{"missing date", models.Row("Transaction", "Amount"), false},
		{"empty header", models.RawRow{}, false},
		{"all cells absent", models.RawRow{nil, nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransactionTable(tt.header); got != tt.expected {
				t.Errorf("IsTransactionTable(%v): got %v, want %v", tt.header, got, tt.expected)
			}
		})
	}
}
