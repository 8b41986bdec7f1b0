package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount converts a statement amount such as "1,234.56",
// "C3,00,000", "1,234.56 Cr" or "+86,962.00" into a signed decimal.
//
// Credits (a "cr" marker anywhere, or a leading "+" or "-") come back
// negative; everything else, including a "Dr" suffix, is a positive debit.
// The second return value is false when no number could be recovered.
func NormalizeAmount(text string) (decimal.Decimal, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return decimal.Decimal{}, false
	}

	credit := strings.Contains(strings.ToLower(text), "cr") ||
		strings.HasPrefix(text, "+") ||
		strings.HasPrefix(text, "-")

	digits := nonAmountChars.ReplaceAllString(text, "")
	if digits == "" {
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if credit {
		return amount.Neg(), true
	}
	return amount, true
}
