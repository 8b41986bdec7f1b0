package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/currency"
)

// Patterns shared by the row normalizer. They are compiled once and only
// ever read.
var (
	// A whole date cell in DD/MM/YYYY form, e.g. "08/10/2025".
	txDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	// Reward point deltas printed in their own column: "+57", "-12".
	pointsDeltaPattern = regexp.MustCompile(`^[+-]\d+$`)
	// Reward point balances: "450 pts", "1,234 pts".
	pointsPattern = regexp.MustCompile(`(?i)^[\d,]+\s*pts$`)
	// Foreign currency sub-amounts: "USD 25.00". The code is checked
	// against ISO 4217 separately.
	foreignAmountPattern = regexp.MustCompile(`^([A-Za-z]{3})\s+[\d,]*\.?\d+$`)
	// Anything an amount can carry besides digits and the decimal point:
	// currency glyphs, "C" markers, Cr/Dr suffixes.
	nonAmountChars = regexp.MustCompile(`[^0-9.]`)
)

// isJunkCell reports whether a trimmed middle cell carries something other
// than merchant text: EMI markers, reward points or a foreign sub-amount.
func isJunkCell(cell string) bool {
	switch strings.ToUpper(cell) {
	case "EMI", "EM":
		return true
	}
	if pointsDeltaPattern.MatchString(cell) || pointsPattern.MatchString(cell) {
		return true
	}
	if m := foreignAmountPattern.FindStringSubmatch(cell); m != nil {
		_, err := currency.ParseISO(strings.ToUpper(m[1]))
		return err == nil
	}
	return false
}

// splitDateCell drops the time component some issuers print after a pipe,
// e.g. "08/10/2025 | 11:58".
func splitDateCell(cell string) string {
	if i := strings.Index(cell, "|"); i >= 0 {
		cell = cell[:i]
	}
	return strings.TrimSpace(cell)
}
