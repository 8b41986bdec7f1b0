package extractor

import (
	"strings"
	"unicode"
)

// textQuality returns the ratio of basic readable characters (ASCII letters,
// digits, common punctuation, whitespace, currency signs) to all characters.
// unicode.IsLetter is too broad: identity-encoded fonts decode to accented
// garbage that it would accept.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"%&@#!?+=*|", r) ||
			strings.ContainsRune("₹$£€", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear on virtually every card statement page.
var commonWords = []string{
	"card", "credit", "statement", "date", "amount", "payment",
	"total", "limit", "transaction", "due", "balance", "reward",
}

// IsReadableText reports whether page text looks decoded rather than
// font-encoded garbage: more than 60% readable characters and at least one
// word a statement would contain.
func IsReadableText(text string) bool {
	if len(strings.TrimSpace(text)) == 0 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
