package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// LimitLayout is one way a statement can lay out its credit limit block.
// Extract pulls the raw amount text out of a successful match.
type LimitLayout struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(match []string) string
}

// Rules holds the compiled metadata patterns. A Rules value is never
// modified after construction and may be shared between goroutines.
type Rules struct {
	CardName       *regexp.Regexp
	CardNameNoise  *regexp.Regexp
	NameOnCard     *regexp.Regexp
	CardLastDigits *regexp.Regexp
	// LimitLayouts are tried in order; the first match wins.
	LimitLayouts []LimitLayout
}

func firstGroup(match []string) string { return match[1] }

func compileRules() *Rules {
	return &Rules{
		// "<name> Credit Card Statement" on its own line.
		CardName: regexp.MustCompile(`(?m)^\s*(.* Credit Card) Statement`),
		// Issuer and product words that carry no card identity.
		CardNameNoise: regexp.MustCompile(`(?i)\b(HDFC|Bank|Credit|Card|Statement)\b`),
		// 10+ upper-case letters/spaces, then the card number label.
		NameOnCard: regexp.MustCompile(`(?m)^[ \t]*([A-Z ]{10,})[ \t]+Credit Card No\.`),
		// Masked card number after the label, e.g. 489377XXXXXX1234.
		CardLastDigits: regexp.MustCompile(`Credit Card No\..*?XXXXXX(\d{4})`),
		LimitLayouts: []LimitLayout{
			{
				// TOTAL CREDIT LIMIT
				// (Including Cash)   AVAILABLE CREDIT LIMIT ...
				// C3,00,000          C2,10,512.00 ...
				Name: "including-cash",
				Pattern: regexp.MustCompile(
					`TOTAL CREDIT LIMIT.*\n` +
						`\s*\(Including Cash\).*AVAILABLE CREDIT LIMIT.*\n` +
						`[ \t]*[^\d\s,.]?([\d,]+\.?\d*)`),
				Extract: firstGroup,
			},
			{
				// TOTAL CREDIT LIMIT
				// AVAILABLE CREDIT LIMIT ...
				// (Including Cash)
				// 3,00,000
				Name: "split-header",
				Pattern: regexp.MustCompile(
					`TOTAL CREDIT LIMIT.*\n` +
						`(?:.*\n){1,2}` +
						`\s*([\d,]+\.?\d*)`),
				Extract: firstGroup,
			},
		},
	}
}

var defaultRules = compileRules()

// DefaultRules returns the process-wide rule set.
func DefaultRules() *Rules {
	return defaultRules
}

// FieldExtractor recovers statement metadata from first-page layout text.
type FieldExtractor struct {
	rules *Rules
	log   zerolog.Logger
}

// NewFieldExtractor returns an extractor using rules, or DefaultRules when
// rules is nil.
func NewFieldExtractor(rules *Rules, log zerolog.Logger) *FieldExtractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &FieldExtractor{rules: rules, log: log}
}

// Extract applies every rule independently. Fields whose rule does not
// match are left nil.
func (e *FieldExtractor) Extract(text string) models.StatementMetadata {
	var meta models.StatementMetadata

	if m := e.rules.CardName.FindStringSubmatch(text); m != nil {
		full := strings.TrimSpace(m[1])
		if name := e.cleanCardName(full); name != "" {
			meta.CardName = &name
			e.log.Info().Str("card_name", name).Str("raw", full).Msg("found card name")
		}
	}

	if m := e.rules.NameOnCard.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		meta.NameOnCard = &name
		e.log.Info().Str("name_on_card", name).Msg("found name on card")
	}

	if m := e.rules.CardLastDigits.FindStringSubmatch(text); m != nil {
		digits := m[1]
		meta.CardLast4Digits = &digits
		e.log.Info().Str("card_last_4_digits", digits).Msg("found card number")
	}

	meta.CreditLimit = e.creditLimit(text)
	return meta
}

func (e *FieldExtractor) cleanCardName(full string) string {
	return strings.Join(strings.Fields(e.rules.CardNameNoise.ReplaceAllString(full, "")), " ")
}

func (e *FieldExtractor) creditLimit(text string) *decimal.Decimal {
	for _, layout := range e.rules.LimitLayouts {
		m := layout.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := layout.Extract(m)
		e.log.Info().Str("layout", layout.Name).Msg("matched credit limit layout")

		limit, ok := NormalizeAmount(raw)
		if !ok {
			e.log.Warn().Str("raw", raw).Msg("credit limit is not a number")
			return nil
		}
		limit = limit.Abs()
		e.log.Info().Str("credit_limit", limit.String()).Msg("found credit limit")
		return &limit
	}
	e.log.Warn().Msg("no credit limit layout matched")
	return nil
}
