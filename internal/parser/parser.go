package parser

import (
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// DefaultXTolerance is the glyph gap, in points, above which layout text
// inserts a space.
const DefaultXTolerance = 2.0

// Parser defines the interface for statement parsers.
type Parser interface {
	// Parse takes the raw document bytes and its password and returns
	// structured statement data.
	Parse(data []byte, password string) (*models.StatementResult, error)
}

// Options configures a StatementParser. The zero value is usable.
type Options struct {
	// XTolerance overrides DefaultXTolerance when positive.
	XTolerance float64
	// Rules overrides DefaultRules when set.
	Rules *Rules
	// Logger receives diagnostics; nil disables logging.
	Logger *zerolog.Logger
}

// New returns a StatementParser reading documents through loader.
func New(loader extractor.Loader, opts Options) *StatementParser {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	tol := opts.XTolerance
	if tol <= 0 {
		tol = DefaultXTolerance
	}
	return &StatementParser{
		loader:     loader,
		fields:     NewFieldExtractor(opts.Rules, log),
		xTolerance: tol,
		log:        log,
	}
}
