package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// StatementParser runs the full pipeline over one document per call. It
// holds no per-call state and is safe for concurrent use.
type StatementParser struct {
	loader     extractor.Loader
	fields     *FieldExtractor
	xTolerance float64
	log        zerolog.Logger
}

// Parse opens the document, collects ledger rows from every page in order
// and reads the metadata from page one.
//
// A wrong password yields *CredentialError; anything that stops the document
// from being read yields *StructuralError. Rows and fields that do not match
// are dropped without failing the parse.
func (p *StatementParser) Parse(data []byte, password string) (result *models.StatementResult, err error) {
	doc, err := p.loader.Open(data, password)
	if err != nil {
		if errors.Is(err, extractor.ErrIncorrectPassword) {
			p.log.Warn().Msg("PDF password error")
			return nil, &CredentialError{Msg: "invalid password"}
		}
		p.log.Error().Err(err).Msg("failed to open PDF, it may be corrupted")
		return nil, &StructuralError{Op: "open PDF", Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			p.log.Warn().Err(cerr).Msg("failed to close PDF")
			return
		}
		p.log.Debug().Msg("PDF closed")
	}()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("PDF parsing crashed")
			result, err = nil, &StructuralError{Op: "parse PDF", Err: fmt.Errorf("recovered from crash: %v", r)}
		}
	}()

	numPages := doc.NumPages()
	p.log.Info().Int("pages", numPages).Msg("PDF opened")

	var (
		txns        []models.Transaction
		pageOneText string
	)
	for n := 1; n <= numPages; n++ {
		page, err := doc.Page(n)
		if err != nil {
			p.log.Error().Err(err).Int("page", n).Msg("failed to read page")
			return nil, &StructuralError{Op: fmt.Sprintf("read page %d", n), Err: err}
		}

		raw := extractor.ReadPage(page, p.xTolerance)
		text := raw.LayoutText
		if strings.TrimSpace(text) == "" {
			p.log.Debug().Int("page", n).Msg("page has no text, skipping")
			continue
		}
		if !extractor.IsReadableText(text) {
			p.log.Warn().Int("page", n).Msg("page text looks undecodable")
		}
		if n == 1 {
			pageOneText = text
		}

		p.log.Info().Int("page", n).Int("tables", len(raw.Tables)).Msg("found tables")
		for _, table := range raw.Tables {
			txns = append(txns, p.ledgerTransactions(n, table)...)
		}
	}

	meta := p.fields.Extract(pageOneText)

	if len(txns) == 0 {
		p.log.Warn().Msg("no transactions were found")
	}
	return models.NewStatementResult(meta, txns), nil
}

// ledgerTransactions returns the transactions of table when its header
// names a ledger, and nothing otherwise.
func (p *StatementParser) ledgerTransactions(page int, table models.RawTable) []models.Transaction {
	if len(table) == 0 || !IsTransactionTable(table[0]) {
		return nil
	}
	p.log.Info().Int("page", page).Int("rows", len(table)-1).Msg("found transaction table")

	var txns []models.Transaction
	for _, row := range table[1:] {
		txn, err := ParseTransactionRow(row)
		if err != nil {
			p.log.Debug().Err(err).Int("page", page).Msg("skipping row")
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}
