package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are emitted as JSON numbers, matching the response schema
	// clients already consume.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction represents a single ledger row of a card statement.
// Amount is positive for debits/purchases and negative for credits/payments.
type Transaction struct {
	Date     string          `json:"date"`
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

// IsCredit reports whether the transaction is a payment or refund.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsNegative()
}

// StatementMetadata holds the scalar fields found on the first page.
// Every field is optional; nil means the statement did not reveal it.
type StatementMetadata struct {
	CardName        *string `json:"card_name"`
	CardLast4Digits *string `json:"card_last_4_digits"`
	NameOnCard      *string `json:"name_on_card"`
	// CreditLimit is the TOTAL credit limit. The wire name
	// "available_limit" is kept for existing clients.
	CreditLimit *decimal.Decimal `json:"available_limit"`
}

// StatementResult is the output of one parse.
type StatementResult struct {
	StatementMetadata
	Transactions []Transaction `json:"transactions"`
}

// NewStatementResult builds a result, normalising a nil ledger to an empty
// one so it marshals as [] rather than null.
func NewStatementResult(meta StatementMetadata, txns []Transaction) *StatementResult {
	if txns == nil {
		txns = []Transaction{}
	}
	return &StatementResult{StatementMetadata: meta, Transactions: txns}
}

// Totals sums debits and credits separately. Credits are returned as a
// positive magnitude.
func (r *StatementResult) Totals() (debits, credits decimal.Decimal) {
	for _, txn := range r.Transactions {
		if txn.IsCredit() {
			credits = credits.Add(txn.Amount.Abs())
		} else {
			debits = debits.Add(txn.Amount)
		}
	}
	return debits, credits
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// DecimalPtr returns a pointer to d.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
