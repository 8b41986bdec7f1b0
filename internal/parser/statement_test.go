package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// fakeLoader serves pre-built pages and records how the document was used.
type fakeLoader struct {
	pages    []fakePage
	openErr  error
	pageErr  map[int]error
	password string
	doc      *fakeDocument
}

func (l *fakeLoader) Open(data []byte, password string) (extractor.Document, error) {
	l.password = password
	if l.openErr != nil {
		return nil, l.openErr
	}
	l.doc = &fakeDocument{loader: l}
	return l.doc, nil
}

type fakeDocument struct {
	loader *fakeLoader
	closed int
}

func (d *fakeDocument) NumPages() int { return len(d.loader.pages) }

func (d *fakeDocument) Page(n int) (extractor.Page, error) {
	if err := d.loader.pageErr[n]; err != nil {
		return nil, err
	}
	return d.loader.pages[n-1], nil
}

func (d *fakeDocument) Close() error {
	d.closed++
	return nil
}

type fakePage struct {
	text   string
	tables []models.RawTable
	panics bool
}

func (p fakePage) LayoutText(float64) string {
	if p.panics {
		panic("corrupt content stream")
	}
	return p.text
}

func (p fakePage) Tables() []models.RawTable { return p.tables }

var ledgerHeader = models.Row("Date", "Transaction Details", "Amount")

func TestStatementParser_Parse(t *testing.T) {
	loader := &fakeLoader{
		pages: []fakePage{
			{
				text: firstPageSample,
				tables: []models.RawTable{
					{
						models.Row("S.No", "Description"),
						models.Row("08/10/2025", "NOT A LEDGER"),
					},
					{
						ledgerHeader,
						models.Row("08/10/2025", "AMAZON PAY", "1,234.56"),
						models.Row("09/10/2025", "PAYMENT RECEIVED", "+86,962.00"),
						models.Row("", "continued description", ""),
					},
				},
			},
			{
				text: "Page 2 Transaction listing",
				tables: []models.RawTable{
					{
						models.Row("Date", "Transaction", "Rewards", "Amount"),
						models.Row("10/10/2025", "STARBUCKS", "EMI", "USD 4.50", "450 pts", "C500.00"),
						models.Row("11/10/2025", "TOTAL", "", "99.00"),
					},
				},
			},
		},
	}

	p := New(loader, Options{})
	result, err := p.Parse([]byte("%PDF"), "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loader.password != "secret" {
		t.Errorf("password not passed to loader: got %q", loader.password)
	}
	if loader.doc.closed != 1 {
		t.Errorf("document closed %d times, want 1", loader.doc.closed)
	}

	want := []struct {
		date, merchant, amount string
	}{
		{"08/10/2025", "AMAZON PAY", "1234.56"},
		{"09/10/2025", "PAYMENT RECEIVED", "-86962"},
		{"10/10/2025", "STARBUCKS", "500"},
	}
	if len(result.Transactions) != len(want) {
		t.Fatalf("transactions: got %d, want %d (%+v)", len(result.Transactions), len(want), result.Transactions)
	}
	for i, w := range want {
		txn := result.Transactions[i]
		if txn.Date != w.date || txn.Merchant != w.merchant || !txn.Amount.Equal(decimal.RequireFromString(w.amount)) {
			t.Errorf("txn[%d]: got %s | %s | %s, want %s | %s | %s",
				i, txn.Date, txn.Merchant, txn.Amount, w.date, w.merchant, w.amount)
		}
	}

	if result.CardLast4Digits == nil || *result.CardLast4Digits != "1234" {
		t.Errorf("metadata not read from page one: %+v", result.StatementMetadata)
	}
	if result.CreditLimit == nil || !result.CreditLimit.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("credit limit: got %v, want 300000", result.CreditLimit)
	}
}

func TestStatementParser_MetadataOnlyFromPageOne(t *testing.T) {
	loader := &fakeLoader{
		pages: []fakePage{
			{text: "Statement summary"},
			{text: "   JOHN ADAM SMITH      Credit Card No.   489377XXXXXX1234"},
		},
	}

	result, err := New(loader, Options{}).Parse(nil, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NameOnCard != nil || result.CardLast4Digits != nil {
		t.Errorf("metadata must come from page one only, got %+v", result.StatementMetadata)
	}
}

func TestStatementParser_EmptyFirstPageSkipped(t *testing.T) {
	loader := &fakeLoader{
		pages: []fakePage{
			{
				text: "   ",
				tables: []models.RawTable{{
					ledgerHeader,
					models.Row("08/10/2025", "IGNORED", "1.00"),
				}},
			},
			{text: "Credit Card No. 4111XXXXXX4321"},
		},
	}

	result, err := New(loader, Options{}).Parse(nil, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transactions) != 0 {
		t.Errorf("tables of a page without text must be ignored, got %+v", result.Transactions)
	}
	if result.CardLast4Digits != nil {
		t.Errorf("page two text must not be used for metadata, got %q", *result.CardLast4Digits)
	}
}

func TestStatementParser_NoTransactionsIsNotAnError(t *testing.T) {
	loader := &fakeLoader{
		pages: []fakePage{{
			text: "Statement",
			tables: []models.RawTable{{
				models.Row("S.No", "Description"),
				models.Row("08/10/2025", "SOMETHING", "10.00"),
			}},
		}},
	}

	result, err := New(loader, Options{}).Parse(nil, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transactions == nil || len(result.Transactions) != 0 {
		t.Errorf("expected an empty, non-nil ledger, got %#v", result.Transactions)
	}
}

func TestStatementParser_WrongPassword(t *testing.T) {
	loader := &fakeLoader{
		openErr: fmt.Errorf("%w: encrypted PDF: invalid password", extractor.ErrIncorrectPassword),
	}

	result, err := New(loader, Options{}).Parse([]byte("%PDF"), "wrong")
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	var credErr *CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialError, got %T: %v", err, err)
	}
}

func TestStatementParser_OpenFailure(t *testing.T) {
	cause := errors.New("malformed PDF: missing xref")
	loader := &fakeLoader{openErr: cause}

	result, err := New(loader, Options{}).Parse([]byte("junk"), "pw")
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructuralError, got %T: %v", err, err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("StructuralError should wrap the cause, got %v", err)
	}
}

func TestStatementParser_PageFailureClosesDocument(t *testing.T) {
	loader := &fakeLoader{
		pages:   []fakePage{{text: "one"}, {text: "two"}},
		pageErr: map[int]error{2: errors.New("bad page tree")},
	}

	result, err := New(loader, Options{}).Parse(nil, "pw")
	if result != nil {
		t.Errorf("expected no partial result, got %+v", result)
	}
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructuralError, got %T: %v", err, err)
	}
	if loader.doc.closed != 1 {
		t.Errorf("document closed %d times, want 1", loader.doc.closed)
	}
}

func TestStatementParser_PanicBecomesStructuralError(t *testing.T) {
	loader := &fakeLoader{pages: []fakePage{{panics: true}}}

	result, err := New(loader, Options{}).Parse(nil, "pw")
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructuralError, got %T: %v", err, err)
	}
	if loader.doc.closed != 1 {
		t.Errorf("document closed %d times, want 1", loader.doc.closed)
	}
}
