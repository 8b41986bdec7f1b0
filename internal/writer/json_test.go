package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/insightdelivered/statement-parser/internal/models"
)

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleStatement()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if got["card_name"] != "Regalia Gold" {
		t.Errorf("card_name: got %v", got["card_name"])
	}
	if got["card_last_4_digits"] != "1234" {
		t.Errorf("card_last_4_digits: got %v", got["card_last_4_digits"])
	}
	if got["available_limit"] != float64(300000) {
		t.Errorf("available_limit: got %v (%T), want a number", got["available_limit"], got["available_limit"])
	}

	txns, ok := got["transactions"].([]any)
	if !ok || len(txns) != 3 {
		t.Fatalf("transactions: got %v", got["transactions"])
	}
	first := txns[0].(map[string]any)
	if first["date"] != "08/10/2025" || first["merchant"] != "AMAZON PAY, BANGALORE" || first["amount"] != 1234.56 {
		t.Errorf("first transaction: got %v", first)
	}
	if second := txns[1].(map[string]any); second["amount"] != float64(-86962) {
		t.Errorf("credit amount: got %v", second["amount"])
	}
}

func TestJSONWriter_AbsentFields(t *testing.T) {
	var buf bytes.Buffer
	result := models.NewStatementResult(models.StatementMetadata{}, nil)
	if err := (&JSONWriter{}).Write(&buf, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"card_name":null,"card_last_4_digits":null,"name_on_card":null,"available_limit":null,"transactions":[]}`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("output:\ngot  %s\nwant %s", got, want)
	}
}

func TestJSONWriter_Indent(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{Indent: true}).Write(&buf, sampleStatement()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"card_name\": \"Regalia Gold\"") {
		t.Errorf("expected indented output, got:\n%s", buf.String())
	}
}
