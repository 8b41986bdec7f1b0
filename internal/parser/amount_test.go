package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"1,234.56", "1234.56", true},
		{"25.99", "25.99", true},
		{" 25.99 ", "25.99", true},
		{"C3,00,000", "300000", true},
		{"C500.00", "500", true},
		{"₹1,250.00", "1250", true},
		{"1,234.56 Dr", "1234.56", true},
		{"1,234.56 Cr", "-1234.56", true},
		{"1,234.56 CR", "-1234.56", true},
		{"cr 10", "-10", true},
		{"+86,962.00", "-86962", true},
		{"-86962", "-86962", true},
		{"0.00", "0", true},
		{"", "", false},
		{"   ", "", false},
		{"Cr", "", false},
		{"N/A", "", false},
		{"1.2.3", "", false},
		{".", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizeAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("NormalizeAmount(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("NormalizeAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestNormalizeAmount_SignConvention(t *testing.T) {
	credits := []string{"100 Cr", "100cr", "+100", "CR100.50", "1,000.00 cR"}
	for _, in := range credits {
		got, ok := NormalizeAmount(in)
		if !ok || !got.IsNegative() {
			t.Errorf("NormalizeAmount(%q) = %s, %v; want a negative amount", in, got, ok)
		}
	}

	debits := []string{"100", "100 Dr", "C100", "₹ 100.00", "1,00,000.5"}
	for _, in := range debits {
		got, ok := NormalizeAmount(in)
		if !ok || !got.IsPositive() {
			t.Errorf("NormalizeAmount(%q) = %s, %v; want a positive amount", in, got, ok)
		}
	}
}

func TestNormalizeAmount_Idempotent(t *testing.T) {
	inputs := []string{"1,234.56", "+86,962.00", "C3,00,000", "12.30 Cr", "0.5", "7 Dr"}
	for _, in := range inputs {
		first, ok := NormalizeAmount(in)
		if !ok {
			t.Fatalf("NormalizeAmount(%q) failed", in)
		}
		second, ok := NormalizeAmount(first.String())
		if !ok {
			t.Fatalf("NormalizeAmount(%q) failed on its own output %q", in, first.String())
		}
		if !second.Equal(first) {
			t.Errorf("NormalizeAmount(%q): %s renormalized to %s", in, first, second)
		}
	}
}
