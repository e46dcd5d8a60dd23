package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{".5", "0.5", true},
		{"5.", "5", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParsePositiveAmountRejectsZero(t *testing.T) {
	if _, err := ParsePositiveAmount("0"); err == nil {
		t.Fatalf("expected error for zero")
	}
	if d, err := ParsePositiveAmount("3,5"); err != nil || !d.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected result %s err=%v", d, err)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"5000":                     "5,000",
		"3150":                     "3,150",
		"80":                       "80",
		"1000000":                  "1,000,000",
		"12.5":                     "12.50",
		"0.1":                      "0.10",
		"1234.005":                 "1,234.01",
		"0.999":                    "1",
		"-1234.5":                  "-1,234.50",
		"9223372036854775807":      "9,223,372,036,854,775,807",
		"10000000000000000000":     "10,000,000,000,000,000,000",
		"123456789012345678901.25": "123,456,789,012,345,678,901.25",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatAmount(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestDollars(t *testing.T) {
	if got := Dollars(decimal.NewFromInt(-250)); got != "-$250" {
		t.Fatalf("got %q", got)
	}
	if got := Dollars(decimal.NewFromInt(5000)); got != "$5,000" {
		t.Fatalf("got %q", got)
	}
}

func TestDollarsLargeAmountKeepsSign(t *testing.T) {
	d, err := ParseAmount("10000000000000000000")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if got := Dollars(d); got != "$10,000,000,000,000,000,000" {
		t.Fatalf("got %q", got)
	}
	if got := Dollars(d.Neg()); got != "-$10,000,000,000,000,000,000" {
		t.Fatalf("got %q", got)
	}
}
