package ledger

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"int", 100, "100"},
		{"int64", int64(-5), "-5"},
		{"float", 12.5, "12.5"},
		{"string", " 0.10 ", "0.1"},
		{"json number", json.Number("42.42"), "42.42"},
		{"decimal", decimal.RequireFromString("7"), "7"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseAmountRejectsNonNumeric(t *testing.T) {
	inputs := []any{"", "ten", "1,000", nil, math.NaN(), math.Inf(1), struct{}{}, (*decimal.Decimal)(nil)}
	for _, in := range inputs {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("input %#v: expected invalid amount, got %v", in, err)
		}
	}
}

func TestParseAmountRejectsOutOfRange(t *testing.T) {
	inputs := []any{
		"1e2000000",
		"1e200000000",
		json.Number("1e31"),
		"0.0000000000000000001",
		"1e-19",
		1e300,
		strings.Repeat("9", 65),
		decimal.New(1, 40),
	}
	for _, in := range inputs {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("input %v: expected invalid amount, got %v", in, err)
		}
	}

	edge := []string{"0.000000000000000001", "999999999999999999999999999999"}
	for _, in := range edge {
		if _, err := ParseAmount(in); err != nil {
			t.Fatalf("input %s: expected valid amount, got %v", in, err)
		}
	}
}
