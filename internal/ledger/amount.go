package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountScale is the most digits accepted after the decimal point.
	MaxAmountScale = 18
	// MaxAmountIntegerDigits is the most digits accepted before the decimal point.
	MaxAmountIntegerDigits = 30

	maxAmountStringLen = 64
)

// ParseAmount converts a loosely typed amount into an exact decimal. Numeric
// Go values, numeric strings and json.Number are accepted; anything else
// fails with ErrInvalidAmount, as does a value outside the supported
// precision. Sign is not checked here.
func ParseAmount(v any) (decimal.Decimal, error) {
	d, err := parseAmount(v)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkAmountRange(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func parseAmount(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
		}
		return *val, nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int32:
		return decimal.NewFromInt32(val), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0), nil
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return decimal.Zero, fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
		}
		return decimal.NewFromFloat32(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
		}
		return decimal.NewFromFloat(val), nil
	case json.Number:
		return parseAmountString(val.String())
	case string:
		return parseAmountString(val)
	case nil:
		return decimal.Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
	}
	if len(s) > maxAmountStringLen {
		return decimal.Zero, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountStringLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}
	return d, nil
}

// checkAmountRange bounds the exponent and integer digits so rendering an
// amount stays cheap.
func checkAmountRange(d decimal.Decimal) error {
	if int(d.Exponent()) < -MaxAmountScale {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}
	if d.NumDigits()+int(d.Exponent()) > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxAmountIntegerDigits)
	}
	return nil
}

// loggedAmount renders amount for audit data, falling back to coefficient
// and exponent when it is out of range.
func loggedAmount(amount decimal.Decimal) string {
	if checkAmountRange(amount) != nil {
		return fmt.Sprintf("%se%d", amount.Coefficient().String(), amount.Exponent())
	}
	return amount.String()
}

func validateAmount(amount decimal.Decimal) error {
	if err := checkAmountRange(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero, got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}
