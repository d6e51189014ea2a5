package types

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is a decimal value that tolerates the upstream habit of encoding
// numbers as JSON strings ("60.00"). It always marshals back as a
// two-decimal string so responses stay stable for display code.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

func DecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Decimal: d}, nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		d.Decimal = decimal.Zero
		return nil
	}
	raw := string(trimmed)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			d.Decimal = decimal.Zero
			return nil
		}
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	d.Decimal = parsed
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.StringFixed(2))), nil
}

// FlexInt is an integer that accepts both JSON numbers and quoted digits
// (the upstream serializes counts like item_count as strings).
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	raw := string(trimmed)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	// Some endpoints send integral values as "5.00".
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*f = FlexInt(value)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

func (f FlexInt) Int() int {
	return int(f)
}
