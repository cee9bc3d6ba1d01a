package money

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is a fixed-point amount. Order totals and unit prices go through
// this type so totals validation and postback serialization never touch
// binary floats.
type Decimal struct {
	value apd.Decimal
}

func Parse(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(strings.TrimSpace(s))
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	return Decimal{value: d}, nil
}

func FromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

func Zero() Decimal {
	return Decimal{}
}

func (d Decimal) String() string {
	return d.value.Text('f')
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) IsNegative() bool {
	return d.value.Sign() < 0
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// MulInt scales d by an integer quantity.
func (d Decimal) MulInt(qty int64) Decimal {
	return d.Mul(FromInt64(qty))
}

// MarshalJSON emits the amount as a plain JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.value.Text('f')), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (d *Decimal) UnmarshalJSON(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		d.value = apd.Decimal{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
