// Package money wraps shopspring/decimal so every monetary figure in the
// system goes through exact decimal arithmetic. Floats only appear at the
// edges (JSON payloads, spreadsheet cells), never in calculations.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

type Money struct {
	amount decimal.Decimal
}

func Zero() Money {
	return Money{}
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// FromFloat converts a boundary float (request payload, legacy column) into
// an exact value rounded to centavos.
func FromFloat(v float64) Money {
	return Money{amount: decimal.NewFromFloat(v).Round(2)}
}

func FromInt(v int64) Money {
	return Money{amount: decimal.NewFromInt(v)}
}

// FromString parses a decimal string such as "1234.56".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// MulFloat scales by a plain factor, used for percentage math.
func (m Money) MulFloat(f float64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(f)).Round(2)}
}

func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// ClampNonNegative returns max(m, 0).
func (m Money) ClampNonNegative() Money {
	if m.amount.IsNegative() {
		return Money{}
	}
	return m
}

// ClampNonPositive returns min(m, 0).
func (m Money) ClampNonPositive() Money {
	if m.amount.IsPositive() {
		return Money{}
	}
	return m
}

// PercentOf returns m/total*100 as a display float, 0 when total is not
// positive. The ratio is intentionally not clamped: overpaid contracts
// legitimately exceed 100%.
func (m Money) PercentOf(total Money) float64 {
	if !total.amount.IsPositive() {
		return 0
	}
	ratio, _ := m.amount.Div(total.amount).Mul(decimal.NewFromInt(100)).Float64()
	return ratio
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Sum folds a slice of values.
func Sum(values []Money) Money {
	total := Money{}
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// MarshalJSON renders the amount as a JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	d := decimal.Decimal{}
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.amount = d
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value interface{}) error {
	d := decimal.Decimal{}
	if err := d.Scan(value); err != nil {
		return err
	}
	m.amount = d
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.amount.Value()
}
