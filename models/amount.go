package models

import "github.com/shopspring/decimal"

// Amount is a money value with a fixed two-decimal representation. The
// embedded decimal carries the arithmetic; String and JSON output always
// show exactly two decimal places, so 400 renders as "400.00".
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{d.Round(2)}
}

func (a Amount) String() string {
	return a.Decimal.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Decimal.StringFixed(2) + `"`), nil
}
