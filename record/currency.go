package record

import "github.com/shopspring/decimal"

// Currency represents one currency in the record set. Exactly one currency in
// a set carries IsDefault, and the default currency never has exchange-rate
// history (all rates are expressed relative to it).
type Currency struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	DecimalPlaces *float64        `json:"decimalPlaces"`
	IsDefault     bool            `json:"isDefault"`
	ExchangeRates []*ExchangeRate `json:"exchangeRate"`
}

// ExchangeRate is one dated conversion rate toward the default currency.
// Dates are unique within a currency's history.
type ExchangeRate struct {
	Date   string          `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source,omitempty"`
}

// MinDecimalPlaces and MaxDecimalPlaces bound Currency.DecimalPlaces.
// The bound is on magnitude only; fractional values inside the range are
// accepted.
const (
	MinDecimalPlaces = 0
	MaxDecimalPlaces = 8
)

// RateAt returns the exchange rate entry for the given date, or nil.
func (c *Currency) RateAt(date string) *ExchangeRate {
	for _, r := range c.ExchangeRates {
		if r.Date == date {
			return r
		}
	}
	return nil
}
