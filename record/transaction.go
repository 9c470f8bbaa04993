package record

import "github.com/shopspring/decimal"

// Transaction is one double-entry transaction. A transaction carries at least
// two postings, and for every currency appearing among its postings the
// posting amounts sum to (approximately) zero.
type Transaction struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Payee       string     `json:"payee,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Postings    []*Posting `json:"posting"`
}

// Posting is one leg of a transaction: a signed amount against an account,
// denominated in that account's currency.
type Posting struct {
	AccountID    string          `json:"accountId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate *PostingRate    `json:"exchangeRate,omitempty"`
}

// PostingRate annotates a posting with the conversion used when a
// transaction spans more than one currency. EquivalentAmount, when given,
// must equal Amount times Rate within the balance tolerance.
type PostingRate struct {
	Rate             decimal.Decimal     `json:"rate"`
	EquivalentAmount decimal.NullDecimal `json:"equivalentAmount"`
}

// Currencies returns the distinct currencies among the transaction's
// postings, in first-seen order.
func (t *Transaction) Currencies() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, p := range t.Postings {
		if p.Currency == "" || seen[p.Currency] {
			continue
		}
		seen[p.Currency] = true
		codes = append(codes, p.Currency)
	}
	return codes
}

// HasExchangeRate reports whether any posting carries rate information.
func (t *Transaction) HasExchangeRate() bool {
	for _, p := range t.Postings {
		if p.ExchangeRate != nil {
			return true
		}
	}
	return false
}
