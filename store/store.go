// Package store provides the mutation layer over a record set. Every
// operation follows the same read-validate-write sequence: take the lock,
// run the relevant rule engine against current state, and apply the change
// only when validation passes. Deletions additionally run referential usage
// scans so nothing with live references disappears.
//
// A Store serializes mutations with a single mutex; the validation core
// itself is pure and carries no locking.
package store

import (
	"sync"
	"time"

	"github.com/coinbook/coinbook/record"
	"github.com/coinbook/coinbook/validate"
)

// Store owns a document and mediates all mutations to it.
type Store struct {
	mu  sync.Mutex
	doc *record.Document
}

// New creates a store over the given document.
func New(doc *record.Document) *Store {
	return &Store{doc: doc}
}

// Document returns the underlying document. Callers must treat it as
// read-only; all mutation goes through the store.
func (s *Store) Document() *record.Document {
	return s.doc
}

// AddCurrency validates and appends a currency. If the candidate is marked
// default, any currently-default currency is demoted.
func (s *Store) AddCurrency(c *record.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := validate.NewCurrency(c, s.doc.Currencies); !res.Valid {
		return NewValidationError(res)
	}

	if c.IsDefault {
		s.demoteDefaults()
	}
	s.doc.Currencies = append(s.doc.Currencies, c)
	s.touch()
	return nil
}

// UpdateCurrency replaces the currency with the given code. The code itself
// is the identity and cannot change. Promoting the updated currency to
// default demotes any other.
func (s *Store) UpdateCurrency(code string, updated *record.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currencyIndex(code)
	if idx < 0 {
		return NewNotFoundError("currency", code)
	}

	updated.Code = code
	others := make([]*record.Currency, 0, len(s.doc.Currencies)-1)
	others = append(others, s.doc.Currencies[:idx]...)
	others = append(others, s.doc.Currencies[idx+1:]...)
	if res := validate.NewCurrency(updated, others); !res.Valid {
		return NewValidationError(res)
	}

	if updated.IsDefault {
		s.demoteDefaults()
	}
	s.doc.Currencies[idx] = updated
	s.touch()
	return nil
}

// DeleteCurrency removes a currency. The default currency cannot be
// deleted, and neither can a currency referenced by any account or posting.
func (s *Store) DeleteCurrency(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currencyIndex(code)
	if idx < 0 {
		return NewNotFoundError("currency", code)
	}
	if s.doc.Currencies[idx].IsDefault {
		return NewUsageError("currency", code, s.currencyUsage(code))
	}
	if refs := s.currencyUsage(code); refs > 0 {
		return NewUsageError("currency", code, refs)
	}

	s.doc.Currencies = append(s.doc.Currencies[:idx], s.doc.Currencies[idx+1:]...)
	s.touch()
	return nil
}

// AddExchangeRate validates and appends a rate to the named currency's
// history.
func (s *Store) AddExchangeRate(code string, rate *record.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currencyIndex(code)
	if idx < 0 {
		return NewNotFoundError("currency", code)
	}
	owner := s.doc.Currencies[idx]

	if res := validate.NewExchangeRate(rate, owner); !res.Valid {
		return NewValidationError(res)
	}

	owner.ExchangeRates = append(owner.ExchangeRates, rate)
	s.touch()
	return nil
}

// DeleteExchangeRate removes one dated rate from a currency's history,
// unless a posting references that currency at that date.
func (s *Store) DeleteExchangeRate(code, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currencyIndex(code)
	if idx < 0 {
		return NewNotFoundError("currency", code)
	}
	owner := s.doc.Currencies[idx]

	rateIdx := -1
	for i, r := range owner.ExchangeRates {
		if r.Date == date {
			rateIdx = i
			break
		}
	}
	if rateIdx < 0 {
		return NewNotFoundError("exchangeRate", code+"@"+date)
	}

	if refs := s.rateUsage(code, date); refs > 0 {
		return NewUsageError("exchangeRate", code+"@"+date, refs)
	}

	owner.ExchangeRates = append(owner.ExchangeRates[:rateIdx], owner.ExchangeRates[rateIdx+1:]...)
	s.touch()
	return nil
}

// AddAccount validates a candidate account, assigns it the next sequential
// ID, and appends it. The assigned ID is returned.
func (s *Store) AddAccount(a *record.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := validate.NewAccount(a, s.doc.Accounts, s.doc.Currencies); !res.Valid {
		return "", NewValidationError(res)
	}

	a.ID = validate.GenerateAccountID(s.doc.Accounts)
	s.doc.Accounts = append(s.doc.Accounts, a)
	s.touch()
	return a.ID, nil
}

// UpdateAccount replaces the account with the given ID. The ID is immutable.
func (s *Store) UpdateAccount(id string, updated *record.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.accountIndex(id)
	if idx < 0 {
		return NewNotFoundError("account", id)
	}

	others := make([]*record.Account, 0, len(s.doc.Accounts)-1)
	others = append(others, s.doc.Accounts[:idx]...)
	others = append(others, s.doc.Accounts[idx+1:]...)
	if res := validate.NewAccount(updated, others, s.doc.Currencies); !res.Valid {
		return NewValidationError(res)
	}

	updated.ID = id
	s.doc.Accounts[idx] = updated
	s.touch()
	return nil
}

// CloseAccount marks an account closed as of the given date. The date must
// be valid and not earlier than the account's opened date.
func (s *Store) CloseAccount(id, closedDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.accountIndex(id)
	if idx < 0 {
		return NewNotFoundError("account", id)
	}
	a := s.doc.Accounts[idx]

	if a.Closed {
		return NewValidationError(failed(validate.CodeAccountClosedDate, "closed", "account is already closed"))
	}
	if !record.IsCalendarDate(closedDate) {
		return NewValidationError(failed(validate.CodeAccountClosedDate, "closedDate", "closedDate must be a valid YYYY-MM-DD date"))
	}
	if opened, ok := record.ParseCalendarDate(a.Opened); ok {
		closed, _ := record.ParseCalendarDate(closedDate)
		if closed.Before(opened) {
			return NewValidationError(failed(validate.CodeAccountClosedOrder, "closedDate", "closedDate cannot be before the opened date"))
		}
	}

	a.Closed = true
	a.ClosedDate = closedDate
	s.touch()
	return nil
}

// ReopenAccount clears an account's closed state.
func (s *Store) ReopenAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.accountIndex(id)
	if idx < 0 {
		return NewNotFoundError("account", id)
	}
	a := s.doc.Accounts[idx]
	if !a.Closed {
		return NewValidationError(failed(validate.CodeAccountClosedDate, "closed", "account is not closed"))
	}

	a.Closed = false
	a.ClosedDate = ""
	s.touch()
	return nil
}

// DeleteAccount removes an account, unless postings still reference it. The
// returned UsageError carries the exact reference count.
func (s *Store) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.accountIndex(id)
	if idx < 0 {
		return NewNotFoundError("account", id)
	}
	if refs := s.accountUsage(id); refs > 0 {
		return NewUsageError("account", id, refs)
	}

	s.doc.Accounts = append(s.doc.Accounts[:idx], s.doc.Accounts[idx+1:]...)
	s.touch()
	return nil
}

// AddTransaction validates a candidate transaction, assigns it the next
// sequential ID, and appends it. The assigned ID is returned.
func (s *Store) AddTransaction(t *record.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := validate.NewTransaction(t, s.doc.Transactions, s.doc.Accounts, s.doc.Currencies); !res.Valid {
		return "", NewValidationError(res)
	}

	t.ID = validate.GenerateTransactionID(s.doc.Transactions)
	s.doc.Transactions = append(s.doc.Transactions, t)
	s.touch()
	return t.ID, nil
}

// UpdateTransaction replaces the transaction with the given ID in place.
// The ID is immutable.
func (s *Store) UpdateTransaction(id string, updated *record.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(id)
	if idx < 0 {
		return NewNotFoundError("transaction", id)
	}

	others := make([]*record.Transaction, 0, len(s.doc.Transactions)-1)
	others = append(others, s.doc.Transactions[:idx]...)
	others = append(others, s.doc.Transactions[idx+1:]...)
	if res := validate.NewTransaction(updated, others, s.doc.Accounts, s.doc.Currencies); !res.Valid {
		return NewValidationError(res)
	}

	updated.ID = id
	s.doc.Transactions[idx] = updated
	s.touch()
	return nil
}

// DeleteTransaction removes a transaction unconditionally; nothing
// references a transaction.
func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(id)
	if idx < 0 {
		return NewNotFoundError("transaction", id)
	}

	s.doc.Transactions = append(s.doc.Transactions[:idx], s.doc.Transactions[idx+1:]...)
	s.touch()
	return nil
}

func (s *Store) currencyIndex(code string) int {
	for i, c := range s.doc.Currencies {
		if c.Code == code {
			return i
		}
	}
	return -1
}

func (s *Store) accountIndex(id string) int {
	for i, a := range s.doc.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) transactionIndex(id string) int {
	for i, t := range s.doc.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// demoteDefaults clears IsDefault on every currency. Called before
// promoting a new default so the singleton invariant holds.
func (s *Store) demoteDefaults() {
	for _, c := range s.doc.Currencies {
		c.IsDefault = false
	}
}

// touch updates the document's lastModified stamp.
func (s *Store) touch() {
	if s.doc.Metadata != nil {
		s.doc.Metadata.LastModified = time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}
}

// failed builds a single-error validation result.
func failed(code, field, message string) *validate.Result {
	return &validate.Result{
		Valid:  false,
		Errors: []validate.FieldError{{Code: code, Field: field, Message: message}},
	}
}
