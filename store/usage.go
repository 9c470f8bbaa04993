package store

// Usage scans answer "is this entity referenced anywhere" before a deletion
// is allowed. They are full scans over the transaction list; record sets are
// small enough that an index would not pay for itself.

// AccountUsage returns the number of postings referencing the account.
func (s *Store) AccountUsage(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountUsage(id)
}

// CurrencyUsage returns the number of postings and accounts referencing the
// currency.
func (s *Store) CurrencyUsage(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencyUsage(code)
}

// RateUsage returns the number of postings referencing the currency on the
// given date, i.e. postings whose transaction is dated at the rate's date.
func (s *Store) RateUsage(code, date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateUsage(code, date)
}

func (s *Store) accountUsage(id string) int {
	count := 0
	for _, t := range s.doc.Transactions {
		for _, p := range t.Postings {
			if p.AccountID == id {
				count++
			}
		}
	}
	return count
}

func (s *Store) currencyUsage(code string) int {
	count := 0
	for _, a := range s.doc.Accounts {
		if a.Currency == code {
			count++
		}
	}
	for _, t := range s.doc.Transactions {
		for _, p := range t.Postings {
			if p.Currency == code {
				count++
			}
		}
	}
	return count
}

func (s *Store) rateUsage(code, date string) int {
	count := 0
	for _, t := range s.doc.Transactions {
		if t.Date != date {
			continue
		}
		for _, p := range t.Postings {
			if p.Currency == code {
				count++
			}
		}
	}
	return count
}
