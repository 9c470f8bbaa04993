package store

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/coinbook/coinbook/record"
)

func places(v float64) *float64 {
	return &v
}

func currency(code string, isDefault bool) *record.Currency {
	return &record.Currency{
		Code:          code,
		Name:          code + " Currency",
		Symbol:        code,
		DecimalPlaces: places(2),
		IsDefault:     isDefault,
	}
}

func account(id, name, typ string) *record.Account {
	return &record.Account{
		ID:       id,
		Name:     name,
		Type:     typ,
		Currency: "CHF",
		Opened:   "2024-01-01",
	}
}

func posting(accountID, amount string) *record.Posting {
	return &record.Posting{
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "CHF",
	}
}

// testStore builds a store over a small valid document: two accounts and one
// transaction between them.
func testStore() *Store {
	return New(&record.Document{
		Version: "1.0.0",
		Metadata: &record.Metadata{
			Created:         "2024-01-01T09:00:00Z",
			LastModified:    "2024-01-01T09:00:00Z",
			DefaultCurrency: "CHF",
		},
		Currencies: []*record.Currency{currency("CHF", true), currency("EUR", false)},
		Accounts: []*record.Account{
			account("acc_001", "Assets:Bank:Checking", "Assets"),
			account("acc_002", "Expenses:Food", "Expenses"),
		},
		Transactions: []*record.Transaction{{
			ID:          "txn_001",
			Date:        "2025-01-15",
			Description: "Groceries",
			Postings: []*record.Posting{
				posting("acc_001", "-42.50"),
				posting("acc_002", "42.50"),
			},
		}},
	})
}

func TestAddCurrency(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s := testStore()
		err := s.AddCurrency(currency("USD", false))
		assert.NoError(t, err)
		assert.Equal(t, 3, len(s.Document().Currencies))
	})

	t.Run("Duplicate", func(t *testing.T) {
		s := testStore()
		err := s.AddCurrency(currency("CHF", false))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, 2, len(s.Document().Currencies))
	})

	t.Run("NewDefaultDemotesOld", func(t *testing.T) {
		s := testStore()
		err := s.AddCurrency(currency("USD", true))
		assert.NoError(t, err)

		var defaults []string
		for _, c := range s.Document().Currencies {
			if c.IsDefault {
				defaults = append(defaults, c.Code)
			}
		}
		assert.Equal(t, []string{"USD"}, defaults)
	})
}

func TestUpdateCurrency(t *testing.T) {
	t.Run("CodeIsImmutable", func(t *testing.T) {
		s := testStore()
		updated := currency("XYZ", false)
		err := s.UpdateCurrency("EUR", updated)
		assert.NoError(t, err)
		assert.Equal(t, "EUR", updated.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := testStore()
		err := s.UpdateCurrency("JPY", currency("JPY", false))
		var nferr *NotFoundError
		assert.True(t, errors.As(err, &nferr))
	})
}

func TestDeleteCurrency(t *testing.T) {
	t.Run("DefaultBlocked", func(t *testing.T) {
		s := testStore()
		err := s.DeleteCurrency("CHF")
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr))
	})

	t.Run("ReferencedBlocked", func(t *testing.T) {
		s := testStore()
		a := &record.Account{
			Name: "Assets:Bank:EUR", Type: "Assets", Currency: "EUR", Opened: "2024-01-01",
		}
		_, err := s.AddAccount(a)
		assert.NoError(t, err)

		err = s.DeleteCurrency("EUR")
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr))
		assert.Equal(t, 1, uerr.Count)
	})

	t.Run("Unreferenced", func(t *testing.T) {
		s := testStore()
		assert.NoError(t, s.DeleteCurrency("EUR"))
		assert.Equal(t, 1, len(s.Document().Currencies))
	})
}

func TestExchangeRates(t *testing.T) {
	rate := &record.ExchangeRate{Date: "2025-01-15", Rate: decimal.RequireFromString("0.93")}

	t.Run("AddAndDelete", func(t *testing.T) {
		s := testStore()
		assert.NoError(t, s.AddExchangeRate("EUR", rate))
		assert.NoError(t, s.DeleteExchangeRate("EUR", "2025-01-15"))
	})

	t.Run("AddToDefaultRejected", func(t *testing.T) {
		s := testStore()
		err := s.AddExchangeRate("CHF", rate)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("DeleteReferencedBlocked", func(t *testing.T) {
		s := testStore()
		assert.NoError(t, s.AddExchangeRate("EUR", rate))

		// A posting in EUR on the rate's date pins the rate.
		a := &record.Account{
			Name: "Assets:Bank:EUR", Type: "Assets", Currency: "EUR", Opened: "2024-01-01",
		}
		id, err := s.AddAccount(a)
		assert.NoError(t, err)

		txn := &record.Transaction{
			Date:        "2025-01-15",
			Description: "Transfer",
			Postings: []*record.Posting{
				{AccountID: id, Amount: decimal.RequireFromString("-100.00"), Currency: "EUR",
					ExchangeRate: &record.PostingRate{Rate: decimal.RequireFromString("0.93")}},
				{AccountID: id, Amount: decimal.RequireFromString("100.00"), Currency: "EUR"},
			},
		}
		_, err = s.AddTransaction(txn)
		assert.NoError(t, err)

		err = s.DeleteExchangeRate("EUR", "2025-01-15")
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr))
		assert.Equal(t, 2, uerr.Count)
	})
}

func TestAddAccountAssignsSequentialID(t *testing.T) {
	s := testStore()

	a := &record.Account{Name: "Assets:Cash", Type: "Assets", Currency: "CHF", Opened: "2025-01-01"}
	id, err := s.AddAccount(a)
	assert.NoError(t, err)
	assert.Equal(t, "acc_003", id)
	assert.Equal(t, "acc_003", a.ID)

	b := &record.Account{Name: "Equity:Opening", Type: "Equity", Currency: "CHF", Opened: "2025-01-01"}
	id, err = s.AddAccount(b)
	assert.NoError(t, err)
	assert.Equal(t, "acc_004", id)
}

func TestAddAccountRejectsInvalid(t *testing.T) {
	s := testStore()
	_, err := s.AddAccount(&record.Account{Name: "Assets:Bank:Checking", Type: "Assets", Currency: "CHF", Opened: "2025-01-01"})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, len(s.Document().Accounts))
}

func TestCloseAndReopenAccount(t *testing.T) {
	s := testStore()

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, s.CloseAccount("acc_002", "2025-06-30"))
		a := s.Document().Accounts[1]
		assert.True(t, a.Closed)
		assert.Equal(t, "2025-06-30", a.ClosedDate)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		err := s.CloseAccount("acc_002", "2025-07-01")
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("Reopen", func(t *testing.T) {
		assert.NoError(t, s.ReopenAccount("acc_002"))
		a := s.Document().Accounts[1]
		assert.False(t, a.Closed)
		assert.Equal(t, "", a.ClosedDate)
	})

	t.Run("ReopenNotClosed", func(t *testing.T) {
		err := s.ReopenAccount("acc_002")
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("CloseBeforeOpened", func(t *testing.T) {
		err := s.CloseAccount("acc_002", "2023-01-01")
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("ReferencedBlocked", func(t *testing.T) {
		s := testStore()
		err := s.DeleteAccount("acc_001")
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr))
		assert.Equal(t, 1, uerr.Count)
		assert.Equal(t, "account", uerr.Kind)
		assert.Equal(t, 2, len(s.Document().Accounts))
	})

	t.Run("ReferencedByTwoPostings", func(t *testing.T) {
		s := testStore()
		txn := &record.Transaction{
			Date:        "2025-02-01",
			Description: "Rent",
			Postings: []*record.Posting{
				posting("acc_001", "-1200.00"),
				posting("acc_002", "1200.00"),
			},
		}
		_, err := s.AddTransaction(txn)
		assert.NoError(t, err)

		err = s.DeleteAccount("acc_001")
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr))
		assert.Equal(t, 2, uerr.Count)
		assert.Equal(t, map[string]any{"type": "account", "count": 2}, uerr.Details())
	})

	t.Run("UnreferencedAfterTransactionRemoval", func(t *testing.T) {
		s := testStore()
		assert.NoError(t, s.DeleteTransaction("txn_001"))
		assert.NoError(t, s.DeleteAccount("acc_001"))
		assert.Equal(t, 1, len(s.Document().Accounts))
	})

	t.Run("NotFound", func(t *testing.T) {
		s := testStore()
		err := s.DeleteAccount("acc_999")
		var nferr *NotFoundError
		assert.True(t, errors.As(err, &nferr))
	})
}

func TestAddTransactionAssignsSequentialID(t *testing.T) {
	s := testStore()
	txn := &record.Transaction{
		Date:        "2025-02-01",
		Description: "Lunch",
		Postings: []*record.Posting{
			posting("acc_001", "-18.00"),
			posting("acc_002", "18.00"),
		},
	}
	id, err := s.AddTransaction(txn)
	assert.NoError(t, err)
	assert.Equal(t, "txn_002", id)
	assert.Equal(t, 2, len(s.Document().Transactions))
}

func TestAddTransactionRejectsUnbalanced(t *testing.T) {
	s := testStore()
	txn := &record.Transaction{
		Date:        "2025-02-01",
		Description: "Lunch",
		Postings: []*record.Posting{
			posting("acc_001", "-18.00"),
			posting("acc_002", "17.00"),
		},
	}
	_, err := s.AddTransaction(txn)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, len(s.Document().Transactions))
}

func TestUpdateTransactionKeepsID(t *testing.T) {
	s := testStore()
	updated := &record.Transaction{
		Date:        "2025-01-16",
		Description: "Groceries, corrected",
		Postings: []*record.Posting{
			posting("acc_001", "-45.00"),
			posting("acc_002", "45.00"),
		},
	}
	assert.NoError(t, s.UpdateTransaction("txn_001", updated))
	assert.Equal(t, "txn_001", s.Document().Transactions[0].ID)
	assert.Equal(t, "Groceries, corrected", s.Document().Transactions[0].Description)
}

func TestMutationTouchesLastModified(t *testing.T) {
	s := testStore()
	before := s.Document().Metadata.LastModified
	assert.NoError(t, s.AddCurrency(currency("USD", false)))
	assert.NotEqual(t, before, s.Document().Metadata.LastModified)
}

func TestUsageScans(t *testing.T) {
	s := testStore()
	assert.Equal(t, 1, s.AccountUsage("acc_001"))
	assert.Equal(t, 0, s.AccountUsage("acc_999"))
	// Two accounts plus two postings are denominated in CHF.
	assert.Equal(t, 4, s.CurrencyUsage("CHF"))
	assert.Equal(t, 2, s.RateUsage("CHF", "2025-01-15"))
	assert.Equal(t, 0, s.RateUsage("CHF", "2025-01-16"))
}
