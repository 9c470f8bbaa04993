package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinbook/coinbook/record"
)

// balanceTolerance is the fixed epsilon for the balance algorithm. It is a
// literal constant, the same absolute tolerance for every currency
// regardless of its decimal precision.
var balanceTolerance = decimal.NewFromFloat(0.01)

// Transactions validates a transaction set against the transaction and
// posting rules: ID format and uniqueness, date checks, description
// presence, minimum posting count, per-posting referential and range checks,
// and the multi-currency balance algorithm.
func Transactions(txns []*record.Transaction, accounts []*record.Account, currencies []*record.Currency) []Diagnostic {
	var diags []Diagnostic

	byID := make(map[string]*record.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	byCode := make(map[string]*record.Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}

	for i, t := range txns {
		diags = append(diags, checkTransaction(t, i, byID, byCode)...)
	}

	diags = append(diags, checkTransactionUniqueness(txns)...)

	return diags
}

// checkTransaction runs all checks for one transaction.
func checkTransaction(t *record.Transaction, index int, accounts map[string]*record.Account, currencies map[string]*record.Currency) []Diagnostic {
	var diags []Diagnostic

	if t.ID == "" {
		diags = append(diags, errorf(CodeTransactionID,
			"transaction IDs look like txn_001",
			"transaction #%d has no ID", index+1))
	} else if !record.IsHierarchicalID(t.ID, record.TransactionIDPrefix) {
		diags = append(diags, errorf(CodeTransactionID,
			"transaction IDs look like txn_001",
			"transaction #%d ID %q does not match txn_<digits>", index+1, t.ID))
	}

	txnDate, dateOK := time.Time{}, false
	switch {
	case t.Date == "":
		diags = append(diags, errorf(CodeTransactionDate,
			"use a YYYY-MM-DD date",
			"transaction %s has no date", transactionRef(t, index)))
	case !record.IsCalendarDate(t.Date):
		diags = append(diags, errorf(CodeTransactionDate,
			"use a YYYY-MM-DD date",
			"transaction %s date %q is not a valid date", transactionRef(t, index), t.Date))
	default:
		txnDate, _ = record.ParseCalendarDate(t.Date)
		dateOK = true
		if txnDate.After(today()) {
			diags = append(diags, warnf(CodeTransactionFutureDate,
				"future-dated transactions are unusual; check the date",
				"transaction %s is dated %s, in the future", transactionRef(t, index), t.Date))
		}
	}

	if isBlank(t.Description) {
		diags = append(diags, errorf(CodeTransactionDescription,
			"describe what the transaction was for",
			"transaction %s has a blank description", transactionRef(t, index)))
	}

	// Below two postings there is no double entry to check; skip the
	// per-posting and balance rules for this transaction.
	if len(t.Postings) < 2 {
		diags = append(diags, errorf(CodeTransactionPostings,
			"a double-entry transaction needs at least two postings",
			"transaction %s has %d posting(s), expected at least 2", transactionRef(t, index), len(t.Postings)))
		return diags
	}

	for j, p := range t.Postings {
		diags = append(diags, checkPosting(t, index, p, j, txnDate, dateOK, accounts, currencies)...)
	}

	diags = append(diags, checkBalance(t, index)...)

	return diags
}

// checkPosting runs the per-posting checks: account existence, currency
// match, date range against the account's lifetime, amount presence,
// decimal precision, and exchange-rate consistency.
func checkPosting(t *record.Transaction, index int, p *record.Posting, pos int, txnDate time.Time, dateOK bool, accounts map[string]*record.Account, currencies map[string]*record.Currency) []Diagnostic {
	var diags []Diagnostic

	account := accounts[p.AccountID]
	if p.AccountID == "" {
		diags = append(diags, errorf(CodePostingAccount,
			"every posting references an account by ID",
			"transaction %s posting #%d has no account", transactionRef(t, index), pos+1))
	} else if account == nil {
		diags = append(diags, errorf(CodePostingAccount,
			"add the account first or fix the posting's accountId",
			"transaction %s posting #%d references unknown account %s", transactionRef(t, index), pos+1, p.AccountID))
	}

	if account != nil {
		if p.Currency != account.Currency {
			diags = append(diags, errorf(CodePostingCurrency,
				"a posting's currency must match its account's currency",
				"transaction %s posting #%d uses %s but account %s is denominated in %s",
				transactionRef(t, index), pos+1, p.Currency, account.ID, account.Currency))
		}

		if dateOK {
			if opened, ok := record.ParseCalendarDate(account.Opened); ok && txnDate.Before(opened) {
				diags = append(diags, errorf(CodePostingBeforeOpen,
					"transactions cannot predate the account's opened date",
					"transaction %s posting #%d is dated %s, before account %s opened on %s",
					transactionRef(t, index), pos+1, t.Date, account.ID, account.Opened))
			}
			if account.Closed {
				if closed, ok := record.ParseCalendarDate(account.ClosedDate); ok && txnDate.After(closed) {
					diags = append(diags, errorf(CodePostingAfterClose,
						"transactions cannot postdate the account's closedDate",
						"transaction %s posting #%d is dated %s, after account %s closed on %s",
						transactionRef(t, index), pos+1, t.Date, account.ID, account.ClosedDate))
				}
			}
		}
	}

	if p.Amount.IsZero() {
		diags = append(diags, errorf(CodePostingAmount,
			"every posting moves a non-zero amount",
			"transaction %s posting #%d has a zero or missing amount", transactionRef(t, index), pos+1))
	} else if cur := currencies[p.Currency]; cur != nil && cur.DecimalPlaces != nil {
		// The decimal exponent preserves how many fraction digits the raw
		// amount was written with.
		if digits := fractionDigits(p.Amount); float64(digits) > *cur.DecimalPlaces {
			diags = append(diags, errorf(CodePostingPrecision,
				fmt.Sprintf("%s amounts carry at most %v decimal place(s)", p.Currency, *cur.DecimalPlaces),
				"transaction %s posting #%d amount %s has %d decimal places, more than %s allows",
				transactionRef(t, index), pos+1, p.Amount, digits, p.Currency))
		}
	}

	if p.ExchangeRate != nil {
		if !p.ExchangeRate.Rate.IsPositive() {
			diags = append(diags, errorf(CodePostingRate,
				"exchange rates must be greater than zero",
				"transaction %s posting #%d has a non-positive exchange rate %s",
				transactionRef(t, index), pos+1, p.ExchangeRate.Rate))
		} else if p.ExchangeRate.EquivalentAmount.Valid {
			want := p.Amount.Mul(p.ExchangeRate.Rate)
			got := p.ExchangeRate.EquivalentAmount.Decimal
			if got.Sub(want).Abs().GreaterThan(balanceTolerance) {
				diags = append(diags, errorf(CodePostingEquivalent,
					"equivalentAmount must equal amount times rate",
					"transaction %s posting #%d equivalentAmount %s does not match %s x %s = %s",
					transactionRef(t, index), pos+1, got, p.Amount, p.ExchangeRate.Rate, want))
			}
		}
	}

	return diags
}

// checkBalance runs the balance algorithm: per-currency sums must be within
// the fixed tolerance of zero, and a transaction spanning more than one
// currency must carry exchange-rate information on at least one posting.
// The two rules are independent; a multi-currency transaction with
// individually balanced sums still errors without a rate annotation.
func checkBalance(t *record.Transaction, index int) []Diagnostic {
	var diags []Diagnostic

	balances := CurrencyBalances(t)

	for _, code := range sortedBalanceCodes(balances) {
		sum := balances[code]
		if sum.Abs().GreaterThan(balanceTolerance) {
			diags = append(diags, errorf(CodeBalance,
				"per-currency posting amounts must sum to zero",
				"transaction %s does not balance: %s %s", transactionRef(t, index), sum.StringFixed(2), code))
		}
	}

	// Multi-currency means more than one named currency; postings without a
	// currency group under the blank key in balances but do not count here.
	if codes := t.Currencies(); len(codes) > 1 && !t.HasExchangeRate() {
		diags = append(diags, errorf(CodeBalanceMissingRate,
			"annotate at least one posting with an exchange rate",
			"transaction %s spans %d currencies without exchange rate information",
			transactionRef(t, index), len(codes)))
	}

	return diags
}

// checkTransactionUniqueness enforces globally unique transaction IDs.
func checkTransactionUniqueness(txns []*record.Transaction) []Diagnostic {
	var diags []Diagnostic
	firstSeen := make(map[string]int, len(txns))
	for i, t := range txns {
		if t.ID == "" {
			continue
		}
		if first, ok := firstSeen[t.ID]; ok {
			diags = append(diags, errorf(CodeTransactionIDDuplicate,
				"transaction IDs must be unique",
				"transaction ID %s appears at positions %d and %d", t.ID, first+1, i+1))
			continue
		}
		firstSeen[t.ID] = i
	}
	return diags
}

// CurrencyBalances groups the transaction's postings by currency and sums
// their amounts. Postings without a currency are grouped under the empty
// string; missing amounts contribute zero.
func CurrencyBalances(t *record.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, p := range t.Postings {
		balances[p.Currency] = balances[p.Currency].Add(p.Amount)
	}
	return balances
}

// WithinTolerance reports whether every per-currency sum is within the
// balance tolerance of zero. This is the narrow arithmetic check only; it
// deliberately ignores the multi-currency exchange-rate requirement.
func WithinTolerance(t *record.Transaction) bool {
	for _, sum := range CurrencyBalances(t) {
		if sum.Abs().GreaterThan(balanceTolerance) {
			return false
		}
	}
	return true
}

// SumPositivePostings sums all positive posting amounts. It serves as a
// transaction's face amount for sorting and display. This is an
// approximation, not a double-entry "amount": mixed-currency positives are
// added together as plain numbers.
func SumPositivePostings(t *record.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.Postings {
		if p.Amount.IsPositive() {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// NewTransaction validates a candidate transaction against the existing set,
// returning field-tagged errors. All checks run even when one has already
// failed, so callers can surface the complete list alongside any
// store-level findings.
func NewTransaction(candidate *record.Transaction, existing []*record.Transaction, accounts []*record.Account, currencies []*record.Currency) *Result {
	res := newResult()
	if candidate == nil {
		res.fail(CodeTransactionDate, "date", "no transaction given")
		return res
	}

	switch {
	case candidate.Date == "":
		res.fail(CodeTransactionDate, "date", "date is required")
	case !record.IsCalendarDate(candidate.Date):
		res.fail(CodeTransactionDate, "date", "date must be a valid YYYY-MM-DD date")
	default:
		if d, _ := record.ParseCalendarDate(candidate.Date); d.After(today()) {
			res.warn(CodeTransactionFutureDate, "date", "date is in the future")
		}
	}

	if isBlank(candidate.Description) {
		res.fail(CodeTransactionDescription, "description", "description is required")
	}

	if len(candidate.Postings) < 2 {
		res.fail(CodeTransactionPostings, "posting", "at least two postings are required")
		return res
	}

	byID := make(map[string]*record.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for j, p := range candidate.Postings {
		field := fmt.Sprintf("posting[%d]", j)
		account := byID[p.AccountID]
		if p.AccountID == "" {
			res.fail(CodePostingAccount, field, "account is required")
		} else if account == nil {
			res.fail(CodePostingAccount, field, "unknown account %s", p.AccountID)
		} else if p.Currency != account.Currency {
			res.fail(CodePostingCurrency, field, "currency %s does not match account currency %s", p.Currency, account.Currency)
		}
		if p.Amount.IsZero() {
			res.fail(CodePostingAmount, field, "amount must be non-zero")
		}
	}

	balances := CurrencyBalances(candidate)
	for _, code := range sortedBalanceCodes(balances) {
		if sum := balances[code]; sum.Abs().GreaterThan(balanceTolerance) {
			res.fail(CodeBalance, "posting", "postings do not balance: %s %s", sum.StringFixed(2), code)
		}
	}
	if len(candidate.Currencies()) > 1 && !candidate.HasExchangeRate() {
		res.fail(CodeBalanceMissingRate, "posting", "multi-currency transactions need an exchange rate on at least one posting")
	}

	return res
}

// GenerateTransactionID returns the next sequential transaction ID, using
// the same scheme as GenerateAccountID.
func GenerateTransactionID(txns []*record.Transaction) string {
	highest := 0
	for _, t := range txns {
		highest = maxSuffix(highest, t.ID, record.TransactionIDPrefix)
	}
	return fmt.Sprintf("%s_%03d", record.TransactionIDPrefix, highest+1)
}

// sortedBalanceCodes returns the balance map's currencies in a stable order
// for deterministic error lists.
func sortedBalanceCodes(balances map[string]decimal.Decimal) []string {
	codes := make([]string, 0, len(balances))
	for code := range balances {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// transactionRef names a transaction for messages, preferring the ID.
func transactionRef(t *record.Transaction, index int) string {
	if t.ID != "" {
		return t.ID
	}
	return "#" + strconv.Itoa(index+1)
}

// today returns local midnight of the current day. Future-date checks are
// strict: a transaction dated today is not flagged.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// fractionDigits reports how many fraction digits the decimal was written
// with. A negative exponent is the digit count; trailing zeros in the source
// are preserved by shopspring/decimal, so 1.50 reports 2.
func fractionDigits(d decimal.Decimal) int {
	if e := d.Exponent(); e < 0 {
		return int(-e)
	}
	return 0
}
