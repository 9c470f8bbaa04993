package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coinbook/coinbook/record"
)

// Accounts validates an account set against the account rules: ID format and
// uniqueness, hierarchical name rules, type membership, currency existence,
// and open/close date ordering.
//
// Passing an empty currency list disables the currency-existence check
// entirely. That is a deliberate escape hatch for partial validation when no
// currency set is at hand.
func Accounts(accounts []*record.Account, currencies []*record.Currency) []Diagnostic {
	var diags []Diagnostic

	byCode := currencyCodes(currencies)

	for i, a := range accounts {
		diags = append(diags, checkAccountFields(a, i, byCode, len(currencies) > 0)...)
	}

	diags = append(diags, checkAccountUniqueness(accounts)...)

	return diags
}

// checkAccountFields runs the per-account checks.
func checkAccountFields(a *record.Account, index int, currencies map[string]bool, checkCurrency bool) []Diagnostic {
	var diags []Diagnostic

	if a.ID == "" {
		diags = append(diags, errorf(CodeAccountID,
			"account IDs look like acc_001",
			"account #%d has no ID", index+1))
	} else if !record.IsHierarchicalID(a.ID, record.AccountIDPrefix) {
		diags = append(diags, errorf(CodeAccountID,
			"account IDs look like acc_001",
			"account #%d ID %q does not match acc_<digits>", index+1, a.ID))
	}

	if a.Name == "" {
		diags = append(diags, errorf(CodeAccountName,
			"account names are colon-separated paths like Assets:Bank:CHF",
			"account %s has no name", accountRef(a, index)))
	} else {
		diags = append(diags, checkAccountName(a, index)...)
	}

	if a.Type == "" {
		diags = append(diags, errorf(CodeAccountType,
			"valid types: "+strings.Join(record.AccountTypes, ", "),
			"account %s has no type", accountRef(a, index)))
	} else if record.ParseAccountType(a.Type) == record.AccountTypeUnknown {
		diags = append(diags, errorf(CodeAccountType,
			"valid types: "+strings.Join(record.AccountTypes, ", "),
			"account %s type %q is not a known account type", accountRef(a, index), a.Type))
	}

	if a.Currency == "" {
		diags = append(diags, errorf(CodeAccountCurrency,
			"every account is denominated in one currency",
			"account %s has no currency", accountRef(a, index)))
	} else if checkCurrency && !currencies[a.Currency] {
		diags = append(diags, errorf(CodeAccountCurrencyExists,
			"add the currency first or fix the account's currency code",
			"account %s references unknown currency %s", accountRef(a, index), a.Currency))
	}

	// Opened is optional at set granularity; only its format is checked.
	if a.Opened != "" && !record.IsCalendarDate(a.Opened) {
		diags = append(diags, errorf(CodeAccountOpened,
			"use a YYYY-MM-DD date",
			"account %s opened date %q is not a valid date", accountRef(a, index), a.Opened))
	}

	if a.Closed {
		switch {
		case a.ClosedDate == "":
			diags = append(diags, errorf(CodeAccountClosedDate,
				"closed accounts need a closedDate",
				"account %s is closed but has no closedDate", accountRef(a, index)))
		case !record.IsCalendarDate(a.ClosedDate):
			diags = append(diags, errorf(CodeAccountClosedDate,
				"use a YYYY-MM-DD date",
				"account %s closedDate %q is not a valid date", accountRef(a, index), a.ClosedDate))
		default:
			opened, ok := record.ParseCalendarDate(a.Opened)
			if ok {
				closed, _ := record.ParseCalendarDate(a.ClosedDate)
				if closed.Before(opened) {
					diags = append(diags, errorf(CodeAccountClosedOrder,
						"an account cannot close before it opened",
						"account %s closed on %s, before it opened on %s",
						accountRef(a, index), a.ClosedDate, a.Opened))
				}
			}
		}
	}

	return diags
}

// checkAccountName validates the hierarchical name shape: at least two
// segments, first segment spelling the declared type, no empty segments.
func checkAccountName(a *record.Account, index int) []Diagnostic {
	var diags []Diagnostic
	segments := a.NameSegments()

	if len(segments) < 2 {
		diags = append(diags, errorf(CodeAccountNameSegments,
			"use at least two segments, e.g. Assets:Bank",
			"account %s name %q has fewer than two segments", accountRef(a, index), a.Name))
	}

	if a.Type != "" && segments[0] != a.Type {
		diags = append(diags, errorf(CodeAccountNameType,
			"the first name segment must equal the account type",
			"account %s name starts with %q but its type is %q", accountRef(a, index), segments[0], a.Type))
	}

	for _, seg := range segments {
		if seg == "" {
			diags = append(diags, errorf(CodeAccountNameEmptyPart,
				"remove empty segments from the account name",
				"account %s name %q contains an empty segment", accountRef(a, index), a.Name))
			break
		}
	}

	return diags
}

// checkAccountUniqueness enforces globally unique IDs and names.
func checkAccountUniqueness(accounts []*record.Account) []Diagnostic {
	var diags []Diagnostic

	firstID := make(map[string]int, len(accounts))
	firstName := make(map[string]int, len(accounts))
	for i, a := range accounts {
		if a.ID != "" {
			if first, ok := firstID[a.ID]; ok {
				diags = append(diags, errorf(CodeAccountIDDuplicate,
					"account IDs must be unique",
					"account ID %s appears at positions %d and %d", a.ID, first+1, i+1))
			} else {
				firstID[a.ID] = i
			}
		}
		if a.Name != "" {
			if first, ok := firstName[a.Name]; ok {
				diags = append(diags, errorf(CodeAccountNameDuplicate,
					"account names must be unique",
					"account name %q appears at positions %d and %d", a.Name, first+1, i+1))
			} else {
				firstName[a.Name] = i
			}
		}
	}

	return diags
}

// NewAccount validates a candidate account against the existing set,
// returning field-tagged errors. Unlike set validation, the opened date is
// mandatory here. The candidate carries no ID yet, so ID checks are skipped.
func NewAccount(candidate *record.Account, existing []*record.Account, currencies []*record.Currency) *Result {
	res := newResult()
	if candidate == nil {
		res.fail(CodeAccountName, "name", "no account given")
		return res
	}

	if candidate.Name == "" {
		res.fail(CodeAccountName, "name", "name is required")
	} else {
		segments := candidate.NameSegments()
		if len(segments) < 2 {
			res.fail(CodeAccountNameSegments, "name", "name needs at least two segments, e.g. Assets:Bank")
		}
		if candidate.Type != "" && segments[0] != candidate.Type {
			res.fail(CodeAccountNameType, "name", "name must start with %q", candidate.Type)
		}
		for _, seg := range segments {
			if seg == "" {
				res.fail(CodeAccountNameEmptyPart, "name", "name contains an empty segment")
				break
			}
		}
		for _, a := range existing {
			if a.Name == candidate.Name {
				res.fail(CodeAccountNameDuplicate, "name", "an account named %q already exists", candidate.Name)
				break
			}
		}
	}

	if candidate.Type == "" {
		res.fail(CodeAccountType, "type", "type is required")
	} else if record.ParseAccountType(candidate.Type) == record.AccountTypeUnknown {
		res.fail(CodeAccountType, "type", "type must be one of %s", strings.Join(record.AccountTypes, ", "))
	}

	if candidate.Currency == "" {
		res.fail(CodeAccountCurrency, "currency", "currency is required")
	} else if len(currencies) > 0 && !currencyCodes(currencies)[candidate.Currency] {
		res.fail(CodeAccountCurrencyExists, "currency", "unknown currency %s", candidate.Currency)
	}

	if candidate.Opened == "" {
		res.fail(CodeAccountOpened, "opened", "opened date is required")
	} else if !record.IsCalendarDate(candidate.Opened) {
		res.fail(CodeAccountOpened, "opened", "opened must be a valid YYYY-MM-DD date")
	}

	return res
}

// GenerateAccountID returns the next sequential account ID. Malformed or
// missing IDs are ignored; gaps in the sequence are not reused. The
// three-digit padding is cosmetic, IDs past acc_999 simply grow wider.
func GenerateAccountID(accounts []*record.Account) string {
	highest := 0
	for _, a := range accounts {
		highest = maxSuffix(highest, a.ID, record.AccountIDPrefix)
	}
	return fmt.Sprintf("%s_%03d", record.AccountIDPrefix, highest+1)
}

// maxSuffix returns the larger of current and the numeric suffix of id, if
// id matches the hierarchical pattern for prefix.
func maxSuffix(current int, id, prefix string) int {
	if !record.IsHierarchicalID(id, prefix) {
		return current
	}
	n, err := strconv.Atoi(id[len(prefix)+1:])
	if err != nil || n <= current {
		return current
	}
	return n
}

// accountRef names an account for messages, preferring ID, then name.
func accountRef(a *record.Account, index int) string {
	if a.ID != "" {
		return a.ID
	}
	if a.Name != "" {
		return fmt.Sprintf("%q", a.Name)
	}
	return "#" + strconv.Itoa(index+1)
}

// currencyCodes builds a lookup set of currency codes.
func currencyCodes(currencies []*record.Currency) map[string]bool {
	codes := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		codes[c.Code] = true
	}
	return codes
}
