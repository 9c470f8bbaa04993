package record

import "strings"

// AccountType represents the category an account belongs to. The first
// segment of an account name must spell the same type.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAssets
	AccountTypeLiabilities
	AccountTypeIncome
	AccountTypeExpenses
	AccountTypeEquity
)

// String returns the string representation of the account type.
func (t AccountType) String() string {
	switch t {
	case AccountTypeAssets:
		return "Assets"
	case AccountTypeLiabilities:
		return "Liabilities"
	case AccountTypeIncome:
		return "Income"
	case AccountTypeExpenses:
		return "Expenses"
	case AccountTypeEquity:
		return "Equity"
	default:
		return "Unknown"
	}
}

// AccountTypes lists every valid account type name.
var AccountTypes = []string{"Assets", "Liabilities", "Income", "Expenses", "Equity"}

// ParseAccountType parses an account type name. Unrecognized names return
// AccountTypeUnknown.
func ParseAccountType(name string) AccountType {
	switch name {
	case "Assets":
		return AccountTypeAssets
	case "Liabilities":
		return AccountTypeLiabilities
	case "Income":
		return AccountTypeIncome
	case "Expenses":
		return AccountTypeExpenses
	case "Equity":
		return AccountTypeEquity
	default:
		return AccountTypeUnknown
	}
}

// Account represents an account in the record set. Names are colon-separated
// hierarchical paths whose first segment equals the declared type, e.g.
// "Assets:Bank:CHF". IDs follow the "acc_<digits>" scheme and are assigned
// sequentially on creation.
type Account struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Currency    string            `json:"currency"`
	Opened      string            `json:"opened"`
	Closed      bool              `json:"closed"`
	ClosedDate  string            `json:"closedDate,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NameSegments splits the hierarchical account name into its segments.
func (a *Account) NameSegments() []string {
	return strings.Split(a.Name, ":")
}

// AccountIDPrefix and TransactionIDPrefix are the hierarchical ID prefixes
// used by the sequential ID generators.
const (
	AccountIDPrefix     = "acc"
	TransactionIDPrefix = "txn"
)
