// Package validate implements the rule engines for a coinbook record set:
// currency rules, account rules, transaction and posting rules (including
// the multi-currency balance algorithm), and the file-level structural
// validator that composes them into a single report.
//
// Validation never fails fast. Every engine runs to completion and reports
// all violations it finds, so a caller can surface the complete list in one
// round trip. Rule violations are values, not errors; nothing in this
// package panics on malformed business data.
package validate

import "fmt"

// Severity classifies a diagnostic. Only error-severity diagnostics block an
// operation; warnings and infos are advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single structured validation finding.
type Diagnostic struct {
	Code       string         `json:"code"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Diagnostic codes, grouped by engine. Codes are stable identifiers; the
// message text may change between releases, the code never does.
const (
	// Currency rules.
	CodeCurrencySetEmpty       = "CUR_001"
	CodeCurrencyCode           = "CUR_002"
	CodeCurrencyName           = "CUR_003"
	CodeCurrencySymbol         = "CUR_004"
	CodeCurrencyDecimalPlaces  = "CUR_005"
	CodeCurrencyDefault        = "CUR_006"
	CodeCurrencyDuplicate      = "CUR_007"
	CodeCurrencyDefaultRates   = "CUR_008"
	CodeRateDate               = "CUR_009"
	CodeRateNotPositive        = "CUR_010"
	CodeRateIdentity           = "CUR_011"
	CodeRateDuplicateDate      = "CUR_012"
	CodeCurrencyMetadataClash  = "CUR_013"

	// Account rules.
	CodeAccountID             = "ACC_001"
	CodeAccountIDDuplicate    = "ACC_002"
	CodeAccountName           = "ACC_003"
	CodeAccountNameSegments   = "ACC_004"
	CodeAccountNameType       = "ACC_005"
	CodeAccountNameEmptyPart  = "ACC_006"
	CodeAccountNameDuplicate  = "ACC_007"
	CodeAccountType           = "ACC_008"
	CodeAccountCurrency       = "ACC_009"
	CodeAccountCurrencyExists = "ACC_010"
	CodeAccountOpened         = "ACC_011"
	CodeAccountClosedDate     = "ACC_012"
	CodeAccountClosedOrder    = "ACC_013"

	// Transaction and posting rules.
	CodeTransactionID          = "TXN_001"
	CodeTransactionIDDuplicate = "TXN_002"
	CodeTransactionDate        = "TXN_003"
	CodeTransactionFutureDate  = "TXN_004"
	CodeTransactionDescription = "TXN_005"
	CodeTransactionPostings    = "TXN_006"
	CodePostingAccount         = "TXN_007"
	CodePostingCurrency        = "TXN_008"
	CodePostingBeforeOpen      = "TXN_009"
	CodePostingAfterClose      = "TXN_010"
	CodePostingAmount          = "TXN_011"
	CodePostingPrecision       = "TXN_012"
	CodePostingRate            = "TXN_013"
	CodePostingEquivalent      = "TXN_014"
	CodeBalance                = "TXN_015"
	CodeBalanceMissingRate     = "TXN_016"

	// File-level structural rules.
	CodeFileVersion         = "FILE_001"
	CodeFileSection         = "FILE_002"
	CodeFileMetadata        = "FILE_003"
	CodeFileCurrencyFormat  = "FILE_004"
	CodeFileAccountName     = "FILE_005"
)

// errorf builds an error-severity diagnostic.
func errorf(code, suggestion, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:       code,
		Severity:   SeverityError,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	}
}

// warnf builds a warning-severity diagnostic.
func warnf(code, suggestion, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:       code,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	}
}

// HasErrors reports whether any diagnostic in the list is error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FieldError is the lighter diagnostic shape returned by the single-entity
// validators. All field errors block; warnings travel separately on Result.
type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// Result is the outcome of a single-entity validation. Warnings never flip
// Valid to false.
type Result struct {
	Valid    bool
	Errors   []FieldError
	Warnings []FieldError
}

func newResult() *Result {
	return &Result{Valid: true}
}

func (r *Result) fail(code, field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, FieldError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warn(code, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, FieldError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}
