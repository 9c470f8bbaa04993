package validate

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/coinbook/coinbook/record"
)

// Stats counts the entities in a document. Sections that are absent count
// as zero.
type Stats struct {
	Currencies   int `json:"currencies"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
	Recurring    int `json:"recurring"`
}

// DocumentResult is the aggregated outcome of validating a whole document.
type DocumentResult struct {
	Valid    bool
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
	Stats    Stats
	Report   string
}

// Document validates a whole record set. It checks the document's own
// structure (version, required sections, metadata timestamps), fans out to
// the three rule engines, and aggregates everything into a single result
// with counts and a human-readable report.
//
// The structural pass runs its own reduced currency-code and account-name
// checks in addition to the full engines. The two rule sets diverge on
// purpose; the reduced checks mirror what the persisted format has always
// enforced at the file level.
func Document(doc *record.Document) *DocumentResult {
	res := &DocumentResult{Valid: true}
	if doc == nil {
		res.Valid = false
		res.Errors = append(res.Errors, errorf(CodeFileSection,
			"load a document before validating", "no document given"))
		res.Report = buildReport(res)
		return res
	}

	var diags []Diagnostic
	diags = append(diags, checkStructure(doc)...)
	diags = append(diags, Currencies(doc.Currencies, doc.Metadata)...)
	diags = append(diags, Accounts(doc.Accounts, doc.Currencies)...)
	diags = append(diags, Transactions(doc.Transactions, doc.Accounts, doc.Currencies)...)

	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			res.Errors = append(res.Errors, d)
		case SeverityWarning:
			res.Warnings = append(res.Warnings, d)
		default:
			res.Infos = append(res.Infos, d)
		}
	}

	res.Valid = len(res.Errors) == 0
	res.Stats = Stats{
		Currencies:   len(doc.Currencies),
		Accounts:     len(doc.Accounts),
		Transactions: len(doc.Transactions),
		Budgets:      len(doc.Budgets),
		Recurring:    len(doc.Recurring),
	}
	res.Report = buildReport(res)

	return res
}

// checkStructure validates the document shell: version, required sections,
// metadata timestamps, and the reduced per-entity format checks.
func checkStructure(doc *record.Document) []Diagnostic {
	var diags []Diagnostic

	switch {
	case doc.Version == "":
		diags = append(diags, errorf(CodeFileVersion,
			"set version to a MAJOR.MINOR.PATCH string",
			"document has no version"))
	case !record.IsSemver(doc.Version):
		diags = append(diags, errorf(CodeFileVersion,
			"set version to a MAJOR.MINOR.PATCH string",
			"document version %q is not a valid version string", doc.Version))
	}

	for _, section := range record.RequiredSections {
		var present bool
		switch section {
		case "metadata":
			present = doc.Metadata != nil
		case "currency":
			present = doc.Currencies != nil
		}
		if !present {
			diags = append(diags, errorf(CodeFileSection,
				"the document is missing a required top-level section",
				"required section %q is missing", section))
		}
	}

	if doc.Metadata != nil {
		if doc.Metadata.Created == "" || !record.IsISO8601(doc.Metadata.Created) {
			diags = append(diags, errorf(CodeFileMetadata,
				"metadata timestamps are ISO 8601",
				"metadata.created %q is not a valid timestamp", doc.Metadata.Created))
		}
		if doc.Metadata.LastModified == "" || !record.IsISO8601(doc.Metadata.LastModified) {
			diags = append(diags, errorf(CodeFileMetadata,
				"metadata timestamps are ISO 8601",
				"metadata.lastModified %q is not a valid timestamp", doc.Metadata.LastModified))
		}
	}

	// Reduced checks, narrower than the full engines on purpose.
	for i, c := range doc.Currencies {
		if !record.IsCurrencyCode(c.Code) {
			diags = append(diags, errorf(CodeFileCurrencyFormat,
				"currency codes are three uppercase letters",
				"currency #%d code %q has an invalid format", i+1, c.Code))
		}
	}
	for i, a := range doc.Accounts {
		if strings.TrimSpace(a.Name) == "" {
			diags = append(diags, errorf(CodeFileAccountName,
				"every account needs a name",
				"account #%d has a blank name", i+1))
		}
	}

	return diags
}

// buildReport renders the result as a multi-line human-readable report.
func buildReport(res *DocumentResult) string {
	var b strings.Builder

	if res.Valid {
		b.WriteString("Validation passed.\n\n")
		writeStatLine(&b, "Currencies", res.Stats.Currencies)
		writeStatLine(&b, "Accounts", res.Stats.Accounts)
		writeStatLine(&b, "Transactions", res.Stats.Transactions)
		writeStatLine(&b, "Budgets", res.Stats.Budgets)
		writeStatLine(&b, "Recurring", res.Stats.Recurring)
	} else {
		fmt.Fprintf(&b, "Validation failed with %d error(s).\n\n", len(res.Errors))
		for _, d := range res.Errors {
			fmt.Fprintf(&b, "  [%s] %s\n", d.Code, d.Message)
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%d warning(s):\n", len(res.Warnings))
		for _, d := range res.Warnings {
			fmt.Fprintf(&b, "  [%s] %s\n", d.Code, d.Message)
		}
	}
	if len(res.Infos) > 0 {
		fmt.Fprintf(&b, "\n%d note(s):\n", len(res.Infos))
		for _, d := range res.Infos {
			fmt.Fprintf(&b, "  [%s] %s\n", d.Code, d.Message)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// statLabelWidth aligns the stats block; wide enough for every label.
const statLabelWidth = 14

func writeStatLine(b *strings.Builder, label string, count int) {
	fmt.Fprintf(b, "  %s %d\n", runewidth.FillRight(label, statLabelWidth), count)
}
