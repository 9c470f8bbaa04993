package validate

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coinbook/coinbook/record"
)

var identityRate = decimal.NewFromInt(1)

// Currencies validates a currency set against the currency rules: code
// format and uniqueness, required descriptive fields, decimal-place bounds,
// the single-default invariant, default/metadata consistency, and
// per-currency exchange-rate history constraints.
//
// All violations found are returned; the only early return is the fatal
// empty-set case, since nothing else can be checked without currencies.
func Currencies(currencies []*record.Currency, meta *record.Metadata) []Diagnostic {
	if len(currencies) == 0 {
		return []Diagnostic{errorf(CodeCurrencySetEmpty,
			"add at least one currency before validating",
			"currency set must be a non-empty list")}
	}

	var diags []Diagnostic

	for i, c := range currencies {
		diags = append(diags, checkCurrencyFields(c, i)...)
		diags = append(diags, checkRateHistory(c, i)...)
	}

	diags = append(diags, checkCurrencyUniqueness(currencies)...)
	diags = append(diags, checkDefaultSingleton(currencies, meta)...)

	return diags
}

// checkCurrencyFields runs the per-field checks for one currency.
func checkCurrencyFields(c *record.Currency, index int) []Diagnostic {
	var diags []Diagnostic

	if c.Code == "" {
		diags = append(diags, errorf(CodeCurrencyCode,
			"use a 3-letter uppercase code like CHF or EUR",
			"currency #%d has no code", index+1))
	} else if !record.IsCurrencyCode(c.Code) {
		diags = append(diags, errorf(CodeCurrencyCode,
			"use a 3-letter uppercase code like CHF or EUR",
			"currency #%d code %q is not three uppercase letters", index+1, c.Code))
	}

	if strings.TrimSpace(c.Name) == "" {
		diags = append(diags, errorf(CodeCurrencyName,
			"give the currency a display name",
			"currency %s has a blank name", currencyRef(c, index)))
	}

	if strings.TrimSpace(c.Symbol) == "" {
		diags = append(diags, errorf(CodeCurrencySymbol,
			"give the currency a symbol, e.g. $ or CHF",
			"currency %s has a blank symbol", currencyRef(c, index)))
	}

	// The bound is magnitude-only. Fractional values inside [0,8] pass; this
	// matches the persisted format's documented behavior.
	if c.DecimalPlaces == nil {
		diags = append(diags, errorf(CodeCurrencyDecimalPlaces,
			"set decimalPlaces between 0 and 8",
			"currency %s is missing decimalPlaces", currencyRef(c, index)))
	} else if *c.DecimalPlaces < record.MinDecimalPlaces || *c.DecimalPlaces > record.MaxDecimalPlaces {
		diags = append(diags, errorf(CodeCurrencyDecimalPlaces,
			"set decimalPlaces between 0 and 8",
			"currency %s decimalPlaces %v is outside [0, 8]", currencyRef(c, index), *c.DecimalPlaces))
	}

	return diags
}

// checkRateHistory validates a currency's exchange-rate list.
func checkRateHistory(c *record.Currency, index int) []Diagnostic {
	if len(c.ExchangeRates) == 0 {
		return nil
	}

	var diags []Diagnostic

	seenDates := make(map[string]bool, len(c.ExchangeRates))
	for j, r := range c.ExchangeRates {
		// The default currency carries no rate history at all; every entry
		// present is its own error.
		if c.IsDefault {
			diags = append(diags, errorf(CodeCurrencyDefaultRates,
				"remove exchange rates from the default currency",
				"default currency %s must not carry exchange rate #%d", currencyRef(c, index), j+1))
		}

		if r.Date == "" {
			diags = append(diags, errorf(CodeRateDate,
				"use a YYYY-MM-DD date",
				"currency %s exchange rate #%d has no date", currencyRef(c, index), j+1))
		} else if !record.IsCalendarDate(r.Date) {
			diags = append(diags, errorf(CodeRateDate,
				"use a YYYY-MM-DD date",
				"currency %s exchange rate #%d date %q is not a valid date", currencyRef(c, index), j+1, r.Date))
		} else if seenDates[r.Date] {
			diags = append(diags, errorf(CodeRateDuplicateDate,
				"keep one rate per date",
				"currency %s has more than one exchange rate dated %s", currencyRef(c, index), r.Date))
		} else {
			seenDates[r.Date] = true
		}

		if !r.Rate.IsPositive() {
			diags = append(diags, errorf(CodeRateNotPositive,
				"exchange rates must be greater than zero",
				"currency %s exchange rate #%d is %s, expected a positive rate", currencyRef(c, index), j+1, r.Rate))
		} else if r.Rate.Equal(identityRate) {
			diags = append(diags, warnf(CodeRateIdentity,
				"a rate of 1.0 means no conversion; double-check the value",
				"currency %s exchange rate #%d is exactly 1.0", currencyRef(c, index), j+1))
		}
	}

	return diags
}

// checkCurrencyUniqueness flags later occurrences of an already-seen code,
// citing both positions.
func checkCurrencyUniqueness(currencies []*record.Currency) []Diagnostic {
	var diags []Diagnostic
	firstSeen := make(map[string]int, len(currencies))
	for i, c := range currencies {
		if c.Code == "" {
			continue
		}
		if first, ok := firstSeen[c.Code]; ok {
			diags = append(diags, errorf(CodeCurrencyDuplicate,
				"currency codes must be unique",
				"currency code %s appears at positions %d and %d", c.Code, first+1, i+1))
			continue
		}
		firstSeen[c.Code] = i
	}
	return diags
}

// checkDefaultSingleton enforces exactly one default currency and, if
// document metadata names a default, that the two agree.
func checkDefaultSingleton(currencies []*record.Currency, meta *record.Metadata) []Diagnostic {
	var diags []Diagnostic

	var defaults []string
	for _, c := range currencies {
		if c.IsDefault {
			defaults = append(defaults, c.Code)
		}
	}

	switch {
	case len(defaults) == 0:
		diags = append(diags, errorf(CodeCurrencyDefault,
			"mark exactly one currency as the default",
			"no currency is marked as the default"))
	case len(defaults) > 1:
		diags = append(diags, errorf(CodeCurrencyDefault,
			"mark exactly one currency as the default",
			"more than one currency is marked as default: %s", strings.Join(defaults, ", ")))
	}

	if meta != nil && meta.DefaultCurrency != "" && len(defaults) >= 1 {
		if meta.DefaultCurrency != defaults[0] {
			diags = append(diags, errorf(CodeCurrencyMetadataClash,
				"update metadata.defaultCurrency to match the default currency",
				"metadata names %s as the default but currency %s is marked as default",
				meta.DefaultCurrency, defaults[0]))
		}
	}

	return diags
}

// NewCurrency validates a candidate currency against the existing set,
// returning field-tagged errors suitable for form display.
func NewCurrency(candidate *record.Currency, existing []*record.Currency) *Result {
	res := newResult()
	if candidate == nil {
		res.fail(CodeCurrencyCode, "code", "no currency given")
		return res
	}

	switch {
	case candidate.Code == "":
		res.fail(CodeCurrencyCode, "code", "code is required")
	case !record.IsCurrencyCode(candidate.Code):
		res.fail(CodeCurrencyCode, "code", "code must be three uppercase letters")
	default:
		for _, c := range existing {
			if c.Code == candidate.Code {
				res.fail(CodeCurrencyDuplicate, "code", "currency %s already exists", candidate.Code)
				break
			}
		}
	}

	if strings.TrimSpace(candidate.Name) == "" {
		res.fail(CodeCurrencyName, "name", "name is required")
	}
	if strings.TrimSpace(candidate.Symbol) == "" {
		res.fail(CodeCurrencySymbol, "symbol", "symbol is required")
	}
	if candidate.DecimalPlaces == nil {
		res.fail(CodeCurrencyDecimalPlaces, "decimalPlaces", "decimalPlaces is required")
	} else if *candidate.DecimalPlaces < record.MinDecimalPlaces || *candidate.DecimalPlaces > record.MaxDecimalPlaces {
		res.fail(CodeCurrencyDecimalPlaces, "decimalPlaces", "decimalPlaces must be between 0 and 8")
	}

	return res
}

// NewExchangeRate validates a candidate rate against its owning currency.
// A rate of exactly 1.0 is reported as a warning; the result stays valid.
func NewExchangeRate(candidate *record.ExchangeRate, owner *record.Currency) *Result {
	res := newResult()
	if candidate == nil || owner == nil {
		res.fail(CodeRateDate, "date", "no exchange rate given")
		return res
	}

	// Rates on the default currency are rejected outright; no point checking
	// the rest of the entry.
	if owner.IsDefault {
		res.fail(CodeCurrencyDefaultRates, "currency",
			"the default currency %s cannot carry exchange rates", owner.Code)
		return res
	}

	if candidate.Date == "" {
		res.fail(CodeRateDate, "date", "date is required")
	} else if !record.IsCalendarDate(candidate.Date) {
		res.fail(CodeRateDate, "date", "date must be a valid YYYY-MM-DD date")
	} else if owner.RateAt(candidate.Date) != nil {
		res.fail(CodeRateDuplicateDate, "date",
			"currency %s already has a rate for %s", owner.Code, candidate.Date)
	}

	if !candidate.Rate.IsPositive() {
		res.fail(CodeRateNotPositive, "rate", "rate must be greater than zero")
	} else if candidate.Rate.Equal(identityRate) {
		res.warn(CodeRateIdentity, "rate", "a rate of exactly 1.0 means no conversion")
	}

	return res
}

// currencyRef names a currency for messages, preferring the code when set.
func currencyRef(c *record.Currency, index int) string {
	if c.Code != "" {
		return c.Code
	}
	return "#" + strconv.Itoa(index+1)
}
