package validate

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/coinbook/coinbook/record"
)

func places(v float64) *float64 {
	return &v
}

// currency builds a well-formed non-default currency for tests.
func currency(code string) *record.Currency {
	return &record.Currency{
		Code:          code,
		Name:          code + " Currency",
		Symbol:        code,
		DecimalPlaces: places(2),
	}
}

func defaultCurrency(code string) *record.Currency {
	c := currency(code)
	c.IsDefault = true
	return c
}

// diagCodes extracts the code of every diagnostic, preserving order.
func diagCodes(diags []Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func containsCode(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestCurrenciesEmptySet(t *testing.T) {
	diags := Currencies(nil, nil)
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, CodeCurrencySetEmpty, diags[0].Code)
	assert.Equal(t, SeverityError, diags[0].Severity)
}

func TestCurrenciesValidSet(t *testing.T) {
	currencies := []*record.Currency{
		defaultCurrency("CHF"),
		currency("EUR"),
		currency("USD"),
	}
	diags := Currencies(currencies, nil)
	assert.Equal(t, 0, len(diags))
}

func TestCurrencyFieldRules(t *testing.T) {
	tests := []struct {
		name     string
		currency *record.Currency
		want     string
	}{
		{
			name:     "missing code",
			currency: &record.Currency{Name: "x", Symbol: "x", DecimalPlaces: places(2), IsDefault: true},
			want:     CodeCurrencyCode,
		},
		{
			name: "lowercase code",
			currency: &record.Currency{
				Code: "chf", Name: "x", Symbol: "x", DecimalPlaces: places(2), IsDefault: true,
			},
			want: CodeCurrencyCode,
		},
		{
			name: "two letter code",
			currency: &record.Currency{
				Code: "CH", Name: "x", Symbol: "x", DecimalPlaces: places(2), IsDefault: true,
			},
			want: CodeCurrencyCode,
		},
		{
			name: "blank name",
			currency: &record.Currency{
				Code: "CHF", Name: "  ", Symbol: "x", DecimalPlaces: places(2), IsDefault: true,
			},
			want: CodeCurrencyName,
		},
		{
			name: "blank symbol",
			currency: &record.Currency{
				Code: "CHF", Name: "x", Symbol: "", DecimalPlaces: places(2), IsDefault: true,
			},
			want: CodeCurrencySymbol,
		},
		{
			name: "missing decimal places",
			currency: &record.Currency{
				Code: "CHF", Name: "x", Symbol: "x", IsDefault: true,
			},
			want: CodeCurrencyDecimalPlaces,
		},
		{
			name: "decimal places above bound",
			currency: &record.Currency{
				Code: "CHF", Name: "x", Symbol: "x", DecimalPlaces: places(9), IsDefault: true,
			},
			want: CodeCurrencyDecimalPlaces,
		},
		{
			name: "negative decimal places",
			currency: &record.Currency{
				Code: "CHF", Name: "x", Symbol: "x", DecimalPlaces: places(-1), IsDefault: true,
			},
			want: CodeCurrencyDecimalPlaces,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Currencies([]*record.Currency{tt.currency}, nil)
			assert.True(t, containsCode(diags, tt.want))
		})
	}
}

func TestCurrencyFractionalDecimalPlacesAccepted(t *testing.T) {
	c := defaultCurrency("CHF")
	c.DecimalPlaces = places(2.5)
	diags := Currencies([]*record.Currency{c}, nil)
	assert.Equal(t, 0, len(diags))
}

func TestCurrencyDefaultSingleton(t *testing.T) {
	t.Run("NoDefault", func(t *testing.T) {
		diags := Currencies([]*record.Currency{currency("CHF"), currency("EUR")}, nil)
		assert.True(t, containsCode(diags, CodeCurrencyDefault))
	})

	t.Run("MultipleDefaults", func(t *testing.T) {
		diags := Currencies([]*record.Currency{defaultCurrency("CHF"), defaultCurrency("EUR")}, nil)
		assert.True(t, containsCode(diags, CodeCurrencyDefault))
	})

	t.Run("MetadataAgreement", func(t *testing.T) {
		meta := &record.Metadata{DefaultCurrency: "CHF"}
		diags := Currencies([]*record.Currency{defaultCurrency("CHF")}, meta)
		assert.Equal(t, 0, len(diags))
	})

	t.Run("MetadataClash", func(t *testing.T) {
		meta := &record.Metadata{DefaultCurrency: "EUR"}
		diags := Currencies([]*record.Currency{defaultCurrency("CHF")}, meta)
		assert.True(t, containsCode(diags, CodeCurrencyMetadataClash))
	})
}

func TestCurrencyUniqueness(t *testing.T) {
	currencies := []*record.Currency{
		defaultCurrency("CHF"),
		currency("EUR"),
		currency("EUR"),
	}
	diags := Currencies(currencies, nil)
	assert.Equal(t, []string{CodeCurrencyDuplicate}, diagCodes(diags))
	assert.Equal(t, "currency code EUR appears at positions 2 and 3", diags[0].Message)
}

func TestRateHistory(t *testing.T) {
	rate := func(date, value string) *record.ExchangeRate {
		return &record.ExchangeRate{Date: date, Rate: decimal.RequireFromString(value)}
	}

	tests := []struct {
		name  string
		rates []*record.ExchangeRate
		want  []string
	}{
		{
			name:  "valid history",
			rates: []*record.ExchangeRate{rate("2025-01-01", "0.93"), rate("2025-02-01", "0.95")},
			want:  nil,
		},
		{
			name:  "missing date",
			rates: []*record.ExchangeRate{rate("", "0.93")},
			want:  []string{CodeRateDate},
		},
		{
			name:  "malformed date",
			rates: []*record.ExchangeRate{rate("01/01/2025", "0.93")},
			want:  []string{CodeRateDate},
		},
		{
			name:  "non positive rate",
			rates: []*record.ExchangeRate{rate("2025-01-01", "0"), rate("2025-02-01", "-0.5")},
			want:  []string{CodeRateNotPositive, CodeRateNotPositive},
		},
		{
			name:  "identity rate warns",
			rates: []*record.ExchangeRate{rate("2025-01-01", "1.0")},
			want:  []string{CodeRateIdentity},
		},
		{
			name:  "duplicate date",
			rates: []*record.ExchangeRate{rate("2025-01-01", "0.93"), rate("2025-01-01", "0.94")},
			want:  []string{CodeRateDuplicateDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := currency("EUR")
			c.ExchangeRates = tt.rates
			diags := Currencies([]*record.Currency{defaultCurrency("CHF"), c}, nil)
			assert.Equal(t, tt.want, diagCodes(diags))
		})
	}
}

func TestDefaultCurrencyRejectsRates(t *testing.T) {
	c := defaultCurrency("CHF")
	c.ExchangeRates = []*record.ExchangeRate{
		{Date: "2025-01-01", Rate: decimal.RequireFromString("0.93")},
		{Date: "2025-02-01", Rate: decimal.RequireFromString("0.95")},
	}
	diags := Currencies([]*record.Currency{c}, nil)

	// One error per rate entry.
	count := 0
	for _, d := range diags {
		if d.Code == CodeCurrencyDefaultRates {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestIdentityRateKeepsSetValid(t *testing.T) {
	c := currency("EUR")
	c.ExchangeRates = []*record.ExchangeRate{
		{Date: "2025-01-01", Rate: decimal.RequireFromString("1.0")},
	}
	diags := Currencies([]*record.Currency{defaultCurrency("CHF"), c}, nil)
	assert.False(t, HasErrors(diags))
	assert.True(t, containsCode(diags, CodeRateIdentity))
}

func TestNewCurrency(t *testing.T) {
	existing := []*record.Currency{defaultCurrency("CHF")}

	t.Run("Valid", func(t *testing.T) {
		res := NewCurrency(currency("EUR"), existing)
		assert.True(t, res.Valid)
		assert.Equal(t, 0, len(res.Errors))
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		res := NewCurrency(currency("CHF"), existing)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeCurrencyDuplicate, res.Errors[0].Code)
		assert.Equal(t, "code", res.Errors[0].Field)
	})

	t.Run("AllFieldsMissing", func(t *testing.T) {
		res := NewCurrency(&record.Currency{}, existing)
		assert.False(t, res.Valid)
		assert.Equal(t, 4, len(res.Errors))
	})

	t.Run("Nil", func(t *testing.T) {
		res := NewCurrency(nil, existing)
		assert.False(t, res.Valid)
	})
}

func TestNewExchangeRate(t *testing.T) {
	owner := currency("EUR")
	owner.ExchangeRates = []*record.ExchangeRate{
		{Date: "2025-01-01", Rate: decimal.RequireFromString("0.93")},
	}

	t.Run("Valid", func(t *testing.T) {
		res := NewExchangeRate(&record.ExchangeRate{Date: "2025-02-01", Rate: decimal.RequireFromString("0.95")}, owner)
		assert.True(t, res.Valid)
	})

	t.Run("DefaultOwnerShortCircuits", func(t *testing.T) {
		res := NewExchangeRate(&record.ExchangeRate{Date: "bogus", Rate: decimal.Zero}, defaultCurrency("CHF"))
		assert.False(t, res.Valid)
		assert.Equal(t, 1, len(res.Errors))
		assert.Equal(t, CodeCurrencyDefaultRates, res.Errors[0].Code)
	})

	t.Run("DuplicateDate", func(t *testing.T) {
		res := NewExchangeRate(&record.ExchangeRate{Date: "2025-01-01", Rate: decimal.RequireFromString("0.94")}, owner)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeRateDuplicateDate, res.Errors[0].Code)
	})

	t.Run("IdentityWarnsButValid", func(t *testing.T) {
		res := NewExchangeRate(&record.ExchangeRate{Date: "2025-03-01", Rate: decimal.RequireFromString("1.0")}, owner)
		assert.True(t, res.Valid)
		assert.Equal(t, 1, len(res.Warnings))
		assert.Equal(t, CodeRateIdentity, res.Warnings[0].Code)
	})
}
