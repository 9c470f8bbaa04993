package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/coinbook/coinbook/loader"
	"github.com/coinbook/coinbook/record"
	"github.com/coinbook/coinbook/validate"
)

type InitCmd struct {
	File string `help:"Path for the new document." arg:"" optional:"" default:"ledger.json"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	if _, err := os.Stat(cmd.File); err == nil {
		overwrite, err := confirm(fmt.Sprintf("%s already exists. Overwrite?", cmd.File))
		if err != nil {
			return err
		}
		if !overwrite {
			printInfof(ctx.Stdout, "keeping existing %s", cmd.File)
			return nil
		}
	}

	var (
		title         = "My Ledger"
		code          = "USD"
		name          = "US Dollar"
		symbol        = "$"
		decimalPlaces = "2"
	)

	if stdinIsTerminal() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Ledger title").Value(&title),
				huh.NewInput().Title("Default currency code (3 letters)").Value(&code).
					Validate(func(s string) error {
						if !record.IsCurrencyCode(strings.ToUpper(s)) {
							return fmt.Errorf("use a 3-letter code like USD")
						}
						return nil
					}),
				huh.NewInput().Title("Currency name").Value(&name),
				huh.NewInput().Title("Currency symbol").Value(&symbol),
				huh.NewSelect[string]().Title("Decimal places").
					Options(
						huh.NewOption("0", "0"),
						huh.NewOption("2", "2"),
						huh.NewOption("3", "3"),
					).
					Value(&decimalPlaces),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("init cancelled: %w", err)
		}
	}

	places, err := strconv.ParseFloat(decimalPlaces, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal places %q: %w", decimalPlaces, err)
	}
	code = strings.ToUpper(code)

	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	doc := &record.Document{
		Version: "1.0.0",
		Metadata: &record.Metadata{
			Title:           title,
			Created:         now,
			LastModified:    now,
			DefaultCurrency: code,
		},
		Currencies: []*record.Currency{{
			Code:          code,
			Name:          name,
			Symbol:        symbol,
			DecimalPlaces: &places,
			IsDefault:     true,
		}},
		Accounts:     []*record.Account{},
		Transactions: []*record.Transaction{},
	}

	if res := validate.Document(doc); !res.Valid {
		return fmt.Errorf("generated document is invalid: %s", res.Errors[0].Message)
	}

	if err := loader.New().Save(cmd.File, doc); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("created %s with default currency %s", cmd.File, code))
	return nil
}
