// Package record defines the in-memory data model for a coinbook record set:
// the document, its currencies with exchange-rate history, hierarchical
// accounts, and double-entry transactions with postings. It also provides the
// primitive format validators (identifiers, currency codes, calendar dates,
// version strings) that the validation engines build on.
//
// All monetary values use decimal arithmetic to avoid floating point
// precision issues. Amounts keep their original exponent, so the number of
// digits a user wrote after the decimal point is recoverable.
package record

import "encoding/json"

// Document is the top-level record set as persisted on disk. The three entity
// lists are owned by the document; there is no cross-document sharing.
//
// Budgets and Recurring are carried through load/save and counted in stats,
// but are otherwise opaque to the validation engines.
type Document struct {
	Version      string            `json:"version"`
	Metadata     *Metadata         `json:"metadata"`
	Currencies   []*Currency       `json:"currency"`
	Accounts     []*Account        `json:"account"`
	Transactions []*Transaction    `json:"transaction"`
	Budgets      []json.RawMessage `json:"budget,omitempty"`
	Recurring    []json.RawMessage `json:"recurring,omitempty"`
}

// Metadata describes the document itself.
type Metadata struct {
	Title           string `json:"title,omitempty"`
	Created         string `json:"created"`
	LastModified    string `json:"lastModified"`
	DefaultCurrency string `json:"defaultCurrency,omitempty"`
}

// RequiredSections lists the top-level sections a document must carry.
var RequiredSections = []string{"metadata", "currency"}
