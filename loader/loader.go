// Package loader reads and writes coinbook documents. The on-disk format is
// a single JSON object holding the whole record set; the loader only maps
// between bytes and the record model, validation is the caller's concern.
//
// Example usage:
//
//	ldr := loader.New()
//	doc, err := ldr.Load("ledger.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := validate.Document(doc)
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coinbook/coinbook/record"
)

// Loader reads and writes documents. Configure it with functional options
// passed to New:
//
//	ldr := New(WithCompactOutput())
type Loader struct {
	// indent is the indentation used when writing. Empty means compact
	// single-line output.
	indent string
}

// Option configures a Loader.
type Option func(*Loader)

// WithCompactOutput writes documents without indentation.
func WithCompactOutput() Option {
	return func(l *Loader) {
		l.indent = ""
	}
}

// New creates a Loader. The default writes two-space indented JSON.
func New(opts ...Option) *Loader {
	l := &Loader{indent: "  "}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the document at path.
func (l *Loader) Load(path string) (*record.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := l.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// LoadBytes decodes a document from raw bytes. Unknown fields are ignored
// so documents written by newer versions still load.
func (l *Loader) LoadBytes(data []byte) (*record.Document, error) {
	var doc record.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save encodes the document and writes it to path.
func (l *Loader) Save(path string, doc *record.Document) error {
	data, err := l.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Marshal encodes the document using the loader's output settings. The
// output always ends with a newline.
func (l *Loader) Marshal(doc *record.Document) ([]byte, error) {
	var data []byte
	var err error
	if l.indent == "" {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", l.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}
