// Package bank holds the static table of participating banks and their
// NAPAS routing prefixes (BINs).
//
// The table is built once at package initialisation and never written
// afterwards, so every accessor is safe for concurrent use without locking.
package bank

import (
	"errors"
	"fmt"
	"slices"

	dErrors "bankqr/pkg/domain-errors"
)

// ErrUnknownBank is returned (wrapped with dErrors.CodeNotFound) when an
// identifier is absent from the table.
var ErrUnknownBank = errors.New("unknown bank")

// BINLength is the fixed width of every routing prefix.
const BINLength = 6

// Definition describes one bank. Values are immutable once registered.
type Definition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	BIN  string `json:"bin"`
}

var definitions = []Definition{
	{ID: "VCB", Name: "Vietcombank", BIN: "970436"},
	{ID: "TCB", Name: "Techcombank", BIN: "970407"},
	{ID: "BIDV", Name: "BIDV", BIN: "970418"},
	{ID: "VTB", Name: "VietinBank", BIN: "970415"},
	{ID: "ACB", Name: "ACB", BIN: "970416"},
	{ID: "MB", Name: "MB Bank", BIN: "970422"},
	{ID: "TPB", Name: "TPBank", BIN: "970423"},
	{ID: "VPB", Name: "VPBank", BIN: "970432"},
	{ID: "AGR", Name: "Agribank", BIN: "970405"},
	{ID: "STB", Name: "Sacombank", BIN: "970403"},
	{ID: "SHB", Name: "SHB", BIN: "970443"},
	{ID: "HDB", Name: "HDBank", BIN: "970437"},
	{ID: "VIB", Name: "VIB", BIN: "970441"},
	{ID: "OCB", Name: "OCB", BIN: "970448"},
	{ID: "MSB", Name: "MSB", BIN: "970426"},
}

var byID = mustIndex(definitions)

func mustIndex(defs []Definition) map[string]Definition {
	idx := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if err := d.check(); err != nil {
			panic(err)
		}
		if _, dup := idx[d.ID]; dup {
			panic(fmt.Sprintf("bank: duplicate identifier %q", d.ID))
		}
		idx[d.ID] = d
	}
	return idx
}

func (d Definition) check() error {
	if d.ID == "" {
		return errors.New("bank: empty identifier")
	}
	if len(d.BIN) != BINLength {
		return fmt.Errorf("bank %s: BIN %q must be %d digits", d.ID, d.BIN, BINLength)
	}
	for _, r := range d.BIN {
		if r < '0' || r > '9' {
			return fmt.Errorf("bank %s: BIN %q must be digits only", d.ID, d.BIN)
		}
	}
	return nil
}

// Lookup returns the definition registered under id.
func Lookup(id string) (Definition, error) {
	d, ok := byID[id]
	if !ok {
		return Definition{}, dErrors.Wrap(fmt.Errorf("%w: %q", ErrUnknownBank, id), dErrors.CodeNotFound, "unknown bank")
	}
	return d, nil
}

// Recognizes reports whether def is exactly a registered definition.
func Recognizes(def Definition) bool {
	d, ok := byID[def.ID]
	return ok && d == def
}

// IDs returns every registered identifier in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// List returns a copy of the table in registration order.
func List() []Definition {
	return slices.Clone(definitions)
}
