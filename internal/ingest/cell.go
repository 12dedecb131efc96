package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell is one untyped value from a source grid. Character-delimited sources
// only ever fill Text; spreadsheet sources may additionally carry a typed
// date or number, which downstream parsing prefers over re-parsing the text.
type Cell struct {
	Text      string
	Time      time.Time
	Number    decimal.Decimal
	HasTime   bool
	HasNumber bool
}

// TextCell returns a plain text cell.
func TextCell(s string) Cell { return Cell{Text: s} }

// TimeCell returns a cell carrying a typed date value.
func TimeCell(t time.Time) Cell {
	return Cell{Text: t.Format("2006-01-02 15:04:05"), Time: t, HasTime: true}
}

// NumberCell returns a cell carrying a typed numeric value.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Text: d.String(), Number: d, HasNumber: true}
}

// Empty reports whether the cell holds nothing but whitespace.
func (c Cell) Empty() bool {
	return !c.HasTime && !c.HasNumber && strings.TrimSpace(c.Text) == ""
}

// Trimmed returns the cell text with surrounding whitespace removed.
func (c Cell) Trimmed() string { return strings.TrimSpace(c.Text) }
