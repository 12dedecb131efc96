// Package normalize turns raw grid rows into canonical transaction drafts.
// Row-level failures are collected with their row numbers, never fatal to
// the batch.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/id"
	"github.com/bankfeed-dev/bankfeed/internal/ingest"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/resolve"
)

// Params carries everything one batch of rows is normalized against.
type Params struct {
	Mapping model.ColumnMapping

	// TargetAccountID is the destination account for every row. Empty means
	// dynamic mode: the account is resolved per row from the mapped account
	// column, falling back to FallbackAccountID when set.
	TargetAccountID   string
	FallbackAccountID string

	Accounts   []model.Account
	Categories []model.Category
	BatchID    string
}

// Rejection is one row that could not be normalized. Row is 1-based and
// counts the header, matching what a user sees in their spreadsheet.
type Rejection struct {
	Row    int
	Raw    []ingest.Cell
	Reason string
}

// Grid normalizes every data row of g. Returns the drafts that parsed
// cleanly and the rejected rows with reasons.
func Grid(g *ingest.Grid, p Params) ([]model.Transaction, []Rejection) {
	var valid []model.Transaction
	var rejected []Rejection

	for i, row := range g.Rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		tx, reason := Row(row, rowNum, p)
		if reason != "" {
			rejected = append(rejected, Rejection{Row: rowNum, Raw: row, Reason: reason})
			continue
		}
		valid = append(valid, tx)
	}
	return valid, rejected
}

// Row normalizes a single raw row. An empty reason means success.
func Row(row []ingest.Cell, rowNum int, p Params) (model.Transaction, string) {
	m := p.Mapping

	ts, ok := parseDate(cellAt(row, m.Date))
	if !ok {
		return model.Transaction{}, fmt.Sprintf("invalid date %q", cellAt(row, m.Date).Trimmed())
	}

	signed, ok := parseAmount(row, m)
	if !ok {
		return model.Transaction{}, "invalid amount"
	}

	memo := cellAt(row, m.Memo).Trimmed()
	if memo == "" {
		return model.Transaction{}, "empty description"
	}

	accountID, reason := resolveAccount(row, p)
	if reason != "" {
		return model.Transaction{}, reason
	}

	kind := model.KindIncome
	if signed.IsNegative() {
		kind = model.KindExpense
	}

	tx := model.Transaction{
		ID:        id.RowID(p.BatchID, rowNum),
		Date:      midnight(ts),
		Timestamp: ts,
		Amount:    signed.Abs(),
		Kind:      kind,
		Memo:      memo,
		AccountID: accountID,
	}

	if m.Category != model.Unmapped {
		tx.Category = resolveCategory(cellAt(row, m.Category).Trimmed(), p.Categories)
	}
	if m.Merchant != model.Unmapped {
		tx.Merchant = cellAt(row, m.Merchant).Trimmed()
	}
	if m.Tag != model.Unmapped {
		tx.Tag = cellAt(row, m.Tag).Trimmed()
	}
	if m.Installment != model.Unmapped {
		tx.InstallmentMonths = parseInstallment(cellAt(row, m.Installment).Trimmed())
	}

	return tx, ""
}

func cellAt(row []ingest.Cell, idx int) ingest.Cell {
	if idx < 0 || idx >= len(row) {
		return ingest.Cell{}
	}
	return row[idx]
}

func parseDate(c ingest.Cell) (time.Time, bool) {
	if c.HasTime {
		return c.Time.UTC(), true
	}
	return ParseWhen(c.Text)
}

// parseAmount returns the signed source amount. In dual-column mode the
// withdrawal column wins when both are filled and always yields an expense.
func parseAmount(row []ingest.Cell, m model.ColumnMapping) (decimal.Decimal, bool) {
	if !m.DualAmount() {
		return parseAmountCell(cellAt(row, m.Amount))
	}

	if out := cellAt(row, m.AmountOut); !out.Empty() {
		v, ok := parseAmountCell(out)
		if !ok {
			return decimal.Decimal{}, false
		}
		return v.Abs().Neg(), true
	}
	if in := cellAt(row, m.AmountIn); !in.Empty() {
		v, ok := parseAmountCell(in)
		if !ok {
			return decimal.Decimal{}, false
		}
		return v.Abs(), true
	}
	return decimal.Decimal{}, false
}

func parseAmountCell(c ingest.Cell) (decimal.Decimal, bool) {
	if c.HasNumber {
		return c.Number, true
	}

	// Strip currency symbols, thousands separators and whitespace; keep
	// digits, the decimal point and the sign.
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, c.Text)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return v, true
}

func resolveAccount(row []ingest.Cell, p Params) (accountID, reason string) {
	if p.TargetAccountID != "" {
		return p.TargetAccountID, ""
	}

	ref := cellAt(row, p.Mapping.Account).Trimmed()
	if accID, ok := resolve.Account(ref, p.Accounts); ok {
		return accID, ""
	}
	if p.FallbackAccountID != "" {
		return p.FallbackAccountID, ""
	}
	return "", fmt.Sprintf("unresolved account %q", ref)
}

// resolveCategory matches the raw text case-insensitively against the
// registry by name. No match passes the raw text through unresolved so the
// caller can still see what the file said.
func resolveCategory(raw string, categories []model.Category) model.CategoryRef {
	if raw == "" {
		return model.CategoryRef{}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, raw) {
			return model.ResolvedCategory(c.ID)
		}
	}
	return model.UnresolvedCategory(raw)
}

func parseInstallment(raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
		if n > 120 {
			return 0
		}
	}
	return n
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
