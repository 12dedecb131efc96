package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/ingest"
	"github.com/bankfeed-dev/bankfeed/internal/model"
)

func row(cells ...string) []ingest.Cell {
	out := make([]ingest.Cell, len(cells))
	for i, c := range cells {
		out[i] = ingest.TextCell(c)
	}
	return out
}

func singleAmountParams() Params {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.Amount = 2
	return Params{Mapping: m, TargetAccountID: "acc1", BatchID: "batch"}
}

func TestRowExpense(t *testing.T) {
	tx, reason := Row(row("2024/04/03 오후 8:13", "스타벅스 강남점", "-4,500"), 2, singleAmountParams())
	require.Empty(t, reason)

	assert.Equal(t, "imp-batch-0002", tx.ID)
	assert.Equal(t, time.Date(2024, 4, 3, 20, 13, 0, 0, time.UTC), tx.Timestamp)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.True(t, decimal.NewFromInt(4500).Equal(tx.Amount), "amount is stored unsigned")
	assert.Equal(t, "스타벅스 강남점", tx.Memo)
	assert.Equal(t, "acc1", tx.AccountID)
}

func TestRowIncome(t *testing.T) {
	tx, reason := Row(row("2024-04-25", "Salary", "2000000"), 2, singleAmountParams())
	require.Empty(t, reason)
	assert.Equal(t, model.KindIncome, tx.Kind)
	assert.True(t, decimal.NewFromInt(2000000).Equal(tx.Amount))
}

func TestRowCurrencySymbols(t *testing.T) {
	tx, reason := Row(row("2024-04-03", "Coffee", "₩4,500"), 2, singleAmountParams())
	require.Empty(t, reason)
	assert.True(t, decimal.NewFromInt(4500).Equal(tx.Amount))
	assert.Equal(t, model.KindIncome, tx.Kind)

	tx, reason = Row(row("2024-04-03", "Lunch", "$ -12.50"), 2, singleAmountParams())
	require.Empty(t, reason)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.True(t, decimal.RequireFromString("12.50").Equal(tx.Amount))
}

func TestRowTypedCells(t *testing.T) {
	// Spreadsheet readers can hand over native values instead of text.
	when := time.Date(2024, 4, 3, 8, 13, 0, 0, time.UTC)
	cells := []ingest.Cell{
		ingest.TimeCell(when),
		ingest.TextCell("Coffee"),
		ingest.NumberCell(decimal.NewFromInt(-4500)),
	}

	tx, reason := Row(cells, 2, singleAmountParams())
	require.Empty(t, reason)
	assert.Equal(t, when, tx.Timestamp)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.True(t, decimal.NewFromInt(4500).Equal(tx.Amount))
}

func TestRowDualAmountColumns(t *testing.T) {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.AmountIn = 2
	m.AmountOut = 3
	p := Params{Mapping: m, TargetAccountID: "acc1", BatchID: "b"}

	tx, reason := Row(row("2024-04-03", "Deposit", "1000", ""), 2, p)
	require.Empty(t, reason)
	assert.Equal(t, model.KindIncome, tx.Kind)

	tx, reason = Row(row("2024-04-03", "Withdrawal", "", "1000"), 3, p)
	require.Empty(t, reason)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.True(t, decimal.NewFromInt(1000).Equal(tx.Amount))

	// Withdrawal wins when both columns are filled, whatever its sign.
	tx, reason = Row(row("2024-04-03", "Both", "1000", "-200"), 4, p)
	require.Empty(t, reason)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.True(t, decimal.NewFromInt(200).Equal(tx.Amount))

	// Both empty is not an amount.
	_, reason = Row(row("2024-04-03", "Neither", "", ""), 5, p)
	assert.Equal(t, "invalid amount", reason)
}

func TestRowRejections(t *testing.T) {
	p := singleAmountParams()

	_, reason := Row(row("04-03", "Coffee", "-4500"), 2, p)
	assert.Equal(t, `invalid date "04-03"`, reason)

	_, reason = Row(row("2024-04-03", "Coffee", "abc"), 2, p)
	assert.Equal(t, "invalid amount", reason)

	_, reason = Row(row("2024-04-03", "   ", "-4500"), 2, p)
	assert.Equal(t, "empty description", reason)
}

func TestRowDynamicAccount(t *testing.T) {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.Amount = 2
	m.Account = 3
	p := Params{
		Mapping: m,
		BatchID: "b",
		Accounts: []model.Account{
			{ID: "a1", Name: "Shinhan Checking"},
			{ID: "a2", Name: "Kakao Savings"},
		},
	}

	tx, reason := Row(row("2024-04-03", "Coffee", "-4500", "Shinhan Checking"), 2, p)
	require.Empty(t, reason)
	assert.Equal(t, "a1", tx.AccountID)

	_, reason = Row(row("2024-04-03", "Coffee", "-4500", "Mystery Bank"), 3, p)
	assert.Equal(t, `unresolved account "Mystery Bank"`, reason)

	// A configured fallback account absorbs unresolved references.
	p.FallbackAccountID = "a2"
	tx, reason = Row(row("2024-04-03", "Coffee", "-4500", "Mystery Bank"), 3, p)
	require.Empty(t, reason)
	assert.Equal(t, "a2", tx.AccountID)
}

func TestRowTargetAccountWins(t *testing.T) {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.Amount = 2
	m.Account = 3
	p := Params{
		Mapping:         m,
		TargetAccountID: "target",
		BatchID:         "b",
		Accounts:        []model.Account{{ID: "a1", Name: "Shinhan Checking"}},
	}

	tx, reason := Row(row("2024-04-03", "Coffee", "-4500", "Shinhan Checking"), 2, p)
	require.Empty(t, reason)
	assert.Equal(t, "target", tx.AccountID)
}

func TestRowCategory(t *testing.T) {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.Amount = 2
	m.Category = 3
	p := Params{
		Mapping:         m,
		TargetAccountID: "acc1",
		BatchID:         "b",
		Categories:      []model.Category{{ID: "cat-food", Name: "Food"}},
	}

	tx, reason := Row(row("2024-04-03", "Coffee", "-4500", "food"), 2, p)
	require.Empty(t, reason)
	assert.True(t, tx.Category.Resolved())
	assert.Equal(t, "cat-food", tx.Category.ID)

	// Unknown names pass through raw instead of being dropped.
	tx, reason = Row(row("2024-04-03", "Coffee", "-4500", "Gadgets"), 3, p)
	require.Empty(t, reason)
	assert.False(t, tx.Category.Resolved())
	assert.Equal(t, "Gadgets", tx.Category.Raw)

	tx, reason = Row(row("2024-04-03", "Coffee", "-4500", ""), 4, p)
	require.Empty(t, reason)
	assert.True(t, tx.Category.IsZero())
}

func TestRowOptionalColumns(t *testing.T) {
	m := model.NewColumnMapping()
	m.Date = 0
	m.Memo = 1
	m.Amount = 2
	m.Merchant = 3
	m.Tag = 4
	m.Installment = 5
	p := Params{Mapping: m, TargetAccountID: "acc1", BatchID: "b"}

	tx, reason := Row(row("2024-04-03", "Card payment", "-300000", "Apple Store", "gadgets", "3개월"), 2, p)
	require.Empty(t, reason)
	assert.Equal(t, "Apple Store", tx.Merchant)
	assert.Equal(t, "gadgets", tx.Tag)
	assert.Equal(t, 3, tx.InstallmentMonths)

	// Nonsense installment values are ignored, not rejected.
	tx, reason = Row(row("2024-04-03", "Card payment", "-300000", "", "", "일시불"), 3, p)
	require.Empty(t, reason)
	assert.Zero(t, tx.InstallmentMonths)

	tx, reason = Row(row("2024-04-03", "Card payment", "-300000", "", "", "999"), 4, p)
	require.Empty(t, reason)
	assert.Zero(t, tx.InstallmentMonths, "implausible month counts are dropped")
}

func TestRowShortRow(t *testing.T) {
	// Mapped columns past the end of a ragged row read as empty cells.
	_, reason := Row(row("2024-04-03"), 2, singleAmountParams())
	assert.Equal(t, "invalid amount", reason)
}

func TestGrid(t *testing.T) {
	g := &ingest.Grid{Rows: [][]ingest.Cell{
		row("Date", "Description", "Amount"),
		row("2024-04-03", "Coffee", "-4500"),
		row("bad date", "Lunch", "-9000"),
		row("2024-04-04", "Salary", "2000000"),
	}}

	drafts, rejected := Grid(g, singleAmountParams())
	require.Len(t, drafts, 2)
	require.Len(t, rejected, 1)

	// Row numbers are 1-based and count the header row.
	assert.Equal(t, 3, rejected[0].Row)
	assert.Contains(t, rejected[0].Reason, "invalid date")
	assert.Equal(t, "imp-batch-0002", drafts[0].ID)
	assert.Equal(t, "imp-batch-0004", drafts[1].ID)
}
