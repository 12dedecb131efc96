package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction by money direction.
type Kind string

const (
	KindIncome   Kind = "INCOME"
	KindExpense  Kind = "EXPENSE"
	KindTransfer Kind = "TRANSFER"
)

// Transaction is the canonical output unit of the import engine.
//
// Amount is always a non-negative magnitude; direction is carried by Kind.
// A transaction with LinkedTransactionID set must have Kind == KindTransfer
// and CounterpartAccountID set, and the link is mutual.
type Transaction struct {
	ID        string
	Date      time.Time // calendar day (midnight UTC)
	Timestamp time.Time // precise instant; midnight when the source had no time
	Amount    decimal.Decimal
	Kind      Kind
	Category  CategoryRef
	Memo      string
	Merchant  string
	Tag       string
	AccountID string

	// Dedup and transfer linking.
	ContentHash          string
	LinkedTransactionID  string
	CounterpartAccountID string

	InstallmentMonths int
}

// Signed returns the amount with the sign implied by Kind: expenses are
// negative, everything else positive.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Linked reports whether this transaction is one half of a transfer pair.
func (t Transaction) Linked() bool {
	return t.LinkedTransactionID != ""
}
