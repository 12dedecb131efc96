package model

import "errors"

// Unmapped marks a ColumnMapping slot with no column assigned.
const Unmapped = -1

// ColumnMapping assigns zero-based column indexes to transaction fields.
// Exactly one of Amount or the AmountIn/AmountOut pair must be active, and
// no column index may serve two slots.
type ColumnMapping struct {
	Date      int `yaml:"date"`
	Memo      int `yaml:"memo"`
	Amount    int `yaml:"amount"`
	AmountIn  int `yaml:"amount_in"`
	AmountOut int `yaml:"amount_out"`

	Account     int `yaml:"account"`
	Category    int `yaml:"category"`
	Merchant    int `yaml:"merchant"`
	Tag         int `yaml:"tag"`
	Installment int `yaml:"installment"`
}

// NewColumnMapping returns a mapping with every slot unmapped.
func NewColumnMapping() ColumnMapping {
	return ColumnMapping{
		Date:        Unmapped,
		Memo:        Unmapped,
		Amount:      Unmapped,
		AmountIn:    Unmapped,
		AmountOut:   Unmapped,
		Account:     Unmapped,
		Category:    Unmapped,
		Merchant:    Unmapped,
		Tag:         Unmapped,
		Installment: Unmapped,
	}
}

var (
	ErrNoDateColumn   = errors.New("mapping: no date column")
	ErrNoMemoColumn   = errors.New("mapping: no memo column")
	ErrNoAmountColumn = errors.New("mapping: no amount column")
	ErrAmountConflict = errors.New("mapping: amount and amount_in/amount_out are mutually exclusive")
	ErrColumnReused   = errors.New("mapping: column index used by more than one slot")
)

// DualAmount reports whether the mapping uses separate deposit/withdrawal
// columns instead of a single signed amount column.
func (m ColumnMapping) DualAmount() bool {
	return m.AmountIn != Unmapped || m.AmountOut != Unmapped
}

// Validate checks the structural invariants of the mapping.
func (m ColumnMapping) Validate() error {
	if m.Date == Unmapped {
		return ErrNoDateColumn
	}
	if m.Memo == Unmapped {
		return ErrNoMemoColumn
	}
	if m.Amount == Unmapped && !m.DualAmount() {
		return ErrNoAmountColumn
	}
	if m.Amount != Unmapped && m.DualAmount() {
		return ErrAmountConflict
	}

	seen := make(map[int]bool)
	for _, idx := range m.slots() {
		if idx == Unmapped {
			continue
		}
		if seen[idx] {
			return ErrColumnReused
		}
		seen[idx] = true
	}
	return nil
}

func (m ColumnMapping) slots() []int {
	return []int{
		m.Date, m.Memo, m.Amount, m.AmountIn, m.AmountOut,
		m.Account, m.Category, m.Merchant, m.Tag, m.Installment,
	}
}
