// Package reconcile discovers paired transfer transactions: a withdrawal in
// one account and a deposit in another that are really one movement of
// money. Matched sides are promoted to TRANSFER and cross-referenced so the
// pair is never double-counted.
package reconcile

import (
	"time"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// DefaultWindow is how far apart in time the two halves of a transfer may
// land and still be matched.
const DefaultWindow = 5 * time.Minute

// Options tunes the matching predicate.
type Options struct {
	// Window overrides DefaultWindow when positive.
	Window time.Duration

	// SkipSameAccount excludes pairs inside a single account. Off by
	// default: two opposite same-account rows within the window will link.
	SkipSameAccount bool
}

func (o Options) window() time.Duration {
	if o.Window > 0 {
		return o.Window
	}
	return DefaultWindow
}

// Result is the outcome of one reconciliation run. NewTransactions holds the
// whole batch, linked or not; UpdatedExisting holds full copies of stored
// transactions that just became the other half of a transfer and must be
// re-persisted by the caller.
type Result struct {
	NewTransactions []model.Transaction
	UpdatedExisting []model.Transaction
}

// ClaimSet records transaction IDs already consumed as a counterpart during
// a run, so no stored transaction is paired twice.
type ClaimSet map[string]struct{}

// Claim marks id as consumed.
func (c ClaimSet) Claim(id string) { c[id] = struct{}{} }

// Claimed reports whether id has been consumed.
func (c ClaimSet) Claimed(id string) bool {
	_, ok := c[id]
	return ok
}

// Pair runs the two matching passes over a freshly normalized batch:
// new-vs-existing first, then new-vs-new among the leftovers. Linking is a
// one-way transition; a transaction ends the run with at most one
// counterpart, and unmatched transactions keep their original kind. Existing
// transactions are never mutated: matched ones are cloned into
// Result.UpdatedExisting.
func Pair(batch, existing []model.Transaction, opts Options) Result {
	out := Result{NewTransactions: append([]model.Transaction(nil), batch...)}
	claimed := make(ClaimSet)

	// Pass 1: new vs existing. Scan order is storage order; the first
	// unclaimed, unlinked transaction satisfying the predicate wins.
	for i := range out.NewTransactions {
		tx := &out.NewTransactions[i]
		if !eligible(*tx) {
			continue
		}
		for _, ex := range existing {
			if ex.Linked() || ex.Kind == model.KindTransfer || claimed.Claimed(ex.ID) {
				continue
			}
			if !matches(*tx, ex, opts) {
				continue
			}
			claimed.Claim(ex.ID)

			link(tx, ex.ID, ex.AccountID)
			counterpart := ex
			link(&counterpart, tx.ID, tx.AccountID)
			out.UpdatedExisting = append(out.UpdatedExisting, counterpart)
			break
		}
	}

	// Pass 2: new vs new. Each leftover scans strictly later batch entries.
	for i := range out.NewTransactions {
		a := &out.NewTransactions[i]
		if !eligible(*a) {
			continue
		}
		for j := i + 1; j < len(out.NewTransactions); j++ {
			b := &out.NewTransactions[j]
			if !eligible(*b) || !matches(*a, *b, opts) {
				continue
			}
			link(a, b.ID, b.AccountID)
			link(b, a.ID, a.AccountID)
			break
		}
	}

	return out
}

func eligible(tx model.Transaction) bool {
	return !tx.Linked() && tx.Kind != model.KindTransfer
}

// matches is the transfer predicate: opposite kinds, equal magnitudes,
// timestamps within the window. Account identity is deliberately not part
// of the predicate beyond the optional same-account guard.
func matches(a, b model.Transaction, opts Options) bool {
	opposite := (a.Kind == model.KindExpense && b.Kind == model.KindIncome) ||
		(a.Kind == model.KindIncome && b.Kind == model.KindExpense)
	if !opposite {
		return false
	}
	if !a.Amount.Equal(b.Amount) {
		return false
	}
	if opts.SkipSameAccount && a.AccountID == b.AccountID {
		return false
	}
	diff := a.Timestamp.Sub(b.Timestamp)
	if diff < 0 {
		diff = -diff
	}
	return diff <= opts.window()
}

func link(tx *model.Transaction, counterpartID, counterpartAccountID string) {
	tx.Kind = model.KindTransfer
	tx.LinkedTransactionID = counterpartID
	tx.CounterpartAccountID = counterpartAccountID
}
