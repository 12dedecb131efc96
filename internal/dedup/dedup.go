// Package dedup suppresses re-imported transactions by content hash.
package dedup

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// HashKey derives the dedup fingerprint of a transaction: account, timestamp
// bucketed to whole minutes (sub-minute jitter between export tools is
// common), amount magnitude and trimmed memo. FNV-1a keeps it stable across
// runs; this is a fingerprint, not a primary key.
func HashKey(accountID string, ts time.Time, amount decimal.Decimal, memo string) string {
	bucket := ts.Unix() / 60
	raw := fmt.Sprintf("%s|%d|%s|%s", accountID, bucket, amount.Abs().String(), strings.TrimSpace(memo))

	h := fnv.New64a()
	h.Write([]byte(raw))
	return strconv.FormatUint(h.Sum64(), 16)
}

// HashTransaction computes the HashKey of a normalized transaction.
func HashTransaction(tx model.Transaction) string {
	return HashKey(tx.AccountID, tx.Timestamp, tx.Amount, tx.Memo)
}

// Filter tracks seen content hashes. It is order-dependent within a batch:
// the first occurrence of a hash passes, every later one is a duplicate,
// whether it came from storage or from earlier in the same batch.
type Filter struct {
	seen map[string]struct{}
}

// NewFilter seeds a Filter with the hashes of already-stored transactions.
func NewFilter(existing []model.Transaction) *Filter {
	f := &Filter{seen: make(map[string]struct{}, len(existing))}
	for _, tx := range existing {
		if tx.ContentHash != "" {
			f.seen[tx.ContentHash] = struct{}{}
		}
	}
	return f
}

// Admit reports whether hash is new, recording it when it is.
func (f *Filter) Admit(hash string) bool {
	if _, dup := f.seen[hash]; dup {
		return false
	}
	f.seen[hash] = struct{}{}
	return true
}
