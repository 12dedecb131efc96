package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewBatchID returns a fresh identifier for one import run.
func NewBatchID() string {
	return uuid.NewString()
}

// RowID returns a transaction ID like "imp-1f3a9c2e-0007", unique within a
// workspace as long as batch IDs are unique.
func RowID(batchID string, row int) string {
	return fmt.Sprintf("imp-%s-%04d", shortBatch(batchID), row)
}

// BatchOf extracts the short batch fragment from a row ID, or "" when the ID
// was not produced by RowID.
func BatchOf(rowID string) string {
	parts := strings.SplitN(rowID, "-", 3)
	if len(parts) != 3 || parts[0] != "imp" {
		return ""
	}
	return parts[1]
}

func shortBatch(batchID string) string {
	s := strings.ReplaceAll(batchID, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
