// Package importer runs the full import pipeline over one uploaded file:
// ingest, mapping lookup, normalization, duplicate suppression and transfer
// reconciliation. The engine performs no persistence of its own; the caller
// stores the two output lists.
package importer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bankfeed-dev/bankfeed/internal/dedup"
	"github.com/bankfeed-dev/bankfeed/internal/id"
	"github.com/bankfeed-dev/bankfeed/internal/ingest"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/normalize"
	"github.com/bankfeed-dev/bankfeed/internal/preset"
	"github.com/bankfeed-dev/bankfeed/internal/reconcile"
)

var (
	// ErrNoMapping means neither the request nor the preset store supplied
	// a column mapping for this file shape.
	ErrNoMapping = errors.New("importer: no column mapping for this file shape")

	// ErrAccountColumnRequired means the target scope is per-row resolution
	// but the mapping has no account column. This is a configuration error,
	// not a row-level one.
	ErrAccountColumnRequired = errors.New("importer: per-row import requires a mapped account column")
)

// Pipeline wires the engine stages to a workspace's presets, registries and
// options. Runs within one workspace are serialized: all accounts share one
// duplicate/transfer universe, so concurrent reconciliation would race the
// claim tracking.
type Pipeline struct {
	Presets    *preset.Store
	Accounts   []model.Account
	Categories []model.Category
	Options    reconcile.Options
	Log        zerolog.Logger

	mu sync.Mutex
}

// Request describes one import.
type Request struct {
	Buffer   []byte
	FileName string

	// TargetAccountID is the destination account. Empty means per-row
	// resolution from the mapped account column.
	TargetAccountID string

	// FallbackAccountID optionally catches unresolved per-row references.
	FallbackAccountID string

	// Mapping overrides preset lookup when set, and is saved back as the
	// preset for this file shape.
	Mapping *model.ColumnMapping

	// PresetName names the preset saved from Mapping. Defaults when empty.
	PresetName string
}

// Result is everything one import produced. Rejected rows are reported, not
// silently discarded; Duplicates counts drops, which are not errors.
type Result struct {
	BatchID  string
	Headers  []string
	RowsRead int

	Rejected   []normalize.Rejection
	Duplicates int

	NewTransactions []model.Transaction
	UpdatedExisting []model.Transaction
}

// TransfersLinked counts the new transactions that became transfer halves.
func (r *Result) TransfersLinked() int {
	n := 0
	for _, tx := range r.NewTransactions {
		if tx.Linked() {
			n++
		}
	}
	return n
}

// Run executes the pipeline against the supplied transaction history.
func (p *Pipeline) Run(req Request, existing []model.Transaction) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	grid, err := ingest.Read(req.Buffer)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", req.FileName, err)
	}
	headers := grid.Headers()

	mapping, err := p.resolveMapping(req, headers)
	if err != nil {
		return nil, err
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if req.TargetAccountID == "" && mapping.Account == model.Unmapped {
		return nil, ErrAccountColumnRequired
	}

	batchID := id.NewBatchID()
	drafts, rejected := normalize.Grid(grid, normalize.Params{
		Mapping:           mapping,
		TargetAccountID:   req.TargetAccountID,
		FallbackAccountID: req.FallbackAccountID,
		Accounts:          p.Accounts,
		Categories:        p.Categories,
		BatchID:           batchID,
	})
	for _, rej := range rejected {
		p.Log.Warn().
			Str("file", req.FileName).
			Int("row", rej.Row).
			Str("reason", rej.Reason).
			Msg("row rejected")
	}

	filter := dedup.NewFilter(existing)
	kept := drafts[:0]
	duplicates := 0
	for _, tx := range drafts {
		tx.ContentHash = dedup.HashTransaction(tx)
		if !filter.Admit(tx.ContentHash) {
			duplicates++
			p.Log.Debug().
				Str("memo", tx.Memo).
				Str("amount", tx.Amount.String()).
				Msg("duplicate dropped")
			continue
		}
		kept = append(kept, tx)
	}

	paired := reconcile.Pair(kept, existing, p.Options)
	for _, tx := range paired.UpdatedExisting {
		p.Log.Info().
			Str("existing", tx.ID).
			Str("linked_to", tx.LinkedTransactionID).
			Msg("transfer matched against history")
	}

	return &Result{
		BatchID:         batchID,
		Headers:         headers,
		RowsRead:        len(grid.Rows) - 1,
		Rejected:        rejected,
		Duplicates:      duplicates,
		NewTransactions: paired.NewTransactions,
		UpdatedExisting: paired.UpdatedExisting,
	}, nil
}

// resolveMapping picks the column mapping for this run: an explicit request
// mapping wins and is persisted as a preset; otherwise the preset store is
// consulted by shape signature.
func (p *Pipeline) resolveMapping(req Request, headers []string) (model.ColumnMapping, error) {
	if req.Mapping != nil {
		name := req.PresetName
		if name == "" {
			name = "Auto-preset for " + req.FileName
		}
		sig := preset.Signature(headers)
		if _, err := p.Presets.Save(name, *req.Mapping, sig, req.TargetAccountID); err != nil {
			return model.ColumnMapping{}, fmt.Errorf("saving preset: %w", err)
		}
		return *req.Mapping, nil
	}

	if found, ok := p.Presets.FindMatching(headers, req.TargetAccountID); ok {
		p.Log.Info().Str("preset", found.Name).Msg("matching preset applied")
		return found.Mapping, nil
	}
	return model.ColumnMapping{}, ErrNoMapping
}
