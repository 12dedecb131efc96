// Package preset persists column-mapping presets keyed by a file's shape
// signature, so a previously mapped export format is recognized on the next
// upload.
package preset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// signatureHeaders is how many leading header cells feed the signature.
// Files that agree on their first 10 headers are treated as the same shape
// even when later columns differ.
const signatureHeaders = 10

// storeKey is the KV key holding the preset list.
const storeKey = "import-presets"

// Signature derives the shape signature of a header row: an order-sensitive
// join of the first 10 trimmed header cells, case preserved.
func Signature(headers []string) string {
	if len(headers) > signatureHeaders {
		headers = headers[:signatureHeaders]
	}
	trimmed := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
	}
	return strings.Join(trimmed, "|")
}

// Store reads and writes ImportPresets through an injected KV.
type Store struct {
	kv KV
}

// NewStore creates a preset Store backed by kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// All returns every stored preset. Corrupt or unreadable persisted state
// degrades to an empty list rather than failing the caller.
func (s *Store) All() []model.ImportPreset {
	data, ok, err := s.kv.Get(storeKey)
	if err != nil || !ok {
		return nil
	}
	var presets []model.ImportPreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil
	}
	return presets
}

// FindMatching returns the best preset for a header row: one linked to
// targetAccountID first, then a generic preset with the same signature.
// Presets linked to a different account are never returned.
func (s *Store) FindMatching(headers []string, targetAccountID string) (model.ImportPreset, bool) {
	sig := Signature(headers)
	presets := s.All()

	if targetAccountID != "" {
		for _, p := range presets {
			if p.Signature == sig && p.LinkedAccountID == targetAccountID {
				return p, true
			}
		}
	}
	for _, p := range presets {
		if p.Signature == sig && p.Generic() {
			return p, true
		}
	}
	return model.ImportPreset{}, false
}

// Save upserts a preset keyed by (signature, linkedAccountID). An existing
// preset with the same key is updated in place and keeps its ID.
func (s *Store) Save(name string, mapping model.ColumnMapping, signature, linkedAccountID string) (model.ImportPreset, error) {
	presets := s.All()

	for i, p := range presets {
		if p.Signature == signature && p.LinkedAccountID == linkedAccountID {
			presets[i].Name = name
			presets[i].Mapping = mapping
			if err := s.write(presets); err != nil {
				return model.ImportPreset{}, err
			}
			return presets[i], nil
		}
	}

	p := model.ImportPreset{
		ID:              uuid.NewString(),
		Name:            name,
		Signature:       signature,
		Mapping:         mapping,
		LinkedAccountID: linkedAccountID,
		CreatedAt:       time.Now().UTC(),
	}
	presets = append(presets, p)
	if err := s.write(presets); err != nil {
		return model.ImportPreset{}, err
	}
	return p, nil
}

// Delete removes the preset with the given ID. Unknown IDs are a no-op.
func (s *Store) Delete(id string) error {
	presets := s.All()
	kept := presets[:0]
	for _, p := range presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.write(kept)
}

// Unlink clears a preset's account binding, demoting it to generic. If a
// generic preset with the same signature already exists, the unlinked one
// wins and the older generic preset is dropped to keep the upsert key unique.
func (s *Store) Unlink(id string) error {
	presets := s.All()

	var sig string
	found := false
	for i, p := range presets {
		if p.ID == id {
			presets[i].LinkedAccountID = ""
			sig = p.Signature
			found = true
		}
	}
	if !found {
		return s.write(presets)
	}

	kept := presets[:0]
	for _, p := range presets {
		if p.ID != id && p.Signature == sig && p.Generic() {
			continue
		}
		kept = append(kept, p)
	}
	return s.write(kept)
}

func (s *Store) write(presets []model.ImportPreset) error {
	data, err := yaml.Marshal(presets)
	if err != nil {
		return fmt.Errorf("marshaling presets: %w", err)
	}
	if err := s.kv.Set(storeKey, data); err != nil {
		return fmt.Errorf("storing presets: %w", err)
	}
	return nil
}
