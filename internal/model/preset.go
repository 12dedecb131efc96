package model

import "time"

// ImportPreset is a saved column mapping for one file shape, optionally
// bound to a single destination account. At most one preset exists per
// (Signature, LinkedAccountID) pair; saving a colliding key updates in place.
type ImportPreset struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Signature       string        `yaml:"signature"`
	Mapping         ColumnMapping `yaml:"mapping"`
	LinkedAccountID string        `yaml:"linked_account_id,omitempty"`
	CreatedAt       time.Time     `yaml:"created_at"`
}

// Generic reports whether the preset is not bound to a specific account.
func (p ImportPreset) Generic() bool { return p.LinkedAccountID == "" }
