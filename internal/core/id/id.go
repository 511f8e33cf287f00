// Package id provides UUIDv7 generation for system records
// (outbox events, audit entries, settlement runs).
// Business rows (products, members, history lines) keep database serial keys.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
// Time ordering keeps outbox and audit tables in insertion order on the B-tree.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
