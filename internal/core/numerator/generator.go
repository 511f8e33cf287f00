// Package numerator provides domain contracts for order auto-numbering.
// Implementations live in pkg/numerator (database sequences) and
// infrastructure/storage/memory (process-local counters).
package numerator

import (
	"context"
	"time"
)

// Generator generates sequential order numbers.
type Generator interface {
	// GetNextNumber generates the next number.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., ORD-2026-00001)
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
}
