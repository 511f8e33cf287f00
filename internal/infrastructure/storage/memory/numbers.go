package memory

import (
	"context"
	"time"

	core "coopledger/internal/core/numerator"
	"coopledger/pkg/numerator"
)

// Numbers implements numerator.Generator with per-key counters.
// Both strategies behave the same here: numbers never have gaps.
type Numbers struct{ s *Store }

var _ core.Generator = (*Numbers)(nil)

// Numbers returns the sequence view of the store.
func (s *Store) Numbers() *Numbers { return &Numbers{s: s} }

func (n *Numbers) GetNextNumber(_ context.Context, cfg core.Config, _ *core.Options, period time.Time) (string, error) {
	key := numerator.BuildKey(cfg, period)

	n.s.mu.Lock()
	n.s.sequences[key]++
	next := n.s.sequences[key]
	n.s.mu.Unlock()

	return numerator.Format(cfg, period, next), nil
}
