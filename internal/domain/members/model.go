// Package members provides the read-only view of cooperative members and their share capital.
package members

import (
	"coopledger/internal/core/types"
)

// Member is a shareholder of the cooperative.
type Member struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Occupation string `db:"occupation" json:"occupation"`
	ShareCount int64  `db:"share_count" json:"shareCount"`
}

// ShareValue is ShareCount × 1000.
func (m Member) ShareValue() types.Money {
	return types.ShareValue(m.ShareCount)
}

// HasShares reports whether the member takes part in dividend allocation.
func (m Member) HasShares() bool {
	return m.ShareCount > 0
}

// Shareholders filters members with a positive share count, keeping order.
func Shareholders(all []Member) []Member {
	out := make([]Member, 0, len(all))
	for _, m := range all {
		if m.HasShares() {
			out = append(out, m)
		}
	}
	return out
}

// TotalShares sums ShareCount over members with shares.
func TotalShares(all []Member) int64 {
	var total int64
	for _, m := range all {
		if m.HasShares() {
			total += m.ShareCount
		}
	}
	return total
}
