package memory

import (
	"context"

	"coopledger/internal/domain/members"
)

// MemberRepo implements members.Repository.
type MemberRepo struct{ s *Store }

var _ members.Repository = (*MemberRepo)(nil)

// Members returns the member view of the store.
func (s *Store) Members() *MemberRepo { return &MemberRepo{s: s} }

func (r *MemberRepo) List(_ context.Context) ([]members.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]members.Member, len(r.s.members))
	copy(out, r.s.members)
	return out, nil
}
