package memory

import (
	"context"
	"sort"

	"coopledger/internal/domain/dividend"
)

// ArchiveRepo implements dividend.ArchiveRepository.
type ArchiveRepo struct{ s *Store }

var _ dividend.ArchiveRepository = (*ArchiveRepo)(nil)

// Archive returns the archived snapshot view of the store.
func (s *Store) Archive() *ArchiveRepo { return &ArchiveRepo{s: s} }

func (r *ArchiveRepo) ReplaceDaily(_ context.Context, rec *dividend.ArchiveRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.archive[:0]
	for _, a := range r.s.archive {
		if !a.Day.Equal(rec.Day) {
			kept = append(kept, a)
		}
	}

	r.s.nextArchiveID++
	rec.ID = r.s.nextArchiveID
	rec.CreatedAt = r.s.now().UTC()
	r.s.archive = append(kept, *rec)
	return nil
}

func (r *ArchiveRepo) List(_ context.Context, limit int) ([]dividend.ArchiveRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]dividend.ArchiveRecord, len(r.s.archive))
	copy(out, r.s.archive)
	sort.Slice(out, func(i, j int) bool { return out[i].Day.After(out[j].Day) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
