// Package memory is a process-local implementation of every store the
// service needs. It backs STORAGE=memory and the domain tests.
// State lives in one Store guarded by a single RWMutex.
package memory

import (
	"context"
	"sync"
	"time"

	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
)

// Store holds all in-memory state.
type Store struct {
	mu sync.RWMutex

	products  []inventory.Product
	members   []members.Member
	purchases []purchase.Line
	orders    map[string]settlement.Header
	archive   []dividend.ArchiveRecord
	events    []settlement.Event
	audit     []AuditRecord
	keys      map[string]*keyRecord
	sequences map[string]int64

	nextProductID  int64
	nextPurchaseID int64
	nextOrderID    int64
	nextArchiveID  int64

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		orders:    make(map[string]settlement.Header),
		keys:      make(map[string]*keyRecord),
		sequences: make(map[string]int64),
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// AddProduct inserts a production row and returns its id.
func (s *Store) AddProduct(p inventory.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p.ID = s.nextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	s.products = append(s.products, p)
	return p.ID
}

// AddMember inserts a member and returns its id.
func (s *Store) AddMember(m members.Member) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = int64(len(s.members) + 1)
	s.members = append(s.members, m)
	return m.ID
}

// TxManager has no rollback: every write is applied immediately.
// Callers that need atomicity rely on the single-call primitives instead.
type TxManager struct{}

// RunInTransaction runs fn directly.
func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ReadOnly runs fn directly.
func (TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
