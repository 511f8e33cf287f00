package memory

import (
	"context"
	"time"

	"coopledger/internal/domain/settlement"
)

// AuditRecord is one in-memory audit entry.
type AuditRecord struct {
	EntityType string
	EntityID   string
	Action     string
	Changes    map[string]any
	CreatedAt  time.Time
}

// Outbox implements settlement.EventPublisher by keeping events in order.
type Outbox struct{ s *Store }

// Events returns the outbox view of the store.
func (s *Store) Events() *Outbox { return &Outbox{s: s} }

func (o *Outbox) Publish(_ context.Context, event settlement.Event) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.events = append(o.s.events, event)
	return nil
}

// Published returns a copy of every published event.
func (o *Outbox) Published() []settlement.Event {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := make([]settlement.Event, len(o.s.events))
	copy(out, o.s.events)
	return out
}

// AuditLog implements settlement.AuditLogger.
type AuditLog struct{ s *Store }

// Audit returns the audit view of the store.
func (s *Store) Audit() *AuditLog { return &AuditLog{s: s} }

func (a *AuditLog) LogChange(_ context.Context, entityType, entityID, action string, changes map[string]any) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.audit = append(a.s.audit, AuditRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		CreatedAt:  a.s.now().UTC(),
	})
	return nil
}

// Entries returns a copy of the audit log.
func (a *AuditLog) Entries() []AuditRecord {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	out := make([]AuditRecord, len(a.s.audit))
	copy(out, a.s.audit)
	return out
}
