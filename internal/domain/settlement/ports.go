package settlement

import (
	"context"
	"time"
)

// IdempotencyStore tracks settlement tokens.
type IdempotencyStore interface {
	// AcquireKey claims key for this request.
	// Returns (nil, nil) when claimed, (stored, nil) when the key already
	// completed, or an IDEMPOTENCY_CONFLICT error while it is still in flight.
	// Reusing a key for a different payload is rejected.
	AcquireKey(ctx context.Context, key, actor, operation, requestHash string) ([]byte, error)

	// CompleteKey stores the result to replay for later requests with key.
	CompleteKey(ctx context.Context, key string, result any) error

	// ReleaseKey drops a claimed key so the caller can retry.
	ReleaseKey(ctx context.Context, key string) error
}

// Event is a domain event written to the outbox.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}

// EventPublisher writes events. Called inside a transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// AuditLogger records what happened to an entity.
type AuditLogger interface {
	LogChange(ctx context.Context, entityType, entityID, action string, changes map[string]any) error
}

// Recorder receives settlement metrics.
type Recorder interface {
	ObserveSettlement(res *Result, elapsed time.Duration)
	ObserveReplay()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSettlement(*Result, time.Duration) {}
func (nopRecorder) ObserveReplay()                           {}

const (
	EventOrderSettled = "OrderSettled"
	AggregateOrder    = "SalesOrder"
	OperationSubmit   = "settlement.submit"
)
