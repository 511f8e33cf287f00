package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/settlement"
)

type keyStatus string

const (
	keyPending keyStatus = "pending"
	keySuccess keyStatus = "success"
)

type keyRecord struct {
	actor       string
	operation   string
	requestHash string
	status      keyStatus
	response    []byte
	expiresAt   time.Time
}

// IdempotencyStore implements settlement.IdempotencyStore.
type IdempotencyStore struct {
	s   *Store
	ttl time.Duration
}

var _ settlement.IdempotencyStore = (*IdempotencyStore)(nil)

// Idempotency returns the idempotency key view of the store.
func (s *Store) Idempotency(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{s: s, ttl: ttl}
}

func (k *IdempotencyStore) AcquireKey(_ context.Context, key, actor, operation, requestHash string) ([]byte, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()

	now := k.s.now()
	rec, ok := k.s.keys[key]
	if ok && now.After(rec.expiresAt) {
		delete(k.s.keys, key)
		ok = false
	}
	if !ok {
		k.s.keys[key] = &keyRecord{
			actor:       actor,
			operation:   operation,
			requestHash: requestHash,
			status:      keyPending,
			expiresAt:   now.Add(k.ttl),
		}
		return nil, nil
	}

	if rec.operation != operation || rec.requestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key)
	}
	if rec.status == keySuccess {
		return rec.response, nil
	}
	return nil, apperror.NewIdempotencyConflict(key)
}

func (k *IdempotencyStore) CompleteKey(_ context.Context, key string, result any) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	k.s.mu.Lock()
	defer k.s.mu.Unlock()

	rec, ok := k.s.keys[key]
	if !ok {
		return apperror.NewNotFound("idempotency key", key)
	}
	rec.status = keySuccess
	rec.response = b
	return nil
}

func (k *IdempotencyStore) ReleaseKey(_ context.Context, key string) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()

	if rec, ok := k.s.keys[key]; ok && rec.status == keyPending {
		delete(k.s.keys, key)
	}
	return nil
}

// CleanupExpired drops expired keys and reports how many were removed.
func (k *IdempotencyStore) CleanupExpired(_ context.Context) (int64, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()

	now := k.s.now()
	var n int64
	for key, rec := range k.s.keys {
		if now.After(rec.expiresAt) {
			delete(k.s.keys, key)
			n++
		}
	}
	return n, nil
}
