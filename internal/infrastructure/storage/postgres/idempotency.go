package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/settlement"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
)

// staleAfter is how long a pending key may sit before another request may reclaim it.
const staleAfter = time.Minute

// IdempotencyRecord is one row of sys_idempotency.
type IdempotencyRecord struct {
	Key         string            `db:"idempotency_key"`
	Actor       string            `db:"actor"`
	Operation   string            `db:"operation"`
	Status      IdempotencyStatus `db:"status"`
	RequestHash string            `db:"request_hash"`
	Response    []byte            `db:"response"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	ExpiresAt   time.Time         `db:"expires_at"`
}

// IdempotencyStore manages settlement idempotency keys.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

var _ settlement.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl}
}

// AcquireKey claims key. The upsert either creates a pending row or touches
// the existing one; xmax = 0 only on a fresh insert.
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, actor, operation, requestHash string) ([]byte, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	expiresAt := now.Add(s.ttl)

	var (
		rec      IdempotencyRecord
		inserted bool
	)
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, actor, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, $7)
		RETURNING idempotency_key, actor, operation, status, request_hash, response,
			created_at, updated_at, expires_at, (xmax = 0) AS inserted
	`, key, actor, operation, IdempotencyStatusPending, requestHash, now, expiresAt).Scan(
		&rec.Key, &rec.Actor, &rec.Operation, &rec.Status, &rec.RequestHash,
		&rec.Response, &rec.CreatedAt, &rec.UpdatedAt, &rec.ExpiresAt, &inserted,
	)
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}

	if inserted {
		return nil, nil
	}

	if rec.Operation != operation || rec.RequestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("storedOperation", rec.Operation).
			WithDetail("requestOperation", operation)
	}

	switch rec.Status {
	case IdempotencyStatusSuccess:
		return rec.Response, nil

	case IdempotencyStatusPending:
		if time.Since(rec.UpdatedAt) <= staleAfter {
			return nil, apperror.NewIdempotencyConflict(key)
		}
		tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
			UPDATE sys_idempotency
			SET updated_at = $1, actor = $2
			WHERE idempotency_key = $3 AND status = $4 AND updated_at = $5
		`, now, actor, key, IdempotencyStatusPending, rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("reclaim stale key: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperror.NewIdempotencyConflict(key)
		}
		return nil, nil
	}

	return nil, apperror.NewIdempotencyConflict(key)
}

// CompleteKey stores the settlement result for replay.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, result any) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1, response = $2, updated_at = $3
		WHERE idempotency_key = $4
	`, IdempotencyStatusSuccess, body, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// ReleaseKey deletes a pending key so the request can be retried.
func (s *IdempotencyStore) ReleaseKey(ctx context.Context, key string) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE idempotency_key = $1 AND status = $2
	`, key, IdempotencyStatusPending)
	if err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE expires_at < $1
	`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup idempotency keys: %w", err)
	}
	return result.RowsAffected(), nil
}
