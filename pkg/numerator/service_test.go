package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "coopledger/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences per key.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
	err    error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	increment := int64(1)
	if len(args) == 2 {
		increment = args[1].(int64)
	}
	m.values[key] += increment
	return &mockRow{val: m.values[key]}
}

var period = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := core.DefaultConfig("ORD")

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00002", num)
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := core.DefaultConfig("ORD")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 10}

	for i := 1; i <= 10; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
		assert.Equal(t, Format(cfg, period, int64(i)), num)
	}
	assert.Equal(t, 1, q.calls, "one range reservation serves ten numbers")

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00011", num)
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_Concurrent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := core.DefaultConfig("ORD")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 7}

	const n = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, opts, period)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "numbers must be unique")
}

func TestGetNextNumber_Error(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("relation sys_sequences does not exist")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), core.DefaultConfig("ORD"), nil, period)
	assert.Error(t, err)
}

func TestBuildKeyAndFormat(t *testing.T) {
	cfg := core.DefaultConfig("ORD")
	assert.Equal(t, "ORD_2026", BuildKey(cfg, period))

	cfg.ResetPeriod = core.ResetMonthly
	assert.Equal(t, "ORD_2026_03", BuildKey(cfg, period))

	cfg.ResetPeriod = core.ResetNever
	cfg.IncludeYear = false
	cfg.PadWidth = 3
	assert.Equal(t, "ORD", BuildKey(cfg, period))
	assert.Equal(t, "ORD-042", Format(cfg, period, 42))
}
