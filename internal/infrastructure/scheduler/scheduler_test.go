package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "coopledger/internal/core/context"
	"coopledger/pkg/logger"
)

func TestScheduler_AddJob(t *testing.T) {
	s := New(context.Background(), logger.Nop(), time.Second)

	job := JobFunc{JobName: "noop", Fn: func(context.Context) error { return nil }}
	require.NoError(t, s.AddJob("@hourly", job))
	assert.Equal(t, 1, s.Entries())

	assert.Error(t, s.AddJob("not a schedule", job))
	assert.Equal(t, 1, s.Entries())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(context.Background(), logger.Nop(), time.Second)

	var staff, source string
	var hasDeadline bool
	err := s.RunNow(JobFunc{JobName: "probe", Fn: func(ctx context.Context) error {
		staff = appctx.GetStaffName(ctx)
		source = appctx.GetActor(ctx).Source
		_, hasDeadline = ctx.Deadline()
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, appctx.DefaultStaffName, staff)
	assert.Equal(t, "worker", source)
	assert.True(t, hasDeadline)

	boom := errors.New("boom")
	err = s.RunNow(JobFunc{JobName: "fails", Fn: func(context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)
}
