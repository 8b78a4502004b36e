package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/common"
)

func TestRegisterJob(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	require.NoError(t, svc.RegisterJob("daily", "0 6 * * *", func(ctx context.Context) error { return nil }))

	err := svc.RegisterJob("daily", "0 7 * * *", func(ctx context.Context) error { return nil })
	assert.Error(t, err, "duplicate names are rejected")

	err = svc.RegisterJob("bad", "whenever", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunNow_RecordsOutcome(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	calls := 0
	require.NoError(t, svc.RegisterJob("daily", "@daily", func(ctx context.Context) error {
		calls++
		if calls == 2 {
			return errors.New("no puzzles generated")
		}
		return nil
	}))

	require.NoError(t, svc.RunNow("daily"))
	status, err := svc.GetJobStatus("daily")
	require.NoError(t, err)
	assert.NotNil(t, status.LastRun)
	assert.Empty(t, status.LastError)
	assert.False(t, status.IsRunning)

	err = svc.RunNow("daily")
	assert.Error(t, err)
	status, err = svc.GetJobStatus("daily")
	require.NoError(t, err)
	assert.Equal(t, "no puzzles generated", status.LastError)
	assert.Equal(t, 2, calls)
}

func TestExecuteJob_SkipsWhileRunning(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	require.NoError(t, svc.RegisterJob("daily", "@daily", func(ctx context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() { done <- svc.RunNow("daily") }()
	<-started

	// A tick or manual trigger during the run returns immediately
	assert.False(t, svc.executeJob("daily"))
	assert.Error(t, svc.RunNow("daily"))

	status, err := svc.GetJobStatus("daily")
	require.NoError(t, err)
	assert.True(t, status.IsRunning)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunNow_RecoversPanic(t *testing.T) {
	common.CrashLogDir = t.TempDir()
	svc := NewService(arbor.NewLogger())
	require.NoError(t, svc.RegisterJob("boom", "@hourly", func(ctx context.Context) error {
		panic("unexpected")
	}))

	err := svc.RunNow("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: unexpected")
}

func TestRunNow_UnknownJob(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	assert.Error(t, svc.RunNow("missing"))

	_, err := svc.GetJobStatus("missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	var jobCtx context.Context
	require.NoError(t, svc.RegisterJob("daily", "@daily", func(ctx context.Context) error {
		jobCtx = ctx
		return nil
	}))

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())
	assert.Error(t, svc.Start())

	status, err := svc.GetJobStatus("daily")
	require.NoError(t, err)
	assert.NotNil(t, status.NextRun)

	require.NoError(t, svc.RunNow("daily"))
	svc.Stop()
	assert.False(t, svc.IsRunning())
	assert.Error(t, jobCtx.Err(), "stopping cancels the job context")
}
