package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newEnabledScheduler(t *testing.T) *IntervalScheduler {
	t.Helper()
	s := NewIntervalScheduler(Config{Enabled: true, DefaultTimeout: time.Second}, zap.NewNop())
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func TestIntervalScheduler_Register(t *testing.T) {
	s := newEnabledScheduler(t)
	noop := func(context.Context) error { return nil }

	assert.NoError(t, s.Register(Job{Name: "a", Interval: time.Second, Run: noop}))
	assert.ErrorIs(t, s.Register(Job{Name: "a", Interval: time.Second, Run: noop}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Job{Name: "b", Run: noop}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Job{Name: "c", Interval: time.Second}), ErrInvalidConfig)
}

func TestIntervalScheduler_RunsOnInterval(t *testing.T) {
	s := newEnabledScheduler(t)
	var runs atomic.Int32

	require.NoError(t, s.Register(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestIntervalScheduler_RunOnStartAndErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := NewIntervalScheduler(Config{Enabled: true}, zap.New(core))
	defer s.Stop(context.Background())

	require.NoError(t, s.Register(Job{
		Name:       "failing",
		Interval:   time.Hour,
		RunOnStart: true,
		Run:        func(context.Context) error { return errors.New("db down") },
	}))
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return logs.FilterMessage("Job run failed").Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestIntervalScheduler_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := NewIntervalScheduler(Config{Enabled: true}, zap.New(core))
	defer s.Stop(context.Background())

	require.NoError(t, s.Register(Job{
		Name:       "panicky",
		Interval:   time.Hour,
		RunOnStart: true,
		Run:        func(context.Context) error { panic("boom") },
	}))
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return logs.FilterMessage("Job run failed").Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.IsRunning())
}

func TestIntervalScheduler_Trigger(t *testing.T) {
	s := newEnabledScheduler(t)
	ran := make(chan struct{}, 1)

	require.NoError(t, s.Register(Job{
		Name:     "manual",
		Interval: time.Hour,
		Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}))

	assert.ErrorIs(t, s.Trigger("manual"), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Trigger("unknown"), ErrJobNotFound)
	require.NoError(t, s.Trigger("manual"))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("triggered job did not run")
	}
}

func TestIntervalScheduler_NoOverlap(t *testing.T) {
	s := newEnabledScheduler(t)
	release := make(chan struct{})
	var concurrent, maxConcurrent atomic.Int32

	require.NoError(t, s.Register(Job{
		Name:     "slow",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n := concurrent.Add(1)
			if n > maxConcurrent.Load() {
				maxConcurrent.Store(n)
			}
			<-release
			concurrent.Add(-1)
			return nil
		},
	}))
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Trigger("slow"))
	assert.Eventually(t, func() bool { return concurrent.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, s.Trigger("slow"))
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, int32(1), maxConcurrent.Load())
}

func TestIntervalScheduler_Disabled(t *testing.T) {
	s := NewIntervalScheduler(Config{Enabled: false}, nil)
	require.NoError(t, s.Register(Job{Name: "x", Interval: time.Millisecond, Run: func(context.Context) error { return nil }}))

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

type fakeReaper struct {
	stats *tradeapp.ReaperStats
	err   error
}

func (f fakeReaper) Run(context.Context) (*tradeapp.ReaperStats, error) { return f.stats, f.err }

type fakeAuditor struct {
	stats *inventoryapp.StockAuditStats
}

func (f fakeAuditor) Audit(context.Context) (*inventoryapp.StockAuditStats, error) { return f.stats, nil }

func TestJobFuncs(t *testing.T) {
	t.Run("reaper logs cancelled orders", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		run := ReaperJobFunc(fakeReaper{stats: &tradeapp.ReaperStats{TotalExpired: 2, Cancelled: 2}}, zap.New(core))

		require.NoError(t, run(context.Background()))
		assert.Equal(t, 1, logs.FilterMessage("Expired pending orders processed").Len())
	})

	t.Run("reaper error is returned", func(t *testing.T) {
		run := ReaperJobFunc(fakeReaper{err: errors.New("boom")}, zap.NewNop())
		assert.Error(t, run(context.Background()))
	})

	t.Run("audit drift is a warning", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		run := StockAuditJobFunc(fakeAuditor{stats: &inventoryapp.StockAuditStats{Checked: 5, Drifted: 1}}, zap.New(core))

		require.NoError(t, run(context.Background()))
		assert.Equal(t, 1, logs.FilterMessage("Stock audit found drift").Len())
	})
}
