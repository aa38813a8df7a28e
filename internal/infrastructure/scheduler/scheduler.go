package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc runs one pass of a background job
type JobFunc func(ctx context.Context) error

// Job is a named task run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means the scheduler default.
	Timeout time.Duration
	// RunOnStart runs the job once right after Start instead of waiting one interval
	RunOnStart bool
	Run        JobFunc
}

// Config holds scheduler settings
type Config struct {
	Enabled        bool
	DefaultTimeout time.Duration
}

// IntervalScheduler runs registered jobs on their own tickers. A job never
// overlaps itself: a tick that fires while the previous run is still going is
// skipped.
type IntervalScheduler struct {
	config    Config
	logger    *zap.Logger
	jobs      map[string]*jobState
	order     []string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	runCtx    context.Context
}

type jobState struct {
	job     Job
	running sync.Mutex
}

// NewIntervalScheduler creates a new scheduler
func NewIntervalScheduler(config Config, logger *zap.Logger) *IntervalScheduler {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalScheduler{
		config: config,
		logger: logger,
		jobs:   make(map[string]*jobState),
	}
}

// Register adds a job. Jobs must be registered before Start.
func (s *IntervalScheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil || job.Interval <= 0 {
		return fmt.Errorf("%w: job needs a name, a run function and a positive interval", ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: duplicate job %q", ErrInvalidConfig, job.Name)
	}
	s.jobs[job.Name] = &jobState{job: job}
	s.order = append(s.order, job.Name)
	return nil
}

// Start starts one loop per registered job
func (s *IntervalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Scheduler is disabled")
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.runCtx = ctx

	for _, name := range s.order {
		state := s.jobs[name]
		s.wg.Add(1)
		go s.loop(ctx, state)
	}
	s.mu.Unlock()

	s.logger.Info("Scheduler started", zap.Strings("jobs", s.order))
	return nil
}

// Stop cancels all loops and waits for in-flight runs to return
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger runs a job immediately in the background
func (s *IntervalScheduler) Trigger(name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	state, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	ctx := s.runCtx
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.execute(ctx, state)
	}()
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *IntervalScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *IntervalScheduler) loop(ctx context.Context, state *jobState) {
	defer s.wg.Done()

	if state.job.RunOnStart {
		s.execute(ctx, state)
	}

	ticker := time.NewTicker(state.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Job loop stopping", zap.String("job", state.job.Name))
			return
		case <-ticker.C:
			s.execute(ctx, state)
		}
	}
}

func (s *IntervalScheduler) execute(ctx context.Context, state *jobState) {
	if !state.running.TryLock() {
		s.logger.Warn("Skipping job run, previous run still in progress",
			zap.String("job", state.job.Name),
		)
		return
	}
	defer state.running.Unlock()

	timeout := state.job.Timeout
	if timeout <= 0 {
		timeout = s.config.DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startTime := time.Now()
	err := s.safeRun(runCtx, state.job.Run)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Job run failed",
			zap.String("job", state.job.Name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Job run completed",
		zap.String("job", state.job.Name),
		zap.Duration("duration", duration),
	)
}

func (s *IntervalScheduler) safeRun(ctx context.Context, run JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return run(ctx)
}
