// Package scheduler runs the batch on a cron schedule for watch mode.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled batch; it returns how many postings it exported
type Job func(ctx context.Context) (int, error)

// Status is the outcome of the most recent run
type Status struct {
	Running    bool      `json:"running"`
	Runs       int       `json:"runs"`
	LastStart  time.Time `json:"last_start,omitempty"`
	LastFinish time.Time `json:"last_finish,omitempty"`
	LastCount  int       `json:"last_count"`
	LastError  string    `json:"last_error,omitempty"`
}

// Scheduler wraps robfig/cron. Overlapping ticks are skipped so only one
// run writes the seen store at a time.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	job      Job
	logger   *zap.Logger

	mu     sync.Mutex
	status Status
}

func New(schedule string, job Job, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		schedule: schedule,
		job:      job,
		logger:   logger,
	}
}

// Start registers the job and starts the scheduler. With runNow the first
// batch runs immediately instead of waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("⏰ Scheduler started", zap.String("schedule", s.schedule))

	if runNow {
		go s.RunOnce(ctx)
	}
	return nil
}

// Stop waits for a running batch to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("⏰ Scheduler stopped")
}

// RunOnce executes the job and records its outcome. A run already in
// progress makes this a no-op.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.status.Running {
		s.mu.Unlock()
		s.logger.Warn("⚠️ Previous run still in progress, skipping")
		return
	}
	s.status.Running = true
	s.status.LastStart = time.Now()
	s.mu.Unlock()

	count, err := s.job(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.Runs++
	s.status.LastFinish = time.Now()
	s.status.LastCount = count
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
		s.logger.Error("❌ Scheduled run failed", zap.Error(err))
	}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
