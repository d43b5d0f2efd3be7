package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsbeat/pkg/domain"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/backfiller.go -pkg mocks -skip-ensure -fmt goimports . Backfiller

// ErrBusy returned by RunNow when a batch is already in progress
var ErrBusy = errors.New("ingestion batch in progress")

// Runner executes one ingestion batch
type Runner interface {
	Run(ctx context.Context) (domain.BatchSummary, error)
}

// Backfiller fills AI fields missed by ingestion
type Backfiller interface {
	BackfillAI(ctx context.Context) (domain.BackfillSummary, error)
}

// Params for scheduler
type Params struct {
	Runner           Runner
	Backfiller       Backfiller    // optional
	UpdateInterval   time.Duration // how often to run ingestion
	BackfillInterval time.Duration // how often to run AI backfill, 0 disables it
}

// Status is a snapshot of the last runs
type Status struct {
	Runs         int                     `json:"runs"`
	LastRun      *domain.BatchSummary    `json:"last_run,omitempty"`
	LastError    string                  `json:"last_error,omitempty"`
	LastBackfill *domain.BackfillSummary `json:"last_backfill,omitempty"`
	InProgress   bool                    `json:"in_progress"`
}

// Scheduler manages periodic ingestion and AI backfill
type Scheduler struct {
	runner           Runner
	backfiller       Backfiller
	updateInterval   time.Duration
	backfillInterval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
	runMu  sync.Mutex // one batch at a time

	mu     sync.RWMutex
	status Status
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.UpdateInterval <= 0 {
		params.UpdateInterval = 30 * time.Minute
	}
	return &Scheduler{
		runner:           params.Runner,
		backfiller:       params.Backfiller,
		updateInterval:   params.UpdateInterval,
		backfillInterval: params.BackfillInterval,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.ingestWorker(ctx)

	if s.backfiller != nil && s.backfillInterval > 0 {
		s.wg.Add(1)
		go s.backfillWorker(ctx)
	}

	lgr.Printf("[INFO] scheduler started with update interval %v, backfill interval %v", s.updateInterval, s.backfillInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// RunNow runs ingestion batch immediately, unless another one is in progress
func (s *Scheduler) RunNow(ctx context.Context) (domain.BatchSummary, error) {
	if !s.runMu.TryLock() {
		return domain.BatchSummary{}, ErrBusy
	}
	defer s.runMu.Unlock()

	s.setInProgress(true)
	summary, err := s.runner.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.InProgress = false
	s.status.Runs++
	s.status.LastRun = &summary
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	return summary, err
}

// Status returns a copy of the current status
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.status
	if s.status.LastRun != nil {
		last := *s.status.LastRun
		res.LastRun = &last
	}
	if s.status.LastBackfill != nil {
		last := *s.status.LastBackfill
		res.LastBackfill = &last
	}
	return res
}

// ingestWorker runs ingestion right away and then on every tick
func (s *Scheduler) ingestWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	s.runBatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *Scheduler) runBatch(ctx context.Context) {
	if _, err := s.RunNow(ctx); err != nil {
		if errors.Is(err, ErrBusy) || ctx.Err() != nil {
			return
		}
		lgr.Printf("[ERROR] ingestion batch failed: %v", err)
	}
}

// backfillWorker periodically enriches articles missed by ingestion
func (s *Scheduler) backfillWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.backfillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.backfiller.BackfillAI(ctx)
			if err != nil && ctx.Err() == nil {
				lgr.Printf("[WARN] ai backfill failed: %v", err)
			}
			s.mu.Lock()
			s.status.LastBackfill = &res
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) setInProgress(v bool) {
	s.mu.Lock()
	s.status.InProgress = v
	s.mu.Unlock()
}
