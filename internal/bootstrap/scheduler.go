package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// SweepJob describes one periodic, lease-gated sweep.
type SweepJob struct {
	Name           string
	LeaseName      string
	Interval       time.Duration
	LockAtMostFor  time.Duration
	LockAtLeastFor time.Duration
	Run            func(ctx context.Context) error
}

// Scheduler drives the sweep jobs. Each job runs on its own ticker; every tick first
// takes the job's distributed lease so only one replica sweeps at a time. Sweep
// failures are logged and swallowed: the scheduler's own loop must never die with them.
type Scheduler struct {
	jobs      []SweepJob
	locker    redis.LockRepository
	logger    mlog.Logger
	telemetry *mopentelemetry.Telemetry
}

// NewScheduler creates a new instance of Scheduler.
func NewScheduler(jobs []SweepJob, locker redis.LockRepository, logger mlog.Logger, telemetry *mopentelemetry.Telemetry) *Scheduler {
	return &Scheduler{
		jobs:      jobs,
		locker:    locker,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Run starts every job loop and blocks until the process is asked to stop.
func (s *Scheduler) Run(l *pkg.Launcher) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	for _, job := range s.jobs {
		go s.runJob(job, done)
	}

	s.logger.Infof("Scheduler started with %d job(s)", len(s.jobs))

	<-quit
	close(done)

	s.logger.Info("Scheduler stopped")

	return nil
}

func (s *Scheduler) runJob(job SweepJob, done <-chan struct{}) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(job)
		case <-done:
			return
		}
	}
}

// tick runs one lease-gated sweep iteration.
func (s *Scheduler) tick(job SweepJob) {
	logger := s.logger.WithFields("job", job.Name)

	ctx := pkg.ContextWithLogger(context.Background(), logger)
	ctx = pkg.ContextWithTracer(ctx, s.telemetry.Tracer())

	lease, err := s.locker.Acquire(ctx, job.LeaseName, job.LockAtMostFor, job.LockAtLeastFor)
	if err != nil {
		logger.Errorf("Failed to acquire lease %s: %v", job.LeaseName, err)

		return
	}

	if lease == nil {
		// Another replica holds the lease; skip this tick.
		return
	}

	defer func() {
		if err := s.locker.Release(ctx, lease); err != nil {
			logger.Errorf("Failed to release lease %s: %v", job.LeaseName, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Sweep %s panicked: %v", job.Name, r)
		}
	}()

	if err := job.Run(ctx); err != nil {
		logger.Errorf("Sweep %s failed: %v", job.Name, err)
	}
}
