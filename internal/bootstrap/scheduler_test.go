package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

func newTestScheduler(locker redis.LockRepository, jobs []SweepJob) *Scheduler {
	return NewScheduler(jobs, locker, &mlog.NoneLogger{}, &mopentelemetry.Telemetry{})
}

func sweepJob(run func(ctx context.Context) error) SweepJob {
	return SweepJob{
		Name:           "processPendingTransfers",
		LeaseName:      "processPendingTransfers",
		Interval:       10 * time.Second,
		LockAtMostFor:  60 * time.Second,
		LockAtLeastFor: 9 * time.Second,
		Run:            run,
	}
}

func TestTickRunsUnderLease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locker := redis.NewMockLockRepository(ctrl)

	ran := false
	job := sweepJob(func(ctx context.Context) error {
		ran = true
		return nil
	})

	lease := &redis.Lease{Name: job.LeaseName, Token: "token", AcquiredAt: time.Now(), AtLeastFor: job.LockAtLeastFor}

	locker.EXPECT().
		Acquire(gomock.Any(), job.LeaseName, job.LockAtMostFor, job.LockAtLeastFor).
		Return(lease, nil)
	locker.EXPECT().Release(gomock.Any(), lease).Return(nil)

	s := newTestScheduler(locker, []SweepJob{job})
	s.tick(job)

	assert.True(t, ran)
}

func TestTickSkipsWhenLeaseHeldElsewhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locker := redis.NewMockLockRepository(ctrl)

	job := sweepJob(func(ctx context.Context) error {
		t.Fatal("sweep must not run without the lease")
		return nil
	})

	locker.EXPECT().
		Acquire(gomock.Any(), job.LeaseName, job.LockAtMostFor, job.LockAtLeastFor).
		Return(nil, nil)

	s := newTestScheduler(locker, []SweepJob{job})
	s.tick(job)
}

func TestTickSwallowsSweepFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locker := redis.NewMockLockRepository(ctrl)

	job := sweepJob(func(ctx context.Context) error {
		return errors.New("storage fault")
	})

	lease := &redis.Lease{Name: job.LeaseName, Token: "token", AcquiredAt: time.Now(), AtLeastFor: job.LockAtLeastFor}

	locker.EXPECT().Acquire(gomock.Any(), job.LeaseName, gomock.Any(), gomock.Any()).Return(lease, nil)
	locker.EXPECT().Release(gomock.Any(), lease).Return(nil)

	s := newTestScheduler(locker, []SweepJob{job})

	assert.NotPanics(t, func() { s.tick(job) })
}

func TestTickSwallowsSweepPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locker := redis.NewMockLockRepository(ctrl)

	job := sweepJob(func(ctx context.Context) error {
		panic("boom")
	})

	lease := &redis.Lease{Name: job.LeaseName, Token: "token", AcquiredAt: time.Now(), AtLeastFor: job.LockAtLeastFor}

	locker.EXPECT().Acquire(gomock.Any(), job.LeaseName, gomock.Any(), gomock.Any()).Return(lease, nil)
	locker.EXPECT().Release(gomock.Any(), lease).Return(nil)

	s := newTestScheduler(locker, []SweepJob{job})

	assert.NotPanics(t, func() { s.tick(job) })
}

func TestTickSkipsOnAcquireError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locker := redis.NewMockLockRepository(ctrl)

	job := sweepJob(func(ctx context.Context) error {
		t.Fatal("sweep must not run when the lock store fails")
		return nil
	})

	locker.EXPECT().
		Acquire(gomock.Any(), job.LeaseName, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down"))

	s := newTestScheduler(locker, []SweepJob{job})

	assert.NotPanics(t, func() { s.tick(job) })
}
