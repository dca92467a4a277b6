package services

import (
	"context"
	"time"

	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

// EventDispatcher runs the post-commit listeners. Callers invoke it only after their
// database transaction has committed; a rolled-back transaction must never reach it.
type EventDispatcher struct {
	// CacheRepo provides an abstraction on top of the balance projection cache.
	CacheRepo redis.CacheRepository

	// ProducerRepo provides an abstraction on top of the message producer.
	ProducerRepo rabbitmq.ProducerRepository
}

// OnBalanceMutationCompleted handles the completion of a balance mutation: on success
// the cache entry of the affected user is invalidated, then the result message is
// published for success and failure alike. Invalidation precedes the publish so reads
// through the cache observe the new balance before downstream reacts.
//
// Neither side effect can roll the committed mutation back, so failures are logged and
// swallowed; a lost result is re-driven by the retry sweep.
func (ed *EventDispatcher) OnBalanceMutationCompleted(ctx context.Context, m *mmodel.BalanceMutation) {
	logger := pkg.NewLoggerFromContext(ctx)

	if m.Succeeded() {
		if err := ed.CacheRepo.Del(ctx, m.UserID); err != nil {
			logger.Errorf("Failed to invalidate balance cache for user %s: %v", m.UserID, err)
		}
	}

	result := &mmodel.BalanceChangeResult{
		ExternalID:    m.ExternalID,
		Type:          m.ChangeType(),
		Success:       m.Succeeded(),
		UserID:        m.UserID,
		OldBalance:    m.BalanceBefore,
		NewBalance:    m.BalanceAfter,
		FailureReason: m.FailureReason,
		Timestamp:     time.Now().UnixMilli(),
	}

	if err := ed.ProducerRepo.PublishBalanceChangeResult(ctx, result); err != nil {
		logger.Errorf("Failed to publish balance change result for mutation %d/%s: %v", m.ExternalID, m.Type, err)
	}
}

// OnTransferStatusChanged records a transfer status transition. Message publication for
// the advancing edges stays with the caller that moved the state; the event itself is
// observability surface.
func (ed *EventDispatcher) OnTransferStatusChanged(ctx context.Context, t *mmodel.Transfer, from string) {
	logger := pkg.NewLoggerFromContext(ctx)

	if from == "" {
		from = "(none)"
	}

	logger.Infof("Transfer %d status changed: %s -> %s", t.ID, from, t.Status)
}
