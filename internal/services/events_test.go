package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
)

func completedMutation(userID string) *mmodel.BalanceMutation {
	before := decimal.RequireFromString("1000.00")
	after := decimal.RequireFromString("700.00")

	return &mmodel.BalanceMutation{
		ID:            1,
		ExternalID:    10,
		Type:          constant.MutationTypeDebit,
		UserID:        userID,
		Amount:        decimal.RequireFromString("-300.00"),
		Status:        constant.MutationStatusCompleted,
		BalanceBefore: &before,
		BalanceAfter:  &after,
	}
}

func TestOnBalanceMutationCompletedInvalidatesBeforePublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	ed := &EventDispatcher{CacheRepo: cacheRepo, ProducerRepo: producerRepo}

	gomock.InOrder(
		cacheRepo.EXPECT().Del(gomock.Any(), "alice").Return(nil),
		producerRepo.EXPECT().
			PublishBalanceChangeResult(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, result *mmodel.BalanceChangeResult) error {
				assert.Equal(t, int64(10), result.ExternalID)
				assert.Equal(t, constant.BalanceChangeTypeTransferOut, result.Type)
				assert.True(t, result.Success)
				assert.NotNil(t, result.OldBalance)
				assert.NotNil(t, result.NewBalance)
				return nil
			}),
	)

	ed.OnBalanceMutationCompleted(context.Background(), completedMutation("alice"))
}

func TestOnBalanceMutationCompletedFailureSkipsInvalidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	ed := &EventDispatcher{CacheRepo: cacheRepo, ProducerRepo: producerRepo}

	reason := "insufficient balance: have=50.00, need=300.00"
	m := completedMutation("alice")
	m.Status = constant.MutationStatusFailed
	m.BalanceAfter = nil
	m.FailureReason = &reason

	producerRepo.EXPECT().
		PublishBalanceChangeResult(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, result *mmodel.BalanceChangeResult) error {
			assert.False(t, result.Success)
			assert.Equal(t, &reason, result.FailureReason)
			return nil
		})

	ed.OnBalanceMutationCompleted(context.Background(), m)
}

func TestOnBalanceMutationCompletedCacheFailureDoesNotBlockPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	ed := &EventDispatcher{CacheRepo: cacheRepo, ProducerRepo: producerRepo}

	cacheRepo.EXPECT().Del(gomock.Any(), "alice").Return(errors.New("redis down"))
	producerRepo.EXPECT().PublishBalanceChangeResult(gomock.Any(), gomock.Any()).Return(nil)

	ed.OnBalanceMutationCompleted(context.Background(), completedMutation("alice"))
}

func TestOnBalanceMutationCompletedSwallowsPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	ed := &EventDispatcher{CacheRepo: cacheRepo, ProducerRepo: producerRepo}

	cacheRepo.EXPECT().Del(gomock.Any(), "alice").Return(nil)
	producerRepo.EXPECT().PublishBalanceChangeResult(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	// The transaction already committed; the dispatcher must not panic or raise.
	ed.OnBalanceMutationCompleted(context.Background(), completedMutation("alice"))
}
