package command

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/mutation"
	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/internal/services"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

func newMutationUseCase(ctrl *gomock.Controller) (*UseCase, *mutation.MockRepository, *redis.MockCacheRepository, *rabbitmq.MockProducerRepository) {
	mutationRepo := mutation.NewMockRepository(ctrl)
	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	uc := &UseCase{
		MutationRepo: mutationRepo,
		CacheRepo:    cacheRepo,
		ProducerRepo: producerRepo,
		Dispatcher: &services.EventDispatcher{
			CacheRepo:    cacheRepo,
			ProducerRepo: producerRepo,
		},
		CacheTTL: 300 * time.Second,
	}

	return uc, mutationRepo, cacheRepo, producerRepo
}

func completedDebit(externalID int64, userID string, amount decimal.Decimal) *mmodel.BalanceMutation {
	before := decimal.RequireFromString("1000.00")
	after := before.Sub(amount)
	completedAt := time.Now()

	return &mmodel.BalanceMutation{
		ID:            42,
		ExternalID:    externalID,
		Type:          constant.MutationTypeDebit,
		UserID:        userID,
		Amount:        amount.Neg(),
		Status:        constant.MutationStatusCompleted,
		BalanceBefore: &before,
		BalanceAfter:  &after,
		CompletedAt:   &completedAt,
	}
}

func TestDebitAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, mutationRepo, cacheRepo, producerRepo := newMutationUseCase(ctrl)

	amount := decimal.RequireFromString("300.00")

	t.Run("Success invalidates the cache and publishes the result", func(t *testing.T) {
		m := completedDebit(1, "alice", amount)

		mutationRepo.EXPECT().
			Apply(gomock.Any(), int64(1), constant.MutationTypeDebit, "alice", amount.Neg()).
			Return(m, false, nil)

		cacheRepo.EXPECT().Del(gomock.Any(), "alice").Return(nil)

		producerRepo.EXPECT().
			PublishBalanceChangeResult(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, result *mmodel.BalanceChangeResult) error {
				assert.Equal(t, int64(1), result.ExternalID)
				assert.Equal(t, constant.BalanceChangeTypeTransferOut, result.Type)
				assert.True(t, result.Success)
				assert.Equal(t, "alice", result.UserID)
				return nil
			})

		result, err := uc.DebitAccount(context.Background(), 1, "alice", amount)

		assert.NoError(t, err)
		assert.Equal(t, m, result)
	})

	t.Run("Replay re-emits the same completion event", func(t *testing.T) {
		m := completedDebit(1, "alice", amount)

		mutationRepo.EXPECT().
			Apply(gomock.Any(), int64(1), constant.MutationTypeDebit, "alice", amount.Neg()).
			Return(m, true, nil)

		cacheRepo.EXPECT().Del(gomock.Any(), "alice").Return(nil)
		producerRepo.EXPECT().PublishBalanceChangeResult(gomock.Any(), gomock.Any()).Return(nil)

		result, err := uc.DebitAccount(context.Background(), 1, "alice", amount)

		assert.NoError(t, err)
		assert.Equal(t, m, result)
	})

	t.Run("Insufficient balance publishes a failed result without invalidation", func(t *testing.T) {
		reason := "insufficient balance: have=50.00, need=300.00"
		before := decimal.RequireFromString("50.00")

		failed := &mmodel.BalanceMutation{
			ID:            43,
			ExternalID:    2,
			Type:          constant.MutationTypeDebit,
			UserID:        "alice",
			Amount:        amount.Neg(),
			Status:        constant.MutationStatusFailed,
			BalanceBefore: &before,
			FailureReason: &reason,
		}

		mutationRepo.EXPECT().
			Apply(gomock.Any(), int64(2), constant.MutationTypeDebit, "alice", amount.Neg()).
			Return(failed, false, nil)

		producerRepo.EXPECT().
			PublishBalanceChangeResult(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, result *mmodel.BalanceChangeResult) error {
				assert.False(t, result.Success)
				assert.Equal(t, &reason, result.FailureReason)
				return nil
			})

		result, err := uc.DebitAccount(context.Background(), 2, "alice", amount)

		assert.NoError(t, err)
		assert.Equal(t, constant.MutationStatusFailed, result.Status)
	})

	t.Run("Missing user raises and creates no event", func(t *testing.T) {
		expected := pkg.ValidateBusinessError(constant.ErrUserNotFound, "Account", "ghost")

		mutationRepo.EXPECT().
			Apply(gomock.Any(), int64(3), constant.MutationTypeDebit, "ghost", amount.Neg()).
			Return(nil, false, expected)

		result, err := uc.DebitAccount(context.Background(), 3, "ghost", amount)

		assert.Error(t, err)
		assert.Equal(t, expected, err)
		assert.Nil(t, result)
	})
}

func TestCreditAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, mutationRepo, cacheRepo, producerRepo := newMutationUseCase(ctrl)

	amount := decimal.RequireFromString("300.00")
	before := decimal.RequireFromString("500.00")
	after := before.Add(amount)

	m := &mmodel.BalanceMutation{
		ID:            44,
		ExternalID:    1,
		Type:          constant.MutationTypeCredit,
		UserID:        "bobby",
		Amount:        amount,
		Status:        constant.MutationStatusCompleted,
		BalanceBefore: &before,
		BalanceAfter:  &after,
	}

	mutationRepo.EXPECT().
		Apply(gomock.Any(), int64(1), constant.MutationTypeCredit, "bobby", amount).
		Return(m, false, nil)

	cacheRepo.EXPECT().Del(gomock.Any(), "bobby").Return(nil)

	producerRepo.EXPECT().
		PublishBalanceChangeResult(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, result *mmodel.BalanceChangeResult) error {
			assert.Equal(t, constant.BalanceChangeTypeTransferIn, result.Type)
			assert.True(t, result.Success)
			return nil
		})

	result, err := uc.CreditAccount(context.Background(), 1, "bobby", amount)

	assert.NoError(t, err)
	assert.Equal(t, m, result)
}
