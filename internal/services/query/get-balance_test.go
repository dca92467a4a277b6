package query

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

func newQueryUseCase(ctrl *gomock.Controller) (*UseCase, *account.MockRepository, *transfer.MockRepository, *redis.MockCacheRepository) {
	accountRepo := account.NewMockRepository(ctrl)
	transferRepo := transfer.NewMockRepository(ctrl)
	cacheRepo := redis.NewMockCacheRepository(ctrl)

	uc := &UseCase{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
		CacheRepo:    cacheRepo,
		CacheTTL:     300 * time.Second,
	}

	return uc, accountRepo, transferRepo, cacheRepo
}

func TestGetAccountBalanceCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, _, _, cacheRepo := newQueryUseCase(ctrl)

	cacheRepo.EXPECT().
		Get(gomock.Any(), "alice").
		Return(&mmodel.CachedBalance{UserID: "alice", Balance: "700.00"}, nil)

	view, err := uc.GetAccountBalance(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, "alice", view.UserID)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("700.00")))
}

func TestGetAccountBalanceCacheMissReadsStoreAndRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, accountRepo, _, cacheRepo := newQueryUseCase(ctrl)

	balance := decimal.RequireFromString("123.45")

	cacheRepo.EXPECT().Get(gomock.Any(), "alice").Return(nil, nil)
	accountRepo.EXPECT().Find(gomock.Any(), "alice").Return(&mmodel.Account{UserID: "alice", Balance: balance, Version: 3}, nil)
	cacheRepo.EXPECT().
		Set(gomock.Any(), gomock.Any(), 300*time.Second).
		DoAndReturn(func(_ context.Context, cached *mmodel.CachedBalance, _ time.Duration) error {
			assert.Equal(t, "alice", cached.UserID)
			assert.Equal(t, "123.45", cached.Balance)
			assert.Equal(t, int64(3), cached.Version)
			return nil
		})

	view, err := uc.GetAccountBalance(context.Background(), "alice")

	assert.NoError(t, err)
	assert.True(t, view.Balance.Equal(balance))
}

func TestGetAccountBalanceUserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, accountRepo, _, cacheRepo := newQueryUseCase(ctrl)

	expected := pkg.ValidateBusinessError(constant.ErrUserNotFound, "Account", "ghost")

	cacheRepo.EXPECT().Get(gomock.Any(), "ghost").Return(nil, nil)
	accountRepo.EXPECT().Find(gomock.Any(), "ghost").Return(nil, expected)

	view, err := uc.GetAccountBalance(context.Background(), "ghost")

	assert.Error(t, err)
	assert.Equal(t, expected, err)
	assert.Nil(t, view)
}
