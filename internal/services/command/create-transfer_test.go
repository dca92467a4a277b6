package command

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/internal/services"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

func newTestUseCase(ctrl *gomock.Controller) (*UseCase, *account.MockRepository, *transfer.MockRepository, *redis.MockCacheRepository, *rabbitmq.MockProducerRepository) {
	accountRepo := account.NewMockRepository(ctrl)
	transferRepo := transfer.NewMockRepository(ctrl)
	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	uc := &UseCase{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
		CacheRepo:    cacheRepo,
		ProducerRepo: producerRepo,
		Dispatcher: &services.EventDispatcher{
			CacheRepo:    cacheRepo,
			ProducerRepo: producerRepo,
		},
		CacheTTL: 300 * time.Second,
	}

	return uc, accountRepo, transferRepo, cacheRepo, producerRepo
}

func TestCreateTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, accountRepo, transferRepo, cacheRepo, _ := newTestUseCase(ctrl)

	amount := decimal.RequireFromString("300.00")

	testCases := []struct {
		name        string
		input       *mmodel.CreateTransferInput
		mockSetup   func()
		expectErr   error
		expectState string
	}{
		{
			name: "Success persists a PENDING transfer",
			input: &mmodel.CreateTransferInput{
				FromUserID: "alice",
				ToUserID:   "bobby",
				Amount:     amount,
			},
			mockSetup: func() {
				cacheRepo.EXPECT().Get(gomock.Any(), "alice").Return(&mmodel.CachedBalance{UserID: "alice", Balance: "1000.00"}, nil)
				cacheRepo.EXPECT().Get(gomock.Any(), "bobby").Return(&mmodel.CachedBalance{UserID: "bobby", Balance: "500.00"}, nil)
				transferRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *mmodel.Transfer) (*mmodel.Transfer, error) {
						assert.Equal(t, constant.TransferStatusPending, tr.Status)
						tr.ID = 1
						return tr, nil
					})
			},
			expectState: constant.TransferStatusPending,
		},
		{
			name: "Insufficient cached balance quick-fails",
			input: &mmodel.CreateTransferInput{
				FromUserID: "alice",
				ToUserID:   "bobby",
				Amount:     decimal.RequireFromString("2000.00"),
			},
			mockSetup: func() {
				cacheRepo.EXPECT().Get(gomock.Any(), "alice").Return(&mmodel.CachedBalance{UserID: "alice", Balance: "1000.00"}, nil)
				cacheRepo.EXPECT().Get(gomock.Any(), "bobby").Return(&mmodel.CachedBalance{UserID: "bobby", Balance: "500.00"}, nil)
			},
			expectErr: pkg.ValidateBusinessError(constant.ErrInsufficientBalance, "Transfer", "alice"),
		},
		{
			name: "Same account is rejected",
			input: &mmodel.CreateTransferInput{
				FromUserID: "alice",
				ToUserID:   "alice",
				Amount:     amount,
			},
			mockSetup: func() {},
			expectErr: pkg.ValidateBusinessError(constant.ErrSameAccountTransfer, "Transfer"),
		},
		{
			name: "Non-positive amount is rejected",
			input: &mmodel.CreateTransferInput{
				FromUserID: "alice",
				ToUserID:   "bobby",
				Amount:     decimal.Zero,
			},
			mockSetup: func() {},
			expectErr: pkg.ValidateBusinessError(constant.ErrInvalidAmount, "Transfer"),
		},
		{
			name: "Sub-cent precision is rejected",
			input: &mmodel.CreateTransferInput{
				FromUserID: "alice",
				ToUserID:   "bobby",
				Amount:     decimal.RequireFromString("10.001"),
			},
			mockSetup: func() {},
			expectErr: pkg.ValidateBusinessError(constant.ErrInvalidAmount, "Transfer"),
		},
		{
			name: "Missing sender surfaces not found",
			input: &mmodel.CreateTransferInput{
				FromUserID: "ghost",
				ToUserID:   "bobby",
				Amount:     amount,
			},
			mockSetup: func() {
				cacheRepo.EXPECT().Get(gomock.Any(), "ghost").Return(nil, nil)
				accountRepo.EXPECT().Find(gomock.Any(), "ghost").
					Return(nil, pkg.ValidateBusinessError(constant.ErrUserNotFound, "Account", "ghost"))
			},
			expectErr: pkg.ValidateBusinessError(constant.ErrUserNotFound, "Account", "ghost"),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.mockSetup()

			result, err := uc.CreateTransfer(context.Background(), testCase.input)

			if testCase.expectErr != nil {
				assert.Error(t, err)
				assert.Equal(t, testCase.expectErr, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.expectState, result.Status)
				assert.Equal(t, int64(1), result.ID)
			}
		})
	}
}

func TestCreateTransferRefreshesCacheOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, accountRepo, transferRepo, cacheRepo, _ := newTestUseCase(ctrl)

	amount := decimal.RequireFromString("100.00")

	cacheRepo.EXPECT().Get(gomock.Any(), "alice").Return(nil, nil)
	accountRepo.EXPECT().Find(gomock.Any(), "alice").Return(&mmodel.Account{UserID: "alice", Balance: decimal.RequireFromString("1000.00")}, nil)
	cacheRepo.EXPECT().Set(gomock.Any(), gomock.Any(), 300*time.Second).Return(nil)

	cacheRepo.EXPECT().Get(gomock.Any(), "bobby").Return(&mmodel.CachedBalance{UserID: "bobby", Balance: "0.00"}, nil)

	transferRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *mmodel.Transfer) (*mmodel.Transfer, error) {
			tr.ID = 7
			return tr, nil
		})

	result, err := uc.CreateTransfer(context.Background(), &mmodel.CreateTransferInput{
		FromUserID: "alice",
		ToUserID:   "bobby",
		Amount:     amount,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), result.ID)
}
