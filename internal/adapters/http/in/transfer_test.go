package in

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/account"
	"github.com/openledgerhq/transfer-engine/internal/adapters/postgres/transfer"
	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/adapters/redis"
	"github.com/openledgerhq/transfer-engine/internal/services"
	"github.com/openledgerhq/transfer-engine/internal/services/command"
	"github.com/openledgerhq/transfer-engine/internal/services/query"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

func newTestRouter(ctrl *gomock.Controller) (*fiber.App, *account.MockRepository, *transfer.MockRepository, *redis.MockCacheRepository, *rabbitmq.MockProducerRepository) {
	accountRepo := account.NewMockRepository(ctrl)
	transferRepo := transfer.NewMockRepository(ctrl)
	cacheRepo := redis.NewMockCacheRepository(ctrl)
	producerRepo := rabbitmq.NewMockProducerRepository(ctrl)

	commandUseCase := &command.UseCase{
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

	queryUseCase := &query.UseCase{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
		CacheRepo:    cacheRepo,
		CacheTTL:     300 * time.Second,
	}

	accountHandler := &AccountHandler{Command: commandUseCase, Query: queryUseCase}
	transferHandler := &TransferHandler{Command: commandUseCase, Query: queryUseCase}

	app := NewRouter(&mlog.NoneLogger{}, &mopentelemetry.Telemetry{}, accountHandler, transferHandler)

	return app, accountRepo, transferRepo, cacheRepo, producerRepo
}

func TestParseBoundedInt(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		min       int
		max       int
		expected  int
		expectErr bool
	}{
		{name: "zero page is valid", raw: "0", min: 0, max: -1, expected: 0},
		{name: "positive page is valid", raw: "3", min: 0, max: -1, expected: 3},
		{name: "negative page errors", raw: "-1", min: 0, max: -1, expectErr: true},
		{name: "non-numeric errors", raw: "abc", min: 0, max: -1, expectErr: true},
		{name: "upper bound enforced when set", raw: "11", min: 0, max: 10, expectErr: true},
		{name: "upper bound inclusive", raw: "10", min: 0, max: 10, expected: 10},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v, err := parseBoundedInt(testCase.raw, testCase.min, testCase.max)

			if testCase.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.expected, v)
			}
		})
	}
}

func TestClampPageSize(t *testing.T) {
	testCases := []struct {
		name     string
		size     int
		expected int
	}{
		{name: "zero clamps to the floor", size: 0, expected: 1},
		{name: "negative clamps to the floor", size: -5, expected: 1},
		{name: "floor passes through", size: 1, expected: 1},
		{name: "default passes through", size: 20, expected: 20},
		{name: "ceiling passes through", size: 100, expected: 100},
		{name: "oversized clamps to the ceiling", size: 500, expected: 100},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, clampPageSize(testCase.size))
		})
	}
}

func TestGetTransfersClampsOversizedPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, transferRepo, _, _ := newTestRouter(ctrl)

	accountRepo.EXPECT().Find(gomock.Any(), "alice").Return(&mmodel.Account{UserID: "alice"}, nil)
	transferRepo.EXPECT().FindAllByUser(gomock.Any(), "alice", 0, 100).Return(nil, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transfers?userId=alice&size=500", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetTransfersClampsUndersizedPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, transferRepo, _, _ := newTestRouter(ctrl)

	accountRepo.EXPECT().Find(gomock.Any(), "alice").Return(&mmodel.Account{UserID: "alice"}, nil)
	transferRepo.EXPECT().FindAllByUser(gomock.Any(), "alice", 0, 1).Return(nil, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transfers?userId=alice&size=0", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetTransfersDefaultsPageAndSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, transferRepo, _, _ := newTestRouter(ctrl)

	accountRepo.EXPECT().Find(gomock.Any(), "alice").Return(&mmodel.Account{UserID: "alice"}, nil)
	transferRepo.EXPECT().FindAllByUser(gomock.Any(), "alice", 0, 20).Return(nil, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transfers?userId=alice", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetTransfersRejectsInvalidUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	for _, target := range []string{
		"/transfers?userId=ab",
		"/transfers?userId=" + strings.Repeat("a", 51),
		"/transfers",
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "target %s", target)
	}
}

func TestGetTransfersRejectsNegativePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transfers?userId=alice&page=-1", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetTransfersRejectsNonNumericSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transfers?userId=alice&size=abc", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCancelTransferRejectsInvalidPathParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	for _, target := range []string{
		"/transfers/abc/cancel",
		"/transfers/0/cancel",
		"/transfers/-3/cancel",
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, target, nil))

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "target %s", target)
	}
}

func TestCancelTransferSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, transferRepo, _, _ := newTestRouter(ctrl)

	now := time.Now().UTC()

	transferRepo.EXPECT().
		Cancel(gomock.Any(), int64(9)).
		Return(&mmodel.Transfer{
			ID:          9,
			FromUserID:  "alice",
			ToUserID:    "bobby",
			Amount:      decimal.RequireFromString("50.00"),
			Status:      constant.TransferStatusCancelled,
			CreatedAt:   now.Add(-time.Minute),
			UpdatedAt:   now,
			CancelledAt: &now,
		}, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/transfers/9/cancel", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCancelTransferInvalidState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, transferRepo, _, _ := newTestRouter(ctrl)

	transferRepo.EXPECT().
		Cancel(gomock.Any(), int64(9)).
		Return(nil, pkg.ValidateBusinessError(constant.ErrInvalidTransferState, "Transfer",
			constant.TransferStatusCompleted, constant.TransferStatusCancelled))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/transfers/9/cancel", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateTransferSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, transferRepo, cacheRepo, _ := newTestRouter(ctrl)

	cacheRepo.EXPECT().Get(gomock.Any(), "alice").Return(&mmodel.CachedBalance{UserID: "alice", Balance: "1000.00"}, nil)
	cacheRepo.EXPECT().Get(gomock.Any(), "bobby").Return(&mmodel.CachedBalance{UserID: "bobby", Balance: "500.00"}, nil)

	transferRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *mmodel.Transfer) (*mmodel.Transfer, error) {
			tr.ID = 1
			return tr, nil
		})

	req := httptest.NewRequest(fiber.MethodPost, "/transfers",
		strings.NewReader(`{"fromUserId":"alice","toUserId":"bobby","amount":300.00}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateTransferRejectsShortUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	req := httptest.NewRequest(fiber.MethodPost, "/transfers",
		strings.NewReader(`{"fromUserId":"ab","toUserId":"bobby","amount":300.00}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
