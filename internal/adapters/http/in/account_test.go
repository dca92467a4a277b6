package in

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	httputil "github.com/openledgerhq/transfer-engine/pkg/net/http"
)

func TestCreateAccountSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, _, _, _ := newTestRouter(ctrl)

	accountRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, acc *mmodel.Account) (*mmodel.Account, error) {
			assert.Equal(t, "alice", acc.UserID)
			assert.True(t, acc.Balance.Equal(decimal.RequireFromString("1000.00")))
			return acc, nil
		})

	req := httptest.NewRequest(fiber.MethodPost, "/users",
		strings.NewReader(`{"userId":"alice","initialBalance":1000.00}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateAccountRejectsShortUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	req := httptest.NewRequest(fiber.MethodPost, "/users",
		strings.NewReader(`{"userId":"ab","initialBalance":10.00}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAccountRejectsUnknownField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	req := httptest.NewRequest(fiber.MethodPost, "/users",
		strings.NewReader(`{"userId":"alice","initialBalance":10.00,"currency":"USD"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAccountConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, _, _, _ := newTestRouter(ctrl)

	accountRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, pkg.ValidateBusinessError(constant.ErrUserAlreadyExists, "Account", "alice"))

	req := httptest.NewRequest(fiber.MethodPost, "/users",
		strings.NewReader(`{"userId":"alice","initialBalance":1000.00}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetBalanceSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, cacheRepo, _ := newTestRouter(ctrl)

	cacheRepo.EXPECT().
		Get(gomock.Any(), "alice").
		Return(&mmodel.CachedBalance{UserID: "alice", Balance: "700.00"}, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users/alice/balance", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view mmodel.BalanceView

	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "alice", view.UserID)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("700.00")))
}

func TestGetBalanceRejectsInvalidUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _, _, _ := newTestRouter(ctrl)

	for _, target := range []string{
		"/users/ab/balance",
		"/users/" + strings.Repeat("a", 51) + "/balance",
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "target %s", target)
	}
}

func TestGetBalanceNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, accountRepo, _, cacheRepo, _ := newTestRouter(ctrl)

	cacheRepo.EXPECT().Get(gomock.Any(), "ghost1").Return(nil, nil)
	accountRepo.EXPECT().
		Find(gomock.Any(), "ghost1").
		Return(nil, pkg.ValidateBusinessError(constant.ErrUserNotFound, "Account", "ghost1"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users/ghost1/balance", nil))

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body httputil.ErrorResponse

	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusNotFound, body.Status)
	assert.Equal(t, "/users/ghost1/balance", body.Path)
}
