package in

import (
	"reflect"

	"github.com/gofiber/fiber/v2"

	"github.com/openledgerhq/transfer-engine/internal/services/command"
	"github.com/openledgerhq/transfer-engine/internal/services/query"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	httputil "github.com/openledgerhq/transfer-engine/pkg/net/http"
)

// AccountHandler struct contains an account use case for managing account related operations.
type AccountHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateAccount is a method that creates a user account with its opening balance.
func (handler *AccountHandler) CreateAccount(p any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)

	payload := p.(*mmodel.CreateAccountInput)

	logger.Infof("Request to create an account with details: %#v", payload)

	account, err := handler.Command.CreateAccount(ctx, payload)
	if err != nil {
		return httputil.WithError(c, err)
	}

	return httputil.Created(c, account)
}

// GetBalance is a method that retrieves the balance projection of a user account.
func (handler *AccountHandler) GetBalance(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID := c.Params("user_id")
	if len(userID) < 3 || len(userID) > 50 {
		return httputil.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidPathParameter, reflect.TypeOf(mmodel.Account{}).Name(), "userId"))
	}

	balance, err := handler.Query.GetAccountBalance(ctx, userID)
	if err != nil {
		return httputil.WithError(c, err)
	}

	return httputil.OK(c, balance)
}
