package command

import (
	"context"
	"reflect"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// CreateAccount creates a user account with its opening balance.
func (uc *UseCase) CreateAccount(ctx context.Context, input *mmodel.CreateAccountInput) (*mmodel.Account, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_account")
	defer span.End()

	logger.Infof("Trying to create account: %v", input.UserID)

	if input.InitialBalance.IsNegative() || input.InitialBalance.Exponent() < -2 {
		return nil, pkg.ValidateBusinessError(constant.ErrInvalidAmount, reflect.TypeOf(mmodel.Account{}).Name())
	}

	acc := &mmodel.Account{
		UserID:    input.UserID,
		Balance:   input.InitialBalance,
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}

	created, err := uc.AccountRepo.Create(ctx, acc)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create account", err)

		logger.Errorf("Failed to create account: %v", err)

		return nil, err
	}

	return created, nil
}
