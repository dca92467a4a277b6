package command

import (
	"context"
	"reflect"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// CreateTransfer validates and persists a new PENDING transfer. No message is
// published here; the pending sweep owns the hand-off into the debit pipeline.
//
// The balance check against the cached projection is a quick fail only: the
// authoritative check happens inside the debit transaction, so a stale permit cannot
// break conservation.
func (uc *UseCase) CreateTransfer(ctx context.Context, input *mmodel.CreateTransferInput) (*mmodel.Transfer, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_transfer")
	defer span.End()

	logger.Infof("Trying to create transfer: %s -> %s", input.FromUserID, input.ToUserID)

	if !input.Amount.IsPositive() || input.Amount.Exponent() < -2 {
		return nil, pkg.ValidateBusinessError(constant.ErrInvalidAmount, reflect.TypeOf(mmodel.Transfer{}).Name())
	}

	if input.FromUserID == input.ToUserID {
		return nil, pkg.ValidateBusinessError(constant.ErrSameAccountTransfer, reflect.TypeOf(mmodel.Transfer{}).Name())
	}

	sender, err := uc.resolveBalance(ctx, input.FromUserID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to resolve sender balance", err)

		return nil, err
	}

	if _, err := uc.resolveBalance(ctx, input.ToUserID); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to resolve receiver balance", err)

		return nil, err
	}

	if sender.Balance.LessThan(input.Amount) {
		return nil, pkg.ValidateBusinessError(constant.ErrInsufficientBalance, reflect.TypeOf(mmodel.Transfer{}).Name(), input.FromUserID)
	}

	t := &mmodel.Transfer{
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Amount:     input.Amount,
		Status:     constant.TransferStatusPending,
	}

	created, err := uc.TransferRepo.Create(ctx, t)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create transfer", err)

		logger.Errorf("Failed to create transfer: %v", err)

		return nil, err
	}

	uc.Dispatcher.OnTransferStatusChanged(ctx, created, "")

	return created, nil
}

// resolveBalance reads the balance projection through the cache, falling back to the
// ledger store and refreshing the cache on a miss.
func (uc *UseCase) resolveBalance(ctx context.Context, userID string) (*mmodel.BalanceView, error) {
	logger := pkg.NewLoggerFromContext(ctx)

	cached, err := uc.CacheRepo.Get(ctx, userID)
	if err != nil {
		logger.Warnf("Balance cache read failed for user %s: %v", userID, err)
	}

	if cached != nil {
		if view, err := cached.ToView(); err == nil {
			return view, nil
		}
	}

	acc, err := uc.AccountRepo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.CacheRepo.Set(ctx, mmodel.NewCachedBalance(acc), uc.CacheTTL); err != nil {
		logger.Warnf("Balance cache refresh failed for user %s: %v", userID, err)
	}

	return &mmodel.BalanceView{
		UserID:  acc.UserID,
		Balance: acc.Balance,
	}, nil
}
