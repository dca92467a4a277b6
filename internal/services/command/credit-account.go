package command

import (
	"context"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/shopspring/decimal"
)

// CreditAccount deposits the amount into the account, keyed by the owning transfer id.
// Replays return the original ledger row and re-emit the same completion event.
func (uc *UseCase) CreditAccount(ctx context.Context, externalID int64, userID string, amount decimal.Decimal) (*mmodel.BalanceMutation, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.credit_account")
	defer span.End()

	logger.Infof("Trying to credit %s to user %s for transfer %d", amount.StringFixed(2), userID, externalID)

	m, replayed, err := uc.MutationRepo.Apply(ctx, externalID, constant.MutationTypeCredit, userID, amount)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to apply credit", err)

		logger.Errorf("Failed to credit user %s for transfer %d: %v", userID, externalID, err)

		return nil, err
	}

	if replayed {
		logger.Infof("Credit for transfer %d replayed, returning existing mutation %d", externalID, m.ID)
	}

	uc.Dispatcher.OnBalanceMutationCompleted(ctx, m)

	return m, nil
}
