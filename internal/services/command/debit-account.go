package command

import (
	"context"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/shopspring/decimal"
)

// DebitAccount withdraws the amount from the account, keyed by the owning transfer id.
// Replays return the original ledger row and re-emit the same completion event; an
// insufficient balance is recorded as a FAILED row, not raised.
func (uc *UseCase) DebitAccount(ctx context.Context, externalID int64, userID string, amount decimal.Decimal) (*mmodel.BalanceMutation, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.debit_account")
	defer span.End()

	logger.Infof("Trying to debit %s from user %s for transfer %d", amount.StringFixed(2), userID, externalID)

	m, replayed, err := uc.MutationRepo.Apply(ctx, externalID, constant.MutationTypeDebit, userID, amount.Neg())
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to apply debit", err)

		logger.Errorf("Failed to debit user %s for transfer %d: %v", userID, externalID, err)

		return nil, err
	}

	if replayed {
		logger.Infof("Debit for transfer %d replayed, returning existing mutation %d", externalID, m.ID)
	}

	uc.Dispatcher.OnBalanceMutationCompleted(ctx, m)

	return m, nil
}
