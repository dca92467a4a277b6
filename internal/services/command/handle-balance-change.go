package command

import (
	"context"
	"fmt"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

// HandleBalanceChange dispatches a request-topic message to the balance mutator.
// It is the entrypoint of the request consumer.
func (uc *UseCase) HandleBalanceChange(ctx context.Context, msg *mmodel.BalanceChange) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.handle_balance_change")
	defer span.End()

	logger.Infof("Handling balance change for transfer %d, type %s, user %s", msg.ExternalID, msg.Type, msg.UserID)

	switch msg.Type {
	case constant.BalanceChangeTypeTransferOut:
		_, err := uc.DebitAccount(ctx, msg.ExternalID, msg.UserID, msg.Amount.Abs())
		return err
	case constant.BalanceChangeTypeTransferIn:
		_, err := uc.CreditAccount(ctx, msg.ExternalID, msg.UserID, msg.Amount.Abs())
		return err
	default:
		return fmt.Errorf("unknown balance change type: %s", msg.Type)
	}
}
