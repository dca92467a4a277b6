package command

import (
	"context"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// CancelTransfer cancels a PENDING transfer within the cancellation window.
func (uc *UseCase) CancelTransfer(ctx context.Context, id int64) (*mmodel.Transfer, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.cancel_transfer")
	defer span.End()

	logger.Infof("Trying to cancel transfer: %d", id)

	cancelled, err := uc.TransferRepo.Cancel(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to cancel transfer", err)

		logger.Errorf("Failed to cancel transfer %d: %v", id, err)

		return nil, err
	}

	uc.Dispatcher.OnTransferStatusChanged(ctx, cancelled, constant.TransferStatusPending)

	return cancelled, nil
}
