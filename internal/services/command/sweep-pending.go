package command

import (
	"context"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// SweepPendingTransfers advances PENDING transfers older than the delay into
// DEBIT_PROCESSING and hands each one to the debit pipeline. Individual failures are
// logged and skipped so one stuck row never stalls the batch.
func (uc *UseCase) SweepPendingTransfers(ctx context.Context, delay time.Duration, batch int) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.sweep_pending_transfers")
	defer span.End()

	cutoff := time.Now().UTC().Add(-delay)

	transfers, err := uc.TransferRepo.FindPendingOlderThan(ctx, cutoff, batch)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to fetch pending transfers", err)

		return err
	}

	if len(transfers) == 0 {
		return nil
	}

	logger.Infof("Sweeping %d pending transfer(s)", len(transfers))

	for _, t := range transfers {
		updated, from, err := uc.TransferRepo.Transition(ctx, t.ID, constant.TransferStatusDebitProcessing, nil)
		if err != nil {
			logger.Errorf("Failed to advance pending transfer %d: %v", t.ID, err)

			continue
		}

		uc.Dispatcher.OnTransferStatusChanged(ctx, updated, from)

		if err := uc.ProducerRepo.PublishBalanceChange(ctx, newDebitRequest(updated)); err != nil {
			// The row is already DEBIT_PROCESSING; the retry sweep re-publishes it.
			logger.Errorf("Failed to publish debit request for transfer %d: %v", t.ID, err)
		}
	}

	return nil
}
