package command

import (
	"context"
	"fmt"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// SweepStaleTransfers re-drives in-flight transfers whose updated_at predates the
// delay: the request for the current leg is published again and the row is touched so
// it leaves the next scan. Idempotency in the balance mutator absorbs the duplicates.
func (uc *UseCase) SweepStaleTransfers(ctx context.Context, status string, delay time.Duration, batch int) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.sweep_stale_transfers")
	defer span.End()

	if !mmodel.IsInFlightStatus(status) {
		return fmt.Errorf("status %s is not sweepable", status)
	}

	cutoff := time.Now().UTC().Add(-delay)

	transfers, err := uc.TransferRepo.FindStaleByStatus(ctx, status, cutoff, batch)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to fetch stale transfers", err)

		return err
	}

	if len(transfers) == 0 {
		return nil
	}

	logger.Infof("Re-driving %d stale transfer(s) in status %s", len(transfers), status)

	for _, t := range transfers {
		var msg *mmodel.BalanceChange

		if status == constant.TransferStatusDebitProcessing {
			msg = newDebitRequest(t)
		} else {
			msg = newCreditRequest(t)
		}

		if err := uc.ProducerRepo.PublishBalanceChange(ctx, msg); err != nil {
			logger.Errorf("Failed to re-publish request for transfer %d: %v", t.ID, err)

			continue
		}

		if err := uc.TransferRepo.TouchUpdatedAt(ctx, t.ID); err != nil {
			logger.Errorf("Failed to touch transfer %d after re-publish: %v", t.ID, err)
		}
	}

	return nil
}
