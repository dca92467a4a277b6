package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
)

// HandleBalanceResult advances the transfer state machine on a result-topic message.
// It is the entrypoint of the result consumer.
//
// Redelivered results are absorbed: when the transfer already sits at or past the
// target status the message is a no-op. A failed credit is never persisted; the error
// propagates so the consumer schedules a redelivery.
func (uc *UseCase) HandleBalanceResult(ctx context.Context, msg *mmodel.BalanceChangeResult) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.handle_balance_result")
	defer span.End()

	logger.Infof("Handling balance result for transfer %d, type %s, success %t", msg.ExternalID, msg.Type, msg.Success)

	switch {
	case msg.Type == constant.BalanceChangeTypeTransferOut && msg.Success:
		return uc.handleDebitSuccess(ctx, msg.ExternalID)
	case msg.Type == constant.BalanceChangeTypeTransferOut && !msg.Success:
		return uc.handleDebitFailure(ctx, msg.ExternalID, msg.FailureReason)
	case msg.Type == constant.BalanceChangeTypeTransferIn && msg.Success:
		return uc.handleCreditSuccess(ctx, msg.ExternalID)
	default:
		err := pkg.ValidateBusinessError(constant.ErrCreditFailed, reflect.TypeOf(mmodel.Transfer{}).Name(), msg.ExternalID)

		mopentelemetry.HandleSpanError(&span, "Credit failed", err)

		logger.Errorf("Credit for transfer %d failed unexpectedly (reason: %v), forcing redelivery", msg.ExternalID, msg.FailureReason)

		return err
	}
}

// handleDebitSuccess moves the transfer into CREDIT_PROCESSING and publishes the
// credit leg. The publish failure propagates: the result message is redelivered and
// the transition no-ops on the replay.
func (uc *UseCase) handleDebitSuccess(ctx context.Context, id int64) error {
	logger := pkg.NewLoggerFromContext(ctx)

	updated, from, err := uc.TransferRepo.Transition(ctx, id, constant.TransferStatusCreditProcessing, nil)
	if err != nil {
		if done, checkErr := uc.transferAtOrPast(ctx, id, constant.TransferStatusCreditProcessing, constant.TransferStatusCompleted); checkErr == nil && done {
			logger.Infof("Debit result for transfer %d already applied, skipping", id)

			return nil
		}

		return err
	}

	uc.Dispatcher.OnTransferStatusChanged(ctx, updated, from)

	if err := uc.ProducerRepo.PublishBalanceChange(ctx, newCreditRequest(updated)); err != nil {
		logger.Errorf("Failed to publish credit request for transfer %d: %v", id, err)

		return err
	}

	return nil
}

// handleDebitFailure parks the transfer in DEBIT_FAILED with the recorded reason.
func (uc *UseCase) handleDebitFailure(ctx context.Context, id int64, reason *string) error {
	logger := pkg.NewLoggerFromContext(ctx)

	failureReason := "debit failed"
	if reason != nil {
		failureReason = *reason
	}

	updated, from, err := uc.TransferRepo.Transition(ctx, id, constant.TransferStatusDebitFailed, &failureReason)
	if err != nil {
		if done, checkErr := uc.transferAtOrPast(ctx, id, constant.TransferStatusDebitFailed); checkErr == nil && done {
			logger.Infof("Debit failure for transfer %d already applied, skipping", id)

			return nil
		}

		return err
	}

	uc.Dispatcher.OnTransferStatusChanged(ctx, updated, from)

	return nil
}

// handleCreditSuccess completes the transfer.
func (uc *UseCase) handleCreditSuccess(ctx context.Context, id int64) error {
	logger := pkg.NewLoggerFromContext(ctx)

	updated, from, err := uc.TransferRepo.Transition(ctx, id, constant.TransferStatusCompleted, nil)
	if err != nil {
		if done, checkErr := uc.transferAtOrPast(ctx, id, constant.TransferStatusCompleted); checkErr == nil && done {
			logger.Infof("Credit result for transfer %d already applied, skipping", id)

			return nil
		}

		return err
	}

	uc.Dispatcher.OnTransferStatusChanged(ctx, updated, from)

	return nil
}

// transferAtOrPast reports whether the transfer currently sits in one of the given
// statuses. It resolves the race where a concurrent caller already applied the edge
// this caller lost.
func (uc *UseCase) transferAtOrPast(ctx context.Context, id int64, statuses ...string) (bool, error) {
	t, err := uc.TransferRepo.Find(ctx, id)
	if err != nil {
		var notFound pkg.EntityNotFoundError
		if errors.As(err, &notFound) {
			return false, fmt.Errorf("transfer %d not found while absorbing a replay", id)
		}

		return false, err
	}

	for _, status := range statuses {
		if t.Status == status {
			return true, nil
		}
	}

	return false, nil
}
