package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/openledgerhq/transfer-engine/internal/adapters/rabbitmq"
	"github.com/openledgerhq/transfer-engine/internal/services/command"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
)

// MultiQueueConsumer represents a multi-queue consumer app: the request side feeds the
// balance mutator, the result side feeds the transfer state machine.
type MultiQueueConsumer struct {
	consumerRoutes *rabbitmq.ConsumerRoutes
	UseCase        *command.UseCase
}

// NewMultiQueueConsumer create a new instance of MultiQueueConsumer.
func NewMultiQueueConsumer(routes *rabbitmq.ConsumerRoutes, useCase *command.UseCase) *MultiQueueConsumer {
	consumer := &MultiQueueConsumer{
		consumerRoutes: routes,
		UseCase:        useCase,
	}

	// Registry handlers for each topic
	routes.Register(rabbitmq.ExchangeBalanceRequest, consumer.handlerBalanceRequestQueue)
	routes.Register(rabbitmq.ExchangeBalanceResult, consumer.handlerBalanceResultQueue)

	return consumer
}

// Run starts consumers for all registered queues.
func (mq *MultiQueueConsumer) Run(l *pkg.Launcher) error {
	err := mq.consumerRoutes.RunConsumers()
	if err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return nil
}

// handlerBalanceRequestQueue processes messages from the request topic, unmarshal the
// JSON, and applies the debit or credit. A missing user account is not redelivered:
// it signals a data-consistency bug, so the error is recorded and the message acked.
func (mq *MultiQueueConsumer) handlerBalanceRequestQueue(ctx context.Context, body []byte) error {
	logger := pkg.NewLoggerFromContext(ctx)

	var message mmodel.BalanceChange

	err := json.Unmarshal(body, &message)
	if err != nil {
		logger.Errorf("Error unmarshalling balance change message JSON: %v", err)

		return err
	}

	logger.Infof("Balance change message consumed: transfer %d, user %s", message.ExternalID, message.UserID)

	err = mq.UseCase.HandleBalanceChange(ctx, &message)
	if err != nil {
		var notFound pkg.EntityNotFoundError
		if errors.As(err, &notFound) {
			logger.Errorf("Dropping balance change for missing user %s (transfer %d): %v", message.UserID, message.ExternalID, err)

			return nil
		}

		logger.Errorf("Error handling balance change: %v", err)

		return err
	}

	return nil
}

// handlerBalanceResultQueue processes messages from the result topic, unmarshal the
// JSON, and advances the owning transfer.
func (mq *MultiQueueConsumer) handlerBalanceResultQueue(ctx context.Context, body []byte) error {
	logger := pkg.NewLoggerFromContext(ctx)

	var message mmodel.BalanceChangeResult

	err := json.Unmarshal(body, &message)
	if err != nil {
		logger.Errorf("Error unmarshalling balance result message JSON: %v", err)

		return err
	}

	logger.Infof("Balance result message consumed: transfer %d, success %t", message.ExternalID, message.Success)

	err = mq.UseCase.HandleBalanceResult(ctx, &message)
	if err != nil {
		logger.Errorf("Error handling balance result: %v", err)

		return err
	}

	return nil
}
