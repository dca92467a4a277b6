package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mrabbitmq"
)

// Exchange names of the two logical topics.
const (
	ExchangeBalanceRequest = "transfer.balance.request"
	ExchangeBalanceResult  = "transfer.balance.result"
)

// HeaderRequestID carries the correlation id through the broker.
const HeaderRequestID = "X-Request-Id"

// HeaderRetryCount tracks how many times a delivery has been redriven.
const HeaderRetryCount = "x-retry-count"

// PartitionForKey maps a partition key onto [0, partitions). The FNV hash is folded
// through a floored modulus: the hash is cast to a signed 32-bit value, so a truncated
// modulus would yield negative indexes for half the key space.
func PartitionForKey(key string, partitions int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	idx := int(int32(h.Sum32())) % partitions
	if idx < 0 {
		idx += partitions
	}

	return idx
}

// PartitionQueue names the partition queue bound to the given exchange.
func PartitionQueue(exchange string, partition int) string {
	return fmt.Sprintf("%s.%d", exchange, partition)
}

// DeadLetterQueue names the parking queue of the given exchange.
func DeadLetterQueue(exchange string) string {
	return exchange + ".dlq"
}

// ProducerRepository provides an interface for publishing balance-change traffic.
//
//go:generate mockgen --destination=producer.mock.go --package=rabbitmq . ProducerRepository
type ProducerRepository interface {
	PublishBalanceChange(ctx context.Context, msg *mmodel.BalanceChange) error
	PublishBalanceChangeResult(ctx context.Context, msg *mmodel.BalanceChangeResult) error
}

// ProducerRabbitMQRepository is a rabbitmq implementation of the producer. Outbound
// messages are hashed to a partition by user id so the request side keeps per-key order.
type ProducerRabbitMQRepository struct {
	conn       *mrabbitmq.RabbitMQConnection
	partitions int
	mu         sync.Mutex
}

// NewProducerRabbitMQ returns a new instance of ProducerRabbitMQRepository using the given rabbitmq connection.
func NewProducerRabbitMQ(c *mrabbitmq.RabbitMQConnection, partitions int) *ProducerRabbitMQRepository {
	prmq := &ProducerRabbitMQRepository{
		conn:       c,
		partitions: partitions,
	}

	ch, err := c.GetChannel()
	if err != nil {
		panic("Failed to connect rabbitmq")
	}

	for _, exchange := range []string{ExchangeBalanceRequest, ExchangeBalanceResult} {
		if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
			panic("Failed to declare rabbitmq exchange")
		}
	}

	return prmq
}

// PublishBalanceChange publishes a request-topic message keyed by the message's user id.
func (prmq *ProducerRabbitMQRepository) PublishBalanceChange(ctx context.Context, msg *mmodel.BalanceChange) error {
	return prmq.publish(ctx, ExchangeBalanceRequest, msg.UserID, msg)
}

// PublishBalanceChangeResult publishes a result-topic message keyed by the message's user id.
func (prmq *ProducerRabbitMQRepository) PublishBalanceChangeResult(ctx context.Context, msg *mmodel.BalanceChangeResult) error {
	return prmq.publish(ctx, ExchangeBalanceResult, msg.UserID, msg)
}

func (prmq *ProducerRabbitMQRepository) publish(ctx context.Context, exchange, partitionKey string, message any) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rabbitmq.producer.publish_message")
	defer span.End()

	body, err := json.Marshal(message)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to marshal queue message struct", err)

		return err
	}

	ch, err := prmq.conn.GetChannel()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get rabbitmq channel", err)

		return err
	}

	partition := PartitionForKey(partitionKey, prmq.partitions)
	routingKey := PartitionQueue(exchange, partition)

	prmq.mu.Lock()
	defer prmq.mu.Unlock()

	err = ch.PublishWithContext(ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers: amqp.Table{
				HeaderRequestID: pkg.NewRequestIDFromContext(ctx),
			},
			Body: body,
		})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to publish message", err)

		logger.Errorf("Failed to publish message: %s", err)

		return err
	}

	logger.Infof("Message sent to exchange: %s, key: %s", exchange, routingKey)

	return nil
}
