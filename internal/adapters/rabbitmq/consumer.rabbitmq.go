package rabbitmq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mrabbitmq"
)

// QueueHandler processes one delivery. A returned error schedules a redelivery until
// the retry ceiling, after which the message is parked on the dead-letter queue.
type QueueHandler func(ctx context.Context, body []byte) error

// ConsumerRoutes maps topic exchanges onto handlers and runs one serial worker per
// partition queue. Per-key ordering on the request side follows from the publisher
// hashing each user id to a fixed partition and each partition having a single worker.
type ConsumerRoutes struct {
	conn            *mrabbitmq.RabbitMQConnection
	partitions      int
	maxRedeliveries int
	logger          mlog.Logger
	telemetry       *mopentelemetry.Telemetry
	routes          map[string]QueueHandler
	wg              sync.WaitGroup
}

// NewConsumerRoutes creates a new instance of ConsumerRoutes.
func NewConsumerRoutes(conn *mrabbitmq.RabbitMQConnection, partitions, maxRedeliveries int, logger mlog.Logger, telemetry *mopentelemetry.Telemetry) *ConsumerRoutes {
	cr := &ConsumerRoutes{
		conn:            conn,
		partitions:      partitions,
		maxRedeliveries: maxRedeliveries,
		logger:          logger,
		telemetry:       telemetry,
		routes:          make(map[string]QueueHandler),
	}

	_, err := conn.GetChannel()
	if err != nil {
		panic("Failed to connect rabbitmq")
	}

	return cr
}

// Register adds a handler for every partition queue of the given exchange.
func (cr *ConsumerRoutes) Register(exchange string, handler QueueHandler) {
	cr.routes[exchange] = handler
}

// RunConsumers declares the topology and starts one worker goroutine per partition
// queue of every registered exchange.
func (cr *ConsumerRoutes) RunConsumers() error {
	ch, err := cr.conn.GetChannel()
	if err != nil {
		return err
	}

	for exchange, handler := range cr.routes {
		if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
			return err
		}

		if _, err := ch.QueueDeclare(DeadLetterQueue(exchange), true, false, false, false, nil); err != nil {
			return err
		}

		for i := 0; i < cr.partitions; i++ {
			queue := PartitionQueue(exchange, i)

			if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
				return err
			}

			if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
				return err
			}

			cr.wg.Add(1)

			go cr.runWorker(exchange, queue, handler)
		}
	}

	return nil
}

// Wait blocks until every worker loop has drained, which happens when the underlying
// connection is closed.
func (cr *ConsumerRoutes) Wait() {
	cr.wg.Wait()
}

func (cr *ConsumerRoutes) runWorker(exchange, queue string, handler QueueHandler) {
	defer cr.wg.Done()

	ch, err := cr.conn.NewChannel()
	if err != nil {
		cr.logger.Errorf("Failed to open channel for queue %s: %v", queue, err)

		return
	}

	if err := ch.Qos(1, 0, false); err != nil {
		cr.logger.Errorf("Failed to set qos for queue %s: %v", queue, err)

		return
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		cr.logger.Errorf("Failed to register a consumer on queue %s: %v", queue, err)

		return
	}

	cr.logger.Infof("Consumer started on queue %s", queue)

	for d := range deliveries {
		cr.handleDelivery(exchange, queue, ch, d, handler)
	}

	cr.logger.Infof("Consumer stopped on queue %s", queue)
}

func (cr *ConsumerRoutes) handleDelivery(exchange, queue string, ch *amqp.Channel, d amqp.Delivery, handler QueueHandler) {
	requestID, _ := d.Headers[HeaderRequestID].(string)

	l := cr.logger.WithFields("request_id", requestID, "queue", queue)

	ctx := pkg.ContextWithRequestID(context.Background(), requestID)
	ctx = pkg.ContextWithLogger(ctx, l)
	ctx = pkg.ContextWithTracer(ctx, cr.telemetry.Tracer())

	err := handler(ctx, d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			l.Errorf("Failed to ack delivery: %v", ackErr)
		}

		return
	}

	retries := retryCount(d.Headers)

	if retries+1 > cr.maxRedeliveries {
		l.Errorf("Message exceeded %d redeliveries, parking on DLQ: %v", cr.maxRedeliveries, err)

		cr.republish(ctx, ch, "", DeadLetterQueue(exchange), d, retries)

		if ackErr := d.Ack(false); ackErr != nil {
			l.Errorf("Failed to ack dead-lettered delivery: %v", ackErr)
		}

		return
	}

	l.Warnf("Handler failed, scheduling redelivery %d/%d: %v", retries+1, cr.maxRedeliveries, err)

	cr.republish(ctx, ch, exchange, d.RoutingKey, d, retries+1)

	if ackErr := d.Ack(false); ackErr != nil {
		l.Errorf("Failed to ack redelivered delivery: %v", ackErr)
	}
}

func (cr *ConsumerRoutes) republish(ctx context.Context, ch *amqp.Channel, exchange, routingKey string, d amqp.Delivery, retries int64) {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}

	headers[HeaderRetryCount] = retries

	err := ch.PublishWithContext(ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  d.ContentType,
			DeliveryMode: amqp.Persistent,
			Headers:      headers,
			Body:         d.Body,
		})
	if err != nil {
		cr.logger.Errorf("Failed to republish message to %s/%s: %v", exchange, routingKey, err)
	}
}

func retryCount(headers amqp.Table) int64 {
	switch v := headers[HeaderRetryCount].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}

	return 0
}
