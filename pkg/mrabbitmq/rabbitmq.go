package mrabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openledgerhq/transfer-engine/pkg/mlog"
)

// RabbitMQConnection is a hub which deal with rabbitmq connections.
type RabbitMQConnection struct {
	ConnectionStringSource string
	Host                   string
	Port                   string
	User                   string
	Pass                   string
	Connection             *amqp.Connection
	Channel                *amqp.Channel
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with rabbitmq.
func (rc *RabbitMQConnection) Connect() error {
	rc.Logger.Info("Connecting on rabbitmq...")

	conn, err := amqp.Dial(rc.ConnectionStringSource)
	if err != nil {
		rc.Logger.Errorf("failed to connect on rabbitmq: %v", err)

		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		rc.Logger.Errorf("failed to open channel on rabbitmq: %v", err)

		return err
	}

	rc.Logger.Info("Connected on rabbitmq ✅ ")

	rc.Connected = true
	rc.Connection = conn
	rc.Channel = ch

	return nil
}

// GetChannel returns a pointer to the rabbitmq channel, initializing it if necessary.
func (rc *RabbitMQConnection) GetChannel() (*amqp.Channel, error) {
	if !rc.Connected || rc.Channel == nil || rc.Channel.IsClosed() {
		err := rc.Connect()
		if err != nil {
			rc.Logger.Errorf("ERRCONECT %s", err)

			return nil, err
		}
	}

	return rc.Channel, nil
}

// NewChannel opens a dedicated channel on the shared connection. Consumers use one
// channel per worker so acknowledgments never interleave.
func (rc *RabbitMQConnection) NewChannel() (*amqp.Channel, error) {
	if !rc.Connected || rc.Connection == nil || rc.Connection.IsClosed() {
		if err := rc.Connect(); err != nil {
			return nil, err
		}
	}

	return rc.Connection.Channel()
}

// Close shuts the channel and the underlying connection down.
func (rc *RabbitMQConnection) Close() error {
	if rc.Channel != nil && !rc.Channel.IsClosed() {
		if err := rc.Channel.Close(); err != nil {
			return err
		}
	}

	if rc.Connection != nil && !rc.Connection.IsClosed() {
		return rc.Connection.Close()
	}

	return nil
}

// HealthCheck reports whether the broker connection is usable.
func (rc *RabbitMQConnection) HealthCheck() bool {
	return rc.Connected && rc.Connection != nil && !rc.Connection.IsClosed()
}
