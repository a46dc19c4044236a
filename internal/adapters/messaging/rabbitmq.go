package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// channel is the part of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.NotificationPublisher using RabbitMQ.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
	observe   func(err error)
}

func NewRabbitMQBroker(amqpURL, queueName string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	b := newBroker(ch, queueName, cb, logger)
	b.conn = conn
	return b, nil
}

func newBroker(ch channel, queueName string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *RabbitMQBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitMQBroker{ch: ch, queueName: queueName, cb: cb, logger: logger}
}

func (rmq *RabbitMQBroker) QueueName() string { return rmq.queueName }

// SetObserver registers fn to be told the outcome of every publish.
func (rmq *RabbitMQBroker) SetObserver(fn func(err error)) { rmq.observe = fn }

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
