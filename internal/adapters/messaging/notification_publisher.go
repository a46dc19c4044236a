package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

var _ ports.NotificationPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishNotification(ctx context.Context, evt ports.NotificationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	publish := func() error {
		return rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.ID,
				Timestamp:    time.Unix(evt.Timestamp, 0),
				Body:         body,
			},
		)
	}

	if rmq.cb == nil {
		err = publish()
	} else {
		_, err = rmq.cb.Execute(func() (interface{}, error) {
			return nil, publish()
		})
	}
	if rmq.observe != nil {
		rmq.observe(err)
	}
	if err != nil {
		rmq.logger.Warn("publish notification failed",
			zap.String("event_id", evt.ID),
			zap.String("queue", rmq.queueName),
			zap.Error(err),
		)
		return err
	}
	rmq.logger.Debug("notification published", zap.String("event_id", evt.ID), zap.String("title", evt.Title))
	return nil
}
