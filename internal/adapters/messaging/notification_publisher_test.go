package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

type fakeChannel struct {
	keys       []string
	messages   []amqp.Publishing
	publishErr error
	closed     bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testEvent() ports.NotificationEvent {
	return ports.NotificationEvent{
		ID:         "n1",
		Title:      domain.TitleNewComplaint,
		Message:    "Ali: Plumbing",
		TargetRole: domain.StaffRoles,
		Timestamp:  time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC).Unix(),
	}
}

func TestPublishNotification_WritesJSONToQueue(t *testing.T) {
	ch := &fakeChannel{}
	broker := newBroker(ch, "hostel.notifications", config.NewCircuitBreaker(config.BreakerRabbitMQ, nil), nil)

	if err := broker.PublishNotification(context.Background(), testEvent()); err != nil {
		t.Fatalf("PublishNotification() error = %v", err)
	}
	if len(ch.messages) != 1 || ch.keys[0] != "hostel.notifications" {
		t.Fatalf("expected one message on hostel.notifications, got %v", ch.keys)
	}
	msg := ch.messages[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent || msg.MessageId != "n1" {
		t.Errorf("unexpected publishing %+v", msg)
	}

	var got ports.NotificationEvent
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got.Title != domain.TitleNewComplaint || len(got.TargetRole) != 2 {
		t.Errorf("unexpected body %+v", got)
	}
}

func TestPublishNotification_Errors(t *testing.T) {
	t.Run("expired_context", func(t *testing.T) {
		ch := &fakeChannel{}
		broker := newBroker(ch, "q", nil, nil)
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		if err := broker.PublishNotification(ctx, testEvent()); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
		if len(ch.messages) != 0 {
			t.Error("nothing should be published")
		}
	})

	t.Run("breaker_opens", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}
		broker := newBroker(ch, "q", config.NewCircuitBreaker(config.BreakerRabbitMQ, nil), nil)
		for i := 0; i < 3; i++ {
			_ = broker.PublishNotification(context.Background(), testEvent())
		}
		ch.publishErr = nil
		if err := broker.PublishNotification(context.Background(), testEvent()); err == nil {
			t.Error("expected the open breaker to reject")
		}
		if len(ch.messages) != 0 {
			t.Error("no message should pass an open breaker")
		}
	})
}

func TestClose_ClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	broker := newBroker(ch, "q", nil, nil)
	if err := broker.Close(); err != nil {
		t.Fatal(err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}

func TestPublishNotification_Observer(t *testing.T) {
	ch := &fakeChannel{}
	broker := newBroker(ch, "q", nil, nil)
	var outcomes []error
	broker.SetObserver(func(err error) { outcomes = append(outcomes, err) })

	_ = broker.PublishNotification(context.Background(), testEvent())
	ch.publishErr = errors.New("channel closed")
	_ = broker.PublishNotification(context.Background(), testEvent())

	if len(outcomes) != 2 || outcomes[0] != nil || outcomes[1] == nil {
		t.Errorf("unexpected outcomes %v", outcomes)
	}
}
