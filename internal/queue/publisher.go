package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	VacationBookedQueue  = "vacation.booked"
	ImportCompletedQueue = "import.completed"
)

// Publisher pushes domain events onto durable queues. Publishing is
// best-effort: errors are logged and returned so callers can ignore
// failures without interrupting the request flow.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given broker URL, or nil when
// the URL is empty (publishing disabled).
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// PublishVacationBooked sends a VacationBookedEvent to vacation.booked.
func (p *Publisher) PublishVacationBooked(ctx context.Context, ev VacationBookedEvent) error {
	return p.publish(ctx, VacationBookedQueue, ev)
}

// PublishImportCompleted sends an ImportCompletedEvent to import.completed.
func (p *Publisher) PublishImportCompleted(ctx context.Context, ev ImportCompletedEvent) error {
	return p.publish(ctx, ImportCompletedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
