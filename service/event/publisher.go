package event

import (
	"context"
	"fmt"

	"github.com/viant/idregistry/service/messaging"
)

// Publisher sends events of T to a queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher creates a publisher backed by queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

// Publish stamps missing metadata and enqueues the event.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event == nil {
		return fmt.Errorf("event was nil")
	}
	if event.ID == "" || event.CreatedAt.IsZero() {
		stamped := NewEvent(event.Context, event.Data)
		if event.ID == "" {
			event.ID = stamped.ID
		}
		if event.CreatedAt.IsZero() {
			event.CreatedAt = stamped.CreatedAt
		}
	}
	return p.queue.Publish(ctx, event)
}

// Consume waits for the next event and acknowledges it.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
