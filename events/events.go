// Package events fans inventory movement changes out to brokers and live
// websocket subscribers.
package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	MovementCreated = "movement.created"
	MovementUpdated = "movement.updated"
	MovementDeleted = "movement.deleted"
)

type Event struct {
	Type       string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

func New(kind string, data interface{}) Event {
	return Event{Type: kind, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Multi publishes to every member and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logged wraps p so failures are logged instead of returned. Request
// handlers publish through it; a broker outage never fails a write.
func Logged(p Publisher, log *zap.Logger) Publisher {
	return &logged{next: p, log: log}
}

type logged struct {
	next Publisher
	log  *zap.Logger
}

func (l *logged) Publish(ctx context.Context, e Event) error {
	if err := l.next.Publish(ctx, e); err != nil {
		l.log.Error("failed to publish event", zap.String("event_type", e.Type), zap.Error(err))
	}
	return nil
}

func (l *logged) Close() error { return l.next.Close() }
