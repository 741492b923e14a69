package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NATSBus publishes and listens for lifecycle events over NATS core.
type NATSBus struct {
	log *slog.Logger
	nc  *nats.Conn
}

// NewNATS wraps an established connection.
func NewNATS(log *slog.Logger, nc *nats.Conn) *NATSBus {
	return &NATSBus{log: log.With("component", "events"), nc: nc}
}

func (b *NATSBus) Publish(_ context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Type == "" {
		return errors.New("event type required")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.nc.Publish(event.Subject(), body)
}

// Listen delivers every lifecycle event to handler until ctx is done.
func (b *NATSBus) Listen(ctx context.Context, handler Handler) error {
	sub, err := b.nc.Subscribe(SubjectPrefix+"document.*", func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.log.Error("failed to decode event", "subject", msg.Subject, "err", err)
			return
		}
		if err := handler(ctx, event); err != nil {
			b.log.Warn("event handler failed", "id", event.ID, "type", event.Type, "err", err)
		}
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

// Close drains pending publishes and closes the connection.
func (b *NATSBus) Close() error {
	return b.nc.Drain()
}
