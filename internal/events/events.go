package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abishek0612/student-revision-app-client/internal/retry"
)

// EventType enumerates lifecycle notifications.
type EventType string

const (
	TypeDocumentReady  EventType = "document.ready"
	TypeDocumentFailed EventType = "document.failed"
)

// SubjectPrefix is prepended to the event type to form the NATS subject.
const SubjectPrefix = "revise."

// Event reports that a document reached a terminal processing state.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Type         EventType `json:"type"`
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	TotalPages   int       `json:"totalPages,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Subject is the NATS subject the event is published on.
func (e Event) Subject() string { return SubjectPrefix + string(e.Type) }

type Handler func(context.Context, Event) error

// Publisher exposes a minimal contract to emit lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// PublishWithRetry attempts to publish with retries and exponential backoff.
func PublishWithRetry(ctx context.Context, p Publisher, event Event, attempts int, base time.Duration) error {
	policy := retry.Policy{Attempts: attempts, Base: base}
	return retry.Do(ctx, policy, nil, func(ctx context.Context) error {
		return p.Publish(ctx, event)
	})
}

// NoOpPublisher drops every event. Used when no broker is configured.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, Event) error { return nil }
func (NoOpPublisher) Close() error                         { return nil }
