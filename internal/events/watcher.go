package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Abishek0612/student-revision-app-client/internal/documents"
	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

// Documents is the source of observed document states.
type Documents interface {
	State() documents.State
}

// Watcher publishes an event whenever an observed document moves into ready
// or error.
type Watcher struct {
	st       *store.Store
	docs     Documents
	pub      Publisher
	attempts int
	base     time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

func NewWatcher(st *store.Store, docs Documents, pub Publisher, attempts int, base time.Duration, m *metrics.Metrics, log *slog.Logger) *Watcher {
	return &Watcher{
		st:       st,
		docs:     docs,
		pub:      pub,
		attempts: attempts,
		base:     base,
		metrics:  m,
		log:      log.With("component", "events"),
		now:      time.Now,
	}
}

// Run blocks until ctx is done. Documents first seen in a terminal state do
// not produce events.
func (w *Watcher) Run(ctx context.Context) error {
	changes, unsubscribe := w.st.Subscribe()
	defer unsubscribe()

	prev := statuses(w.docs.State().Documents)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			cur := w.docs.State().Documents
			for _, event := range Diff(prev, cur, w.now()) {
				if err := PublishWithRetry(ctx, w.pub, event, w.attempts, w.base); err != nil {
					w.log.Error("failed to publish event", "type", event.Type, "document_id", event.DocumentID, "err", err)
					continue
				}
				w.metrics.EventPublished(string(event.Type))
				w.log.Info("event published", "type", event.Type, "document_id", event.DocumentID)
			}
			prev = statuses(cur)
		}
	}
}

// Diff returns events for documents whose status changed to ready or error
// since prev.
func Diff(prev map[string]domain.DocumentStatus, cur []domain.Document, at time.Time) []Event {
	var out []Event
	for _, d := range cur {
		before, seen := prev[d.ID]
		if !seen || before == d.Status {
			continue
		}
		event := Event{
			ID:         uuid.New(),
			DocumentID: d.ID,
			FileName:   d.FileName,
			OccurredAt: at,
		}
		switch d.Status {
		case domain.StatusReady:
			event.Type = TypeDocumentReady
			event.TotalPages = d.TotalPages
		case domain.StatusError:
			event.Type = TypeDocumentFailed
			event.ErrorMessage = d.ErrorMessage
		default:
			continue
		}
		out = append(out, event)
	}
	return out
}

func statuses(docs []domain.Document) map[string]domain.DocumentStatus {
	m := make(map[string]domain.DocumentStatus, len(docs))
	for _, d := range docs {
		m[d.ID] = d.Status
	}
	return m
}
