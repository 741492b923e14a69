package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/httputil"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/session"
)

// statusRouter exposes read-only views of the running session.
func statusRouter(sess *session.Session, m *metrics.Metrics, log *slog.Logger) http.Handler {
	r := httputil.NewRouter(log)
	r.Get("/healthz", httputil.HealthHandler(log))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		tree := sess.Snapshot()
		httputil.WriteVersioned(w, r, tree.Version, tree)
	})

	r.Get("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var (
			doc     domain.Document
			ok      bool
			version uint64
		)
		sess.Store().ReadAt(func(v uint64) {
			version = v
			doc, ok = sess.Documents.Peek().Find(id)
		})
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "document not found")
			return
		}
		httputil.WriteVersioned(w, r, version, doc)
	})

	return r
}
