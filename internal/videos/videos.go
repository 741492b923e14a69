package videos

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abishek0612/student-revision-app-client/internal/cache"
	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

const SliceName = "videos"

type API interface {
	RecommendVideos(ctx context.Context, documentID string) ([]domain.Video, error)
}

// State holds the recommendations for one bound document.
type State struct {
	DocumentID string         `json:"documentId,omitempty"`
	Videos     []domain.Video `json:"videos"`
	Pending    int            `json:"pending"`
	Err        string         `json:"error,omitempty"`
}

func (s State) Loading() bool { return s.Pending > 0 }

func cloneState(s State) State {
	s.Videos = append([]domain.Video(nil), s.Videos...)
	return s
}

// Recommendations is the recommendation slice, backed by a cache.
type Recommendations struct {
	slice   *store.Slice[State]
	api     API
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

func New(st *store.Store, api API, c cache.Cache, ttl time.Duration, m *metrics.Metrics, log *slog.Logger) *Recommendations {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Recommendations{
		slice:   store.NewSlice(st, SliceName, func() State { return State{} }, cloneState),
		api:     api,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		log:     log.With("slice", SliceName),
	}
}

func (r *Recommendations) State() State { return r.slice.Get() }

// Peek must only be called inside store.Store.Read.
func (r *Recommendations) Peek() State { return r.slice.Peek() }

// Fetch binds the slice to docID and replaces its list, from cache when
// possible. A result for a document that is no longer bound is discarded.
// Readiness of the document is the caller's check.
func (r *Recommendations) Fetch(ctx context.Context, docID string) ([]domain.Video, error) {
	gen := r.slice.Begin("fetch/pending", func(st *State) {
		if st.DocumentID != docID {
			st.DocumentID = docID
			st.Videos = nil
		}
		st.Pending++
	})

	videos, err := r.load(ctx, docID)
	if err != nil {
		r.slice.Finish(gen, "fetch/rejected", func(st *State) {
			st.Pending--
			if st.DocumentID == docID {
				st.Err = domain.ErrorMessage(err)
			}
		})
		r.log.Warn("operation failed", "action", SliceName+"/fetch", "document_id", docID, "err", err)
		return nil, err
	}
	r.slice.Finish(gen, "fetch/fulfilled", func(st *State) {
		st.Pending--
		if st.DocumentID != docID {
			return
		}
		st.Err = ""
		st.Videos = videos
	})
	return videos, nil
}

// Refresh drops the cached list for docID and fetches again.
func (r *Recommendations) Refresh(ctx context.Context, docID string) ([]domain.Video, error) {
	if err := r.cache.InvalidateDocument(ctx, docID); err != nil {
		r.log.Warn("cache invalidate failed", "document_id", docID, "err", err)
	}
	return r.Fetch(ctx, docID)
}

// Reset clears the list; used when the bound document changes or is deselected.
func (r *Recommendations) Reset() { r.slice.Reset() }

func (r *Recommendations) load(ctx context.Context, docID string) ([]domain.Video, error) {
	cached, ok, err := r.cache.GetVideos(ctx, docID)
	if err != nil {
		r.log.Warn("cache read failed", "document_id", docID, "err", err)
	}
	r.metrics.RecordCacheLookup(ok)
	if ok {
		return cached, nil
	}

	videos, err := r.api.RecommendVideos(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetVideos(ctx, docID, videos, r.ttl); err != nil {
		r.log.Warn("cache write failed", "document_id", docID, "err", err)
	}
	return videos, nil
}
