package documents

import (
	"context"
	"log/slog"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

// SliceName prefixes every action of this slice.
const SliceName = "documents"

// API is the part of the gateway the lifecycle store needs.
type API interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	UploadDocument(ctx context.Context, upload domain.Upload) (domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	RetryDocument(ctx context.Context, id string) (domain.Document, error)
	SeedDocuments(ctx context.Context) ([]domain.Document, error)
}

// State is the documents branch of the state tree.
type State struct {
	Documents []domain.Document `json:"documents"`
	// Pending counts outstanding calls; the slice is loading while it is non-zero.
	Pending int    `json:"pending"`
	Err     string `json:"error,omitempty"`
}

func (s State) Loading() bool { return s.Pending > 0 }

// HasProcessing reports whether any document is still being processed server-side.
func (s State) HasProcessing() bool {
	for _, d := range s.Documents {
		if d.Status == domain.StatusProcessing {
			return true
		}
	}
	return false
}

// Find returns the document with the given id.
func (s State) Find(id string) (domain.Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

func cloneState(s State) State {
	s.Documents = append([]domain.Document(nil), s.Documents...)
	return s
}

// Store is the document lifecycle store. Every operation records failures in
// the slice and returns them.
type Store struct {
	slice     *store.Slice[State]
	api       API
	maxUpload int64
	log       *slog.Logger
}

func New(st *store.Store, api API, maxUpload int64, log *slog.Logger) *Store {
	return &Store{
		slice:     store.NewSlice(st, SliceName, func() State { return State{} }, cloneState),
		api:       api,
		maxUpload: maxUpload,
		log:       log.With("slice", SliceName),
	}
}

// State returns a copy of the slice.
func (s *Store) State() State { return s.slice.Get() }

// Peek must only be called inside store.Store.Read.
func (s *Store) Peek() State { return s.slice.Peek() }

func (s *Store) HasProcessing() bool { return s.slice.Get().HasProcessing() }

func (s *Store) Find(id string) (domain.Document, bool) { return s.slice.Get().Find(id) }

// Refresh replaces the collection with the server's. On failure existing
// documents are kept.
func (s *Store) Refresh(ctx context.Context) error {
	gen := s.pending("refresh")
	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return s.reject(gen, "refresh", err)
	}
	s.slice.Finish(gen, "refresh/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Documents = docs
	})
	return nil
}

// Upload validates the file locally, submits it and prepends the returned
// document. Its status is not final; callers refresh afterwards.
func (s *Store) Upload(ctx context.Context, upload domain.Upload) (domain.Document, error) {
	pages, err := ValidateUpload(upload, s.maxUpload)
	if err != nil {
		s.slice.Update("upload/rejected", func(st *State) { st.Err = domain.ErrorMessage(err) })
		s.log.Warn("upload rejected locally", "file", upload.FileName, "err", err)
		return domain.Document{}, err
	}
	s.log.Debug("uploading", "file", upload.FileName, "bytes", len(upload.Content), "pages", pages)

	gen := s.pending("upload")
	doc, err := s.api.UploadDocument(ctx, upload)
	if err != nil {
		return domain.Document{}, s.reject(gen, "upload", err)
	}
	s.slice.Finish(gen, "upload/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Documents = prepend(st.Documents, doc)
	})
	return doc, nil
}

// Delete removes the document once the server confirms. Clearing a selection
// that pointed at it is the caller's job.
func (s *Store) Delete(ctx context.Context, id string) error {
	gen := s.pending("delete")
	if err := s.api.DeleteDocument(ctx, id); err != nil {
		return s.reject(gen, "delete", err)
	}
	s.slice.Finish(gen, "delete/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Documents = remove(st.Documents, id)
	})
	return nil
}

// Retry asks the server to reprocess a document and replaces the local entry
// with the result. An entry that is already ready locally is left as is, and
// an id that is no longer present is ignored.
func (s *Store) Retry(ctx context.Context, id string) (domain.Document, error) {
	gen := s.pending("retry")
	doc, err := s.api.RetryDocument(ctx, id)
	if err != nil {
		return domain.Document{}, s.reject(gen, "retry", err)
	}
	s.slice.Finish(gen, "retry/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		for i, d := range st.Documents {
			if d.ID != doc.ID {
				continue
			}
			if !d.Ready() {
				st.Documents[i] = doc
			}
			return
		}
	})
	return doc, nil
}

// Seed creates the template documents server-side and prepends them.
func (s *Store) Seed(ctx context.Context) ([]domain.Document, error) {
	gen := s.pending("seed")
	docs, err := s.api.SeedDocuments(ctx)
	if err != nil {
		return nil, s.reject(gen, "seed", err)
	}
	s.slice.Finish(gen, "seed/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		for i := len(docs) - 1; i >= 0; i-- {
			st.Documents = prepend(st.Documents, docs[i])
		}
	})
	return docs, nil
}

// Reset clears the slice to empty and idle. Calls still in flight complete
// without effect.
func (s *Store) Reset() { s.slice.Reset() }

func (s *Store) pending(op string) uint64 {
	return s.slice.Begin(op+"/pending", func(st *State) { st.Pending++ })
}

func (s *Store) reject(gen uint64, op string, err error) error {
	s.slice.Finish(gen, op+"/rejected", func(st *State) {
		st.Pending--
		st.Err = domain.ErrorMessage(err)
	})
	s.log.Warn("operation failed", "action", SliceName+"/"+op, "err", err)
	return err
}

// prepend puts doc first, dropping any entry with the same id.
func prepend(docs []domain.Document, doc domain.Document) []domain.Document {
	out := make([]domain.Document, 0, len(docs)+1)
	out = append(out, doc)
	for _, d := range docs {
		if d.ID != doc.ID {
			out = append(out, d)
		}
	}
	return out
}

func remove(docs []domain.Document, id string) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
