package session

import (
	"log/slog"
	"time"

	"github.com/Abishek0612/student-revision-app-client/internal/cache"
	"github.com/Abishek0612/student-revision-app-client/internal/chat"
	"github.com/Abishek0612/student-revision-app-client/internal/documents"
	"github.com/Abishek0612/student-revision-app-client/internal/gateway"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/quiz"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
	"github.com/Abishek0612/student-revision-app-client/internal/videos"
)

const selectionSlice = "selection"

// Selection is the document the user is focused on. The current thread lives
// in the chat slice.
type Selection struct {
	DocumentID string `json:"documentId,omitempty"`
}

// Tree is a consistent snapshot of the whole state container.
type Tree struct {
	Version   uint64          `json:"version"`
	Selection Selection       `json:"selection"`
	Documents documents.State `json:"documents"`
	Quiz      quiz.State      `json:"quiz"`
	Chat      chat.State      `json:"chat"`
	Videos    videos.State    `json:"videos"`
}

// Credentials is the bearer credential holder cleared on logout.
type Credentials interface {
	Set(token string)
	Clear()
}

type Options struct {
	MaxUploadSize int64
	VideoCacheTTL time.Duration
}

// Session composes the slices of one signed-in user and runs the sequences
// that span more than one of them.
type Session struct {
	st        *store.Store
	selection *store.Slice[Selection]
	creds     Credentials
	log       *slog.Logger

	Documents *documents.Store
	Quiz      *quiz.Engine
	Chat      *chat.Engine
	Videos    *videos.Recommendations
}

// New builds every slice on st. creds may be nil.
func New(st *store.Store, api gateway.Gateway, c cache.Cache, creds Credentials, opts Options, m *metrics.Metrics, log *slog.Logger) *Session {
	return &Session{
		st:        st,
		selection: store.NewSlice(st, selectionSlice, func() Selection { return Selection{} }, nil),
		creds:     creds,
		log:       log.With("component", "session"),
		Documents: documents.New(st, api, opts.MaxUploadSize, log),
		Quiz:      quiz.New(st, api, log),
		Chat:      chat.New(st, api, log),
		Videos:    videos.New(st, api, c, opts.VideoCacheTTL, m, log),
	}
}

// Store exposes the container for subscribers such as the poller.
func (s *Session) Store() *store.Store { return s.st }

// Snapshot reads every slice under one lock.
func (s *Session) Snapshot() Tree {
	var t Tree
	s.st.ReadAt(func(version uint64) {
		t = Tree{
			Version:   version,
			Selection: s.selection.Peek(),
			Documents: s.Documents.Peek(),
			Quiz:      s.Quiz.Peek(),
			Chat:      s.Chat.Peek(),
			Videos:    s.Videos.Peek(),
		}
	})
	return t
}

// Login installs a credential for a new session.
func (s *Session) Login(token string) {
	if s.creds != nil {
		s.creds.Set(token)
	}
}

// Logout drops the credential and returns every slice to its initial state.
func (s *Session) Logout() {
	if s.creds != nil {
		s.creds.Clear()
	}
	s.st.ResetAll()
	s.log.Info("signed out")
}
