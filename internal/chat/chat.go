package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

const SliceName = "chat"

// API is the part of the gateway the chat engine needs.
type API interface {
	ListThreads(ctx context.Context) ([]domain.Thread, error)
	CreateThread(ctx context.Context, req domain.NewThread) (domain.Thread, error)
	SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.Thread, error)
	DeleteThread(ctx context.Context, id string) error
}

// State is the chat branch of the state tree. The current thread is held by
// id and resolved against Threads.
type State struct {
	Threads   []domain.Thread `json:"threads"`
	CurrentID string          `json:"currentId,omitempty"`
	// Sending counts outstanding sends per thread id.
	Sending map[string]int `json:"sending,omitempty"`
	Pending int            `json:"pending"`
	Err     string         `json:"error,omitempty"`
}

func (s State) Loading() bool { return s.Pending > 0 }

// Current returns the selected thread.
func (s State) Current() (domain.Thread, bool) {
	if s.CurrentID == "" {
		return domain.Thread{}, false
	}
	return s.Find(s.CurrentID)
}

func (s State) Find(id string) (domain.Thread, bool) {
	for _, t := range s.Threads {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Thread{}, false
}

func (s State) has(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// IsSending reports whether a message to the thread is awaiting its reply.
func (s State) IsSending(id string) bool { return s.Sending[id] > 0 }

func cloneState(s State) State {
	threads := make([]domain.Thread, len(s.Threads))
	for i, t := range s.Threads {
		threads[i] = domain.CloneThread(t)
	}
	s.Threads = threads
	if s.Sending != nil {
		sending := make(map[string]int, len(s.Sending))
		for k, v := range s.Sending {
			sending[k] = v
		}
		s.Sending = sending
	}
	return s
}

// Engine manages threads, the current thread and message exchange. Messages
// appear only once the service returns the updated thread.
type Engine struct {
	slice *store.Slice[State]
	api   API
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*threadLock
}

func New(st *store.Store, api API, log *slog.Logger) *Engine {
	return &Engine{
		slice: store.NewSlice(st, SliceName, func() State { return State{} }, cloneState),
		api:   api,
		log:   log.With("slice", SliceName),
		locks: make(map[string]*threadLock),
	}
}

func (e *Engine) State() State { return e.slice.Get() }

// Peek must only be called inside store.Store.Read.
func (e *Engine) Peek() State { return e.slice.Peek() }

func (e *Engine) Current() (domain.Thread, bool) { return e.slice.Get().Current() }

// Load replaces the thread collection with the server's.
func (e *Engine) Load(ctx context.Context) ([]domain.Thread, error) {
	gen := e.begin("list")
	threads, err := e.api.ListThreads(ctx)
	if err != nil {
		return nil, e.reject(gen, "list", err)
	}
	e.slice.Finish(gen, "list/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Threads = threads
		if _, ok := st.Current(); !ok {
			st.CurrentID = ""
		}
	})
	return threads, nil
}

// Create starts a thread, optionally bound to a document, and makes it current.
func (e *Engine) Create(ctx context.Context, req domain.NewThread) (domain.Thread, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return domain.Thread{}, e.invalid("create", &domain.ValidationError{Field: "title", Message: "title is required"})
	}
	gen := e.begin("create")
	thread, err := e.api.CreateThread(ctx, req)
	if err != nil {
		return domain.Thread{}, e.reject(gen, "create", err)
	}
	e.slice.Finish(gen, "create/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Threads = append([]domain.Thread{thread}, remove(st.Threads, thread.ID)...)
		st.CurrentID = thread.ID
	})
	return thread, nil
}

// Select makes id the current thread; an empty id deselects.
func (e *Engine) Select(id string) error {
	var err error
	e.slice.Update("select", func(st *State) {
		if id != "" {
			if _, ok := st.Find(id); !ok {
				err = &domain.PreconditionError{Resource: "thread", ID: id, State: "missing", Message: "conversation not found"}
				return
			}
		}
		st.CurrentID = id
	})
	return err
}

// Send posts a message to msg.ThreadID, or to the current thread when empty.
// Blank text, no current thread, or a thread missing from the collection is
// rejected before any request. Sends to the same thread are serialized so
// replies arrive in the order messages were sent; a send waiting its turn
// already counts in Sending. On success the returned thread replaces its
// entry; a thread deleted meanwhile is not brought back.
func (e *Engine) Send(ctx context.Context, msg domain.OutgoingMessage) (domain.Thread, error) {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		return domain.Thread{}, e.invalid("send", &domain.ValidationError{Field: "message", Message: "message is empty"})
	}

	var precondition error
	gen := e.slice.Begin("send/pending", func(st *State) {
		if msg.ThreadID == "" {
			msg.ThreadID = st.CurrentID
		}
		switch {
		case st.CurrentID == "":
			precondition = &domain.PreconditionError{Resource: "thread", Message: "select or start a conversation first"}
		case !st.has(msg.ThreadID):
			precondition = &domain.PreconditionError{Resource: "thread", ID: msg.ThreadID, State: "missing", Message: "conversation not found"}
		default:
			if st.Sending == nil {
				st.Sending = make(map[string]int)
			}
			st.Sending[msg.ThreadID]++
			return
		}
		st.Err = domain.ErrorMessage(precondition)
	})
	if precondition != nil {
		return domain.Thread{}, precondition
	}

	id := msg.ThreadID
	release := e.acquire(id)
	defer release()

	thread, err := e.api.SendMessage(ctx, msg)
	if err != nil {
		e.slice.Finish(gen, "send/rejected", func(st *State) {
			doneSending(st, id)
			st.Err = domain.ErrorMessage(err)
		})
		e.log.Warn("operation failed", "action", SliceName+"/send", "thread_id", id, "err", err)
		return domain.Thread{}, err
	}
	e.slice.Finish(gen, "send/fulfilled", func(st *State) {
		doneSending(st, id)
		st.Err = ""
		for i, t := range st.Threads {
			if t.ID == thread.ID {
				st.Threads[i] = thread
				return
			}
		}
	})
	return thread, nil
}

// Delete removes a thread and clears the current pointer if it was selected.
func (e *Engine) Delete(ctx context.Context, id string) error {
	gen := e.begin("delete")
	if err := e.api.DeleteThread(ctx, id); err != nil {
		return e.reject(gen, "delete", err)
	}
	e.slice.Finish(gen, "delete/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Threads = remove(st.Threads, id)
		if st.CurrentID == id {
			st.CurrentID = ""
		}
	})
	return nil
}

func (e *Engine) Reset() { e.slice.Reset() }

// threadLock serializes sends to one thread. It stays registered while any
// send holds or waits for it.
type threadLock struct {
	sync.Mutex
	refs int
}

// acquire blocks until the caller owns the lock for id and returns its release.
func (e *Engine) acquire(id string) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &threadLock{}
		e.locks[id] = l
	}
	l.refs++
	e.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, id)
		}
		e.mu.Unlock()
	}
}

func (e *Engine) begin(op string) uint64 {
	return e.slice.Begin(op+"/pending", func(st *State) { st.Pending++ })
}

func (e *Engine) reject(gen uint64, op string, err error) error {
	e.slice.Finish(gen, op+"/rejected", func(st *State) {
		st.Pending--
		st.Err = domain.ErrorMessage(err)
	})
	e.log.Warn("operation failed", "action", SliceName+"/"+op, "err", err)
	return err
}

// invalid records a locally rejected operation.
func (e *Engine) invalid(op string, err error) error {
	e.slice.Update(op+"/rejected", func(st *State) { st.Err = domain.ErrorMessage(err) })
	return err
}

func doneSending(st *State, id string) {
	if st.Sending[id] <= 1 {
		delete(st.Sending, id)
		return
	}
	st.Sending[id]--
}

func remove(threads []domain.Thread, id string) []domain.Thread {
	out := make([]domain.Thread, 0, len(threads))
	for _, t := range threads {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
