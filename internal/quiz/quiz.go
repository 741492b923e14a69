package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

const SliceName = "quiz"

// Question count bounds accepted by the service.
const (
	MinQuestions = 1
	MaxQuestions = 20
)

// API is the part of the gateway the quiz engine needs.
type API interface {
	GenerateQuiz(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error)
	QuizProgress(ctx context.Context) ([]domain.Attempt, error)
}

// Session is one generated quiz. Once Revealed it is read-only.
type Session struct {
	DocumentID string            `json:"documentId"`
	Questions  []domain.Question `json:"questions"`
	Answers    map[int]string    `json:"answers"`
	Revealed   bool              `json:"revealed"`
}

// State is the quiz branch of the state tree.
type State struct {
	Session  *Session         `json:"session,omitempty"`
	Progress []domain.Attempt `json:"progress"`
	Pending  int              `json:"pending"`
	Err      string           `json:"error,omitempty"`
}

func (s State) Loading() bool { return s.Pending > 0 }

func cloneState(s State) State {
	if s.Session != nil {
		sess := *s.Session
		sess.Questions = make([]domain.Question, len(s.Session.Questions))
		for i, q := range s.Session.Questions {
			q.Options = append([]string(nil), q.Options...)
			sess.Questions[i] = q
		}
		sess.Answers = make(map[int]string, len(s.Session.Answers))
		for k, v := range s.Session.Answers {
			sess.Answers[k] = v
		}
		s.Session = &sess
	}
	s.Progress = append([]domain.Attempt(nil), s.Progress...)
	return s
}

// Engine drives the quiz session: generate, answer, submit, score.
type Engine struct {
	slice *store.Slice[State]
	api   API
	log   *slog.Logger
}

func New(st *store.Store, api API, log *slog.Logger) *Engine {
	return &Engine{
		slice: store.NewSlice(st, SliceName, func() State { return State{} }, cloneState),
		api:   api,
		log:   log.With("slice", SliceName),
	}
}

func (e *Engine) State() State { return e.slice.Get() }

// Peek must only be called inside store.Store.Read.
func (e *Engine) Peek() State { return e.slice.Peek() }

// Generate requests a quiz and, on success, replaces the session wholesale
// with fresh answers. Readiness of the document is not checked here; the
// service rejects non-ready documents and that error is returned.
func (e *Engine) Generate(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error) {
	gen := e.slice.Begin("generate/pending", func(st *State) { st.Pending++ })
	questions, err := e.api.GenerateQuiz(ctx, req)
	if err != nil {
		e.slice.Finish(gen, "generate/rejected", func(st *State) {
			st.Pending--
			st.Err = domain.ErrorMessage(err)
		})
		e.log.Warn("operation failed", "action", SliceName+"/generate", "document_id", req.DocumentID, "err", err)
		return nil, err
	}
	e.slice.Finish(gen, "generate/fulfilled", func(st *State) {
		st.Pending--
		st.Err = ""
		st.Session = &Session{
			DocumentID: req.DocumentID,
			Questions:  questions,
			Answers:    make(map[int]string),
		}
	})
	return questions, nil
}

// Answer records value for question index. It is rejected without effect once
// the session is revealed.
func (e *Engine) Answer(index int, value string) error {
	var err error
	e.slice.Update("answer", func(st *State) {
		switch {
		case st.Session == nil:
			err = &domain.PreconditionError{Resource: "quiz", Message: "no quiz in progress"}
		case st.Session.Revealed:
			err = &domain.PreconditionError{Resource: "quiz", State: "revealed", Message: "quiz already submitted"}
		case index < 0 || index >= len(st.Session.Questions):
			err = &domain.ValidationError{Field: "question", Message: fmt.Sprintf("no question %d", index+1)}
		default:
			st.Session.Answers[index] = value
		}
	})
	return err
}

// Submit reveals the session and returns its score. Repeated calls have no
// further effect.
func (e *Engine) Submit() (Score, error) {
	var (
		score Score
		err   error
	)
	e.slice.Update("submit", func(st *State) {
		if st.Session == nil {
			err = &domain.PreconditionError{Resource: "quiz", Message: "no quiz in progress"}
			return
		}
		st.Session.Revealed = true
		score = Grade(st.Session.Questions, st.Session.Answers)
	})
	return score, err
}

// Score grades the current session. It has no side effects.
func (e *Engine) Score() Score {
	st := e.slice.Get()
	if st.Session == nil {
		return Score{}
	}
	return Grade(st.Session.Questions, st.Session.Answers)
}

// Clear discards the session.
func (e *Engine) Clear() {
	e.slice.Update("clear", func(st *State) {
		st.Session = nil
		st.Err = ""
	})
}

// LoadProgress replaces the attempt history with the server's.
func (e *Engine) LoadProgress(ctx context.Context) ([]domain.Attempt, error) {
	gen := e.slice.Begin("progress/pending", func(st *State) { st.Pending++ })
	attempts, err := e.api.QuizProgress(ctx)
	if err != nil {
		e.slice.Finish(gen, "progress/rejected", func(st *State) {
			st.Pending--
			st.Err = domain.ErrorMessage(err)
		})
		e.log.Warn("operation failed", "action", SliceName+"/progress", "err", err)
		return nil, err
	}
	e.slice.Finish(gen, "progress/fulfilled", func(st *State) {
		st.Pending--
		st.Progress = attempts
	})
	return attempts, nil
}

func (e *Engine) Reset() { e.slice.Reset() }

// ClampCount bounds a requested question count to what the service accepts.
func ClampCount(n int) int {
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
