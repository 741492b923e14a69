package session

import (
	"context"
	"fmt"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/quiz"
)

// DefaultQuestionKinds is used when a quiz request names none.
var DefaultQuestionKinds = []domain.QuestionKind{domain.KindMultipleChoice, domain.KindShortAnswer}

// SelectDocument focuses id; an empty id deselects. Recommendations are
// cleared whenever the selection changes.
func (s *Session) SelectDocument(id string) error {
	if id != "" {
		if _, ok := s.Documents.Find(id); !ok {
			return &domain.PreconditionError{Resource: "document", ID: id, State: "missing", Message: "document not found"}
		}
	}
	changed := false
	s.selection.Update("select", func(sel *Selection) {
		changed = sel.DocumentID != id
		sel.DocumentID = id
	})
	if changed {
		s.Videos.Reset()
	}
	return nil
}

// Selected returns the focused document as currently known.
func (s *Session) Selected() (domain.Document, bool) {
	var (
		doc domain.Document
		ok  bool
	)
	s.st.Read(func() {
		sel := s.selection.Peek()
		if sel.DocumentID == "" {
			return
		}
		doc, ok = s.Documents.Peek().Find(sel.DocumentID)
	})
	return doc, ok
}

func (s *Session) RefreshDocuments(ctx context.Context) error {
	return s.Documents.Refresh(ctx)
}

// UploadDocument uploads and immediately refreshes the list so the server's
// processing status is picked up. A failed refresh does not fail the upload.
func (s *Session) UploadDocument(ctx context.Context, upload domain.Upload) (domain.Document, error) {
	doc, err := s.Documents.Upload(ctx, upload)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.Documents.Refresh(ctx); err != nil {
		s.log.Warn("refresh after upload failed", "document_id", doc.ID, "err", err)
	}
	if cur, ok := s.Documents.Find(doc.ID); ok {
		doc = cur
	}
	return doc, nil
}

// DeleteDocument deletes and, if it was selected, clears the selection and
// its recommendations.
func (s *Session) DeleteDocument(ctx context.Context, id string) error {
	if err := s.Documents.Delete(ctx, id); err != nil {
		return err
	}
	cleared := false
	s.selection.Update("clear", func(sel *Selection) {
		if sel.DocumentID == id {
			sel.DocumentID = ""
			cleared = true
		}
	})
	if cleared {
		s.Videos.Reset()
	}
	return nil
}

func (s *Session) RetryDocument(ctx context.Context, id string) (domain.Document, error) {
	return s.Documents.Retry(ctx, id)
}

func (s *Session) SeedDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.Documents.Seed(ctx)
}

// GenerateQuiz creates a quiz over the selected document. It is refused
// without a request unless that document is ready.
func (s *Session) GenerateQuiz(ctx context.Context, count int, kinds []domain.QuestionKind) ([]domain.Question, error) {
	doc, err := s.readySelection("generate a quiz")
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = DefaultQuestionKinds
	}
	return s.Quiz.Generate(ctx, domain.QuizRequest{
		DocumentID:    doc.ID,
		QuestionCount: quiz.ClampCount(count),
		QuestionKinds: kinds,
	})
}

// CanGenerateQuiz reports whether quiz generation is currently allowed.
func (s *Session) CanGenerateQuiz() bool {
	_, err := s.readySelection("generate a quiz")
	return err == nil
}

// RecommendVideos fetches recommendations for the selected ready document.
func (s *Session) RecommendVideos(ctx context.Context) ([]domain.Video, error) {
	doc, err := s.readySelection("recommend videos")
	if err != nil {
		return nil, err
	}
	return s.Videos.Fetch(ctx, doc.ID)
}

// RefreshVideos refetches recommendations for the selected ready document,
// skipping the cache.
func (s *Session) RefreshVideos(ctx context.Context) ([]domain.Video, error) {
	doc, err := s.readySelection("refresh videos")
	if err != nil {
		return nil, err
	}
	return s.Videos.Refresh(ctx, doc.ID)
}

// StartThread creates a thread bound to the selected document, if any.
func (s *Session) StartThread(ctx context.Context, title string) (domain.Thread, error) {
	req := domain.NewThread{Title: title}
	if doc, ok := s.Selected(); ok {
		req.DocumentID = doc.ID
		if req.Title == "" {
			req.Title = "Chat about " + doc.FileName
		}
	}
	return s.Chat.Create(ctx, req)
}

// Ask sends text to the current thread, scoped to the selected document when
// it is ready.
func (s *Session) Ask(ctx context.Context, text string) (domain.Thread, error) {
	msg := domain.OutgoingMessage{Text: text}
	if doc, ok := s.Selected(); ok && doc.Ready() {
		msg.DocumentIDs = []string{doc.ID}
	}
	return s.Chat.Send(ctx, msg)
}

func (s *Session) readySelection(action string) (domain.Document, error) {
	doc, ok := s.Selected()
	if !ok {
		return domain.Document{}, &domain.PreconditionError{Resource: "document", Message: "select a document to " + action}
	}
	if !doc.Ready() {
		return domain.Document{}, &domain.PreconditionError{
			Resource: "document",
			ID:       doc.ID,
			State:    string(doc.Status),
			Message:  fmt.Sprintf("%s is not ready yet", doc.FileName),
		}
	}
	return doc, nil
}
