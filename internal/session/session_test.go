package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abishek0612/student-revision-app-client/internal/auth"
	"github.com/Abishek0612/student-revision-app-client/internal/cache"
	"github.com/Abishek0612/student-revision-app-client/internal/documents"
	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/gateway"
	"github.com/Abishek0612/student-revision-app-client/internal/poller"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSession(t *testing.T) (*Session, *gateway.MockGateway, *auth.Credential) {
	t.Helper()
	api := new(gateway.MockGateway)
	creds := auth.NewCredential("token")
	s := New(store.New(), api, cache.NewMemoryCache(time.Minute), creds,
		Options{MaxUploadSize: 1 << 20, VideoCacheTTL: time.Minute}, nil, discard)
	return s, api, creds
}

func loaded(t *testing.T, docs ...domain.Document) (*Session, *gateway.MockGateway) {
	t.Helper()
	s, api, _ := newTestSession(t)
	api.On("ListDocuments", mock.Anything).Return(docs, nil).Once()
	require.NoError(t, s.RefreshDocuments(context.Background()))
	return s, api
}

var (
	readyDoc      = domain.Document{ID: "r", FileName: "physics.pdf", Status: domain.StatusReady, TotalPages: 42}
	processingDoc = domain.Document{ID: "p", FileName: "chem.pdf", Status: domain.StatusProcessing}
)

func fiveQuestions() []domain.Question {
	qs := make([]domain.Question, 5)
	for i := range qs {
		qs[i] = domain.Question{Prompt: "q", Kind: domain.KindMultipleChoice, Options: []string{"A", "B"}, Answer: "A"}
	}
	return qs
}

func TestUploadPollGenerateScenario(t *testing.T) {
	ctx := context.Background()
	s, api, _ := newTestSession(t)
	upload := domain.Upload{FileName: "physics.pdf", Content: documents.SamplePDF(3)}

	uploaded := domain.Document{ID: "phy", FileName: "physics.pdf", Status: domain.StatusProcessing}
	ready := domain.Document{ID: "phy", FileName: "physics.pdf", Status: domain.StatusReady, TotalPages: 42}
	api.On("UploadDocument", mock.Anything, upload).Return(uploaded, nil)
	api.On("ListDocuments", mock.Anything).Return([]domain.Document{uploaded}, nil).Once()
	api.On("ListDocuments", mock.Anything).Return([]domain.Document{ready}, nil)
	api.On("GenerateQuiz", mock.Anything, domain.QuizRequest{
		DocumentID:    "phy",
		QuestionCount: 5,
		QuestionKinds: DefaultQuestionKinds,
	}).Return(fiveQuestions(), nil)

	doc, err := s.UploadDocument(ctx, upload)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, doc.Status)
	require.NoError(t, s.SelectDocument("phy"))

	// Not ready yet: refused locally.
	_, err = s.GenerateQuiz(ctx, 5, nil)
	var pe *domain.PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "processing", pe.State)
	assert.False(t, s.CanGenerateQuiz())

	p := poller.New(s.Store(), s.Documents, 10*time.Millisecond, nil, discard)
	pctx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- p.Run(pctx) }()

	assert.Eventually(t, s.CanGenerateQuiz, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !p.Armed() }, time.Second, time.Millisecond)
	stop()
	require.NoError(t, <-done)

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 42, selected.TotalPages)

	questions, err := s.GenerateQuiz(ctx, 5, nil)
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	assert.Len(t, s.Quiz.State().Session.Questions, 5)
}

func TestGenerateQuizClampsCount(t *testing.T) {
	s, api := loaded(t, readyDoc)
	require.NoError(t, s.SelectDocument("r"))
	api.On("GenerateQuiz", mock.Anything, mock.MatchedBy(func(r domain.QuizRequest) bool {
		return r.QuestionCount == 20
	})).Return(fiveQuestions(), nil)

	_, err := s.GenerateQuiz(context.Background(), 50, []domain.QuestionKind{domain.KindMultipleChoice})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestGenerateQuizWithoutSelection(t *testing.T) {
	s, api := loaded(t, readyDoc)

	_, err := s.GenerateQuiz(context.Background(), 5, nil)

	var pe *domain.PreconditionError
	assert.True(t, errors.As(err, &pe))
	api.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything)
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	ctx := context.Background()
	s, api := loaded(t, readyDoc, processingDoc)
	api.On("RecommendVideos", mock.Anything, "r").Return([]domain.Video{{ID: "v1"}}, nil)
	api.On("DeleteDocument", mock.Anything, "r").Return(nil)

	require.NoError(t, s.SelectDocument("r"))
	_, err := s.RecommendVideos(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(ctx, "r"))

	_, ok := s.Selected()
	assert.False(t, ok)
	tree := s.Snapshot()
	assert.Empty(t, tree.Selection.DocumentID)
	assert.Empty(t, tree.Videos.Videos)
	assert.Equal(t, []domain.Document{processingDoc}, tree.Documents.Documents)
}

func TestDeleteOtherKeepsSelection(t *testing.T) {
	s, api := loaded(t, readyDoc, processingDoc)
	api.On("DeleteDocument", mock.Anything, "p").Return(nil)
	require.NoError(t, s.SelectDocument("r"))

	require.NoError(t, s.DeleteDocument(context.Background(), "p"))

	doc, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "r", doc.ID)
}

func TestSelectUnknownDocument(t *testing.T) {
	s, _ := loaded(t, readyDoc)

	var pe *domain.PreconditionError
	assert.True(t, errors.As(s.SelectDocument("nope"), &pe))
	assert.NoError(t, s.SelectDocument(""))
}

func TestChangingSelectionResetsVideos(t *testing.T) {
	other := domain.Document{ID: "o", FileName: "bio.pdf", Status: domain.StatusReady}
	s, api := loaded(t, readyDoc, other)
	api.On("RecommendVideos", mock.Anything, "r").Return([]domain.Video{{ID: "v1"}}, nil)

	require.NoError(t, s.SelectDocument("r"))
	_, err := s.RecommendVideos(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SelectDocument("r"))
	assert.Len(t, s.Videos.State().Videos, 1)

	require.NoError(t, s.SelectDocument("o"))
	assert.Empty(t, s.Videos.State().Videos)
}

func TestRecommendVideosRequiresReady(t *testing.T) {
	s, api := loaded(t, processingDoc)
	require.NoError(t, s.SelectDocument("p"))

	_, err := s.RecommendVideos(context.Background())

	var pe *domain.PreconditionError
	assert.True(t, errors.As(err, &pe))
	api.AssertNotCalled(t, "RecommendVideos", mock.Anything, mock.Anything)
}

func TestRefreshVideosBypassesCache(t *testing.T) {
	s, api := loaded(t, readyDoc)
	api.On("RecommendVideos", mock.Anything, "r").Return([]domain.Video{{ID: "v1"}}, nil).Twice()
	require.NoError(t, s.SelectDocument("r"))

	_, err := s.RecommendVideos(context.Background())
	require.NoError(t, err)
	_, err = s.RecommendVideos(context.Background())
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "RecommendVideos", 1)

	videos, err := s.RefreshVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	api.AssertNumberOfCalls(t, "RecommendVideos", 2)
}

func TestStartThreadAndAskAreScopedToSelection(t *testing.T) {
	ctx := context.Background()
	s, api := loaded(t, readyDoc)
	require.NoError(t, s.SelectDocument("r"))

	api.On("CreateThread", mock.Anything, domain.NewThread{DocumentID: "r", Title: "Chat about physics.pdf"}).
		Return(domain.Thread{ID: "t1", Title: "Chat about physics.pdf", Document: domain.DocumentRef{ID: "r"}}, nil)
	api.On("SendMessage", mock.Anything, domain.OutgoingMessage{ThreadID: "t1", Text: "Define force", DocumentIDs: []string{"r"}}).
		Return(domain.Thread{ID: "t1", Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "Define force"},
			{Role: domain.RoleAssistant, Content: "A push or pull.", Citations: []domain.Citation{{PageNumber: 7}}},
		}}, nil)

	_, err := s.StartThread(ctx, "")
	require.NoError(t, err)
	thread, err := s.Ask(ctx, "Define force")
	require.NoError(t, err)

	assert.Len(t, thread.Messages, 2)
	current, ok := s.Chat.Current()
	require.True(t, ok)
	assert.Equal(t, thread, current)
}

func TestLogoutResetsEverything(t *testing.T) {
	ctx := context.Background()
	s, api, creds := newTestSession(t)
	api.On("ListDocuments", mock.Anything).Return([]domain.Document{readyDoc}, nil)
	api.On("ListThreads", mock.Anything).Return([]domain.Thread{{ID: "t1"}}, nil)
	api.On("QuizProgress", mock.Anything).Return([]domain.Attempt{{ID: "a1"}}, nil)

	require.NoError(t, s.RefreshDocuments(ctx))
	require.NoError(t, s.SelectDocument("r"))
	_, err := s.Chat.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Chat.Select("t1"))
	_, err = s.Quiz.LoadProgress(ctx)
	require.NoError(t, err)

	s.Logout()

	tree := s.Snapshot()
	assert.Empty(t, tree.Selection.DocumentID)
	assert.Empty(t, tree.Documents.Documents)
	assert.Empty(t, tree.Chat.Threads)
	assert.Empty(t, tree.Chat.CurrentID)
	assert.Empty(t, tree.Quiz.Progress)
	assert.Nil(t, tree.Quiz.Session)

	_, err = creds.Token(ctx)
	assert.ErrorIs(t, err, auth.ErrNoCredential)

	s.Login("fresh")
	token, err := creds.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestSnapshotMarshals(t *testing.T) {
	s, _ := loaded(t, readyDoc)
	require.NoError(t, s.SelectDocument("r"))

	tree := s.Snapshot()
	assert.NotZero(t, tree.Version)

	raw, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]any{"documentId": "r"}, decoded["selection"])
}
