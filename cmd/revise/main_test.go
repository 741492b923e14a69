package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abishek0612/student-revision-app-client/internal/auth"
	"github.com/Abishek0612/student-revision-app-client/internal/cache"
	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/events"
	"github.com/Abishek0612/student-revision-app-client/internal/gateway"
	"github.com/Abishek0612/student-revision-app-client/internal/httputil"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/session"
	"github.com/Abishek0612/student-revision-app-client/internal/store"
)

func init() {
	color.NoColor = true
}

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSession(t *testing.T, m *metrics.Metrics, docs ...domain.Document) (*session.Session, *gateway.MockGateway) {
	t.Helper()
	api := new(gateway.MockGateway)
	api.On("ListDocuments", mock.Anything).Return(docs, nil)
	sess := session.New(store.New(), api, cache.NewNoOpCache(), auth.NewCredential("token"),
		session.Options{MaxUploadSize: 1 << 20, VideoCacheTTL: time.Minute}, m, testLog)
	require.NoError(t, sess.RefreshDocuments(context.Background()))
	return sess, api
}

var physics = domain.Document{ID: "d1", FileName: "physics.pdf", Status: domain.StatusReady, TotalPages: 42}

func TestStatusRouter(t *testing.T) {
	m := metrics.New()
	sess, _ := newTestSession(t, m, physics)
	srv := httptest.NewServer(statusRouter(sess, m, testLog))
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(*testing.T, []byte)
	}{
		{
			name:       "health",
			path:       "/healthz",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "ok", string(body))
			},
		},
		{
			name:       "state snapshot",
			path:       "/state",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var tree session.Tree
				require.NoError(t, json.Unmarshal(body, &tree))
				require.Len(t, tree.Documents.Documents, 1)
				assert.Equal(t, "physics.pdf", tree.Documents.Documents[0].FileName)
				assert.Positive(t, tree.Version)
			},
		},
		{
			name:       "metrics",
			path:       "/metrics",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "revise_poller_armed")
			},
		},
		{
			name:       "known document",
			path:       "/documents/d1",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var doc domain.Document
				require.NoError(t, json.Unmarshal(body, &doc))
				assert.Equal(t, 42, doc.TotalPages)
			},
		},
		{
			name:       "unknown document",
			path:       "/documents/missing",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestStateIsVersioned(t *testing.T) {
	sess, _ := newTestSession(t, nil, physics)
	srv := httptest.NewServer(statusRouter(sess, nil, testLog))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	assert.NotEmpty(t, resp.Header.Get(httputil.VersionHeader))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/state", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	require.NoError(t, sess.SelectDocument("d1"))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))
}

// sessionWithListings answers successive document listings in order and
// repeats the last one. The first listing is loaded before returning.
func sessionWithListings(t *testing.T, listings ...[]domain.Document) (*session.Session, *gateway.MockGateway) {
	t.Helper()
	api := new(gateway.MockGateway)
	for _, docs := range listings[:len(listings)-1] {
		api.On("ListDocuments", mock.Anything).Return(docs, nil).Once()
	}
	api.On("ListDocuments", mock.Anything).Return(listings[len(listings)-1], nil)
	sess := session.New(store.New(), api, cache.NewNoOpCache(), auth.NewCredential("token"),
		session.Options{MaxUploadSize: 1 << 20, VideoCacheTTL: time.Minute}, nil, testLog)
	require.NoError(t, sess.RefreshDocuments(context.Background()))
	return sess, api
}

func TestWaitForTerminal(t *testing.T) {
	uploading := domain.Document{ID: "u1", FileName: "physics.pdf", Status: domain.StatusUploading}
	processing := domain.Document{ID: "u1", FileName: "physics.pdf", Status: domain.StatusProcessing}
	ready := domain.Document{ID: "u1", FileName: "physics.pdf", Status: domain.StatusReady, TotalPages: 42}
	failed := domain.Document{ID: "u1", FileName: "physics.pdf", Status: domain.StatusError, ErrorMessage: "unreadable"}

	tests := []struct {
		name       string
		listings   [][]domain.Document
		wantStatus domain.DocumentStatus
	}{
		{"still uploading", [][]domain.Document{{uploading}, {uploading}, {ready}}, domain.StatusReady},
		{"processing", [][]domain.Document{{processing}, {processing}, {ready}}, domain.StatusReady},
		{"uploading then processing", [][]domain.Document{{uploading}, {processing}, {failed}}, domain.StatusError},
		{"already ready", [][]domain.Document{{ready}}, domain.StatusReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := sessionWithListings(t, tt.listings...)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			doc, err := waitForTerminal(ctx, sess, "u1", 20*time.Millisecond, nil, testLog)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, doc.Status)
		})
	}
}

func TestWaitForTerminalDocumentGone(t *testing.T) {
	uploading := domain.Document{ID: "u1", Status: domain.StatusUploading}
	sess, _ := sessionWithListings(t, []domain.Document{uploading}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := waitForTerminal(ctx, sess, "u1", 20*time.Millisecond, nil, testLog)
	assert.ErrorContains(t, err, "no longer listed")
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []domain.QuestionKind
		wantErr bool
	}{
		{"defaults", []string{"MCQ", "SAQ"}, []domain.QuestionKind{domain.KindMultipleChoice, domain.KindShortAnswer}, false},
		{"case insensitive", []string{" mcq "}, []domain.QuestionKind{domain.KindMultipleChoice}, false},
		{"unknown", []string{"LAQ"}, nil, true},
		{"empty", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKinds(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAnswer(t *testing.T) {
	mcq := domain.Question{Kind: domain.KindMultipleChoice, Options: []string{"Newton", "Joule"}}
	saq := domain.Question{Kind: domain.KindShortAnswer}

	assert.Equal(t, "Joule", resolveAnswer(mcq, "2"))
	assert.Equal(t, "Newton", resolveAnswer(mcq, " Newton "))
	assert.Equal(t, "7", resolveAnswer(mcq, "7"))
	assert.Equal(t, "2", resolveAnswer(saq, "2"))
}

func TestTakeQuiz(t *testing.T) {
	sess, api := newTestSession(t, nil, physics)
	api.On("GenerateQuiz", mock.Anything, mock.Anything).Return([]domain.Question{
		{Prompt: "Unit of force?", Kind: domain.KindMultipleChoice, Options: []string{"Joule", "Newton"}, Answer: "Newton"},
		{Prompt: "Symbol for work?", Kind: domain.KindShortAnswer, Answer: "W"},
	}, nil)

	require.NoError(t, sess.SelectDocument("d1"))
	_, err := sess.GenerateQuiz(context.Background(), 2, session.DefaultQuestionKinds)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, takeQuiz(strings.NewReader("2\nX\n"), &out, sess.Quiz))

	assert.Contains(t, out.String(), "Score: 1/2 (50%)")
	assert.True(t, sess.Quiz.State().Session.Revealed)
}

func TestTakeQuizStopsAtEndOfInput(t *testing.T) {
	sess, api := newTestSession(t, nil, physics)
	api.On("GenerateQuiz", mock.Anything, mock.Anything).Return([]domain.Question{
		{Prompt: "a", Kind: domain.KindShortAnswer, Answer: "a"},
		{Prompt: "b", Kind: domain.KindShortAnswer, Answer: "b"},
	}, nil)
	require.NoError(t, sess.SelectDocument("d1"))
	_, err := sess.GenerateQuiz(context.Background(), 2, session.DefaultQuestionKinds)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, takeQuiz(strings.NewReader("a\n"), &out, sess.Quiz))

	assert.Contains(t, out.String(), "Score: 1/2")
}

func TestRenderDocuments(t *testing.T) {
	var out bytes.Buffer
	renderDocuments(&out, []domain.Document{
		physics,
		{ID: "d2", FileName: "chem.pdf", Status: domain.StatusError, ErrorMessage: "unreadable"},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "42")
	assert.Contains(t, lines[2], "unreadable")

	out.Reset()
	renderDocuments(&out, nil)
	assert.Contains(t, out.String(), "No documents yet")
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	ready := formatEvent(events.Event{Type: events.TypeDocumentReady, FileName: "physics.pdf", TotalPages: 42, OccurredAt: at})
	assert.Equal(t, "15:04:05 ready physics.pdf (42 pages)", ready)

	failed := formatEvent(events.Event{Type: events.TypeDocumentFailed, FileName: "chem.pdf", ErrorMessage: "bad", OccurredAt: at})
	assert.Equal(t, "15:04:05 failed chem.pdf: bad", failed)
}
