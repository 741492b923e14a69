package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Abishek0612/student-revision-app-client/internal/auth"
	"github.com/Abishek0612/student-revision-app-client/internal/config"
	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/retry"
)

// Resource groups, used as log and metric labels.
const (
	GroupDocuments = "documents"
	GroupQuiz      = "quiz"
	GroupChats     = "chats"
	GroupVideos    = "videos"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Gateway is the client of the learning service's resource groups.
type Gateway interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	UploadDocument(ctx context.Context, upload domain.Upload) (domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	RetryDocument(ctx context.Context, id string) (domain.Document, error)
	SeedDocuments(ctx context.Context) ([]domain.Document, error)

	GenerateQuiz(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error)
	QuizProgress(ctx context.Context) ([]domain.Attempt, error)

	ListThreads(ctx context.Context) ([]domain.Thread, error)
	CreateThread(ctx context.Context, req domain.NewThread) (domain.Thread, error)
	SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.Thread, error)
	DeleteThread(ctx context.Context, id string) error

	RecommendVideos(ctx context.Context, documentID string) ([]domain.Video, error)
}

// Client talks JSON over HTTP to the learning service.
type Client struct {
	baseURL  string
	routes   config.Routes
	http     *http.Client
	tokens   auth.TokenSource
	policy   retry.Policy
	validate *validator.Validate
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New builds a Client from configuration. m may be nil.
func New(cfg config.Config, tokens auth.TokenSource, m *metrics.Metrics, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		routes:  cfg.Routes,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		tokens:  tokens,
		policy: retry.Policy{
			Attempts: cfg.RetryAttempts,
			Base:     cfg.RetryBase,
			Max:      5 * time.Second,
		},
		validate: validator.New(),
		metrics:  m,
		log:      log.With("component", "gateway"),
	}
}

// request describes one call. body is re-read on every attempt.
type request struct {
	group       string
	method      string
	path        string
	body        []byte
	contentType string
}

// jsonRequest marshals payload after validating its struct tags.
func (c *Client) jsonRequest(group, method, path string, payload any) (request, error) {
	if err := c.validate.Struct(payload); err != nil {
		return request{}, validationError(err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s request: %w", group, err)
	}
	return request{group: group, method: method, path: path, body: body, contentType: "application/json"}, nil
}

// do sends req and decodes a successful response into out (which may be nil).
// Only idempotent methods are retried.
func (c *Client) do(ctx context.Context, req request, out any) error {
	policy := c.policy
	if req.method != http.MethodGet && req.method != http.MethodDelete {
		policy.Attempts = 1
	}
	return retry.Do(ctx, policy, retryable, func(ctx context.Context) error {
		return c.once(ctx, req, out)
	})
}

func (c *Client) once(ctx context.Context, req request, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.TransportError{Kind: domain.TransportOther, Message: "request cancelled", Err: err}
		}
		return &domain.TransportError{Kind: domain.TransportUnauthorized, Message: err.Error(), Err: err}
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return &domain.TransportError{Kind: domain.TransportOther, Message: "invalid request", Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	log := c.log.With("group", req.group, "method", req.method, "path", req.path, "request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.group, req.method, 0, time.Since(start))
		log.Warn("request failed", "err", err)
		return &domain.TransportError{Kind: domain.TransportOther, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(req.group, req.method, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		te := statusError(resp)
		log.Warn("request rejected", "status", resp.StatusCode, "err", te.Message)
		return te
	}
	log.Debug("request done", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{
			Kind:    domain.TransportOther,
			Status:  resp.StatusCode,
			Message: "unexpected response from server",
			Err:     err,
		}
	}
	return nil
}

// statusError converts a failed response into a TransportError, taking the
// message from the body's "message" field when present.
func statusError(resp *http.Response) *domain.TransportError {
	kind := domain.TransportOther
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = domain.TransportUnauthorized
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = payload.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &domain.TransportError{Kind: kind, Status: resp.StatusCode, Message: msg}
}

// retryable reports whether a failed attempt may be repeated: network errors,
// server errors and throttling.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Kind == domain.TransportUnauthorized {
		return false
	}
	if te.Status == 0 {
		return te.Err != nil
	}
	return te.Status >= http.StatusInternalServerError || te.Status == http.StatusTooManyRequests
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := "failed " + fe.Tag() + " check"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min", "max":
			msg = fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		case "oneof":
			msg = "must be one of " + fe.Param()
		}
		return &domain.ValidationError{Field: fe.Field(), Message: msg}
	}
	return &domain.ValidationError{Message: err.Error()}
}

func join(route string, parts ...string) string {
	path := strings.TrimRight(route, "/") + "/"
	for i, p := range parts {
		if i > 0 {
			path += "/"
		}
		path += url.PathEscape(p)
	}
	return path
}
