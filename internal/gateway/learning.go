package gateway

import (
	"context"
	"net/http"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

func (c *Client) GenerateQuiz(ctx context.Context, quiz domain.QuizRequest) ([]domain.Question, error) {
	req, err := c.jsonRequest(GroupQuiz, http.MethodPost, join(c.routes.Quiz, "generate"), quiz)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	if err := c.do(ctx, req, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// QuizProgress returns past attempts, most recent first.
func (c *Client) QuizProgress(ctx context.Context) ([]domain.Attempt, error) {
	var attempts []domain.Attempt
	req := request{group: GroupQuiz, method: http.MethodGet, path: join(c.routes.Quiz, "progress")}
	if err := c.do(ctx, req, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (c *Client) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	var threads []domain.Thread
	req := request{group: GroupChats, method: http.MethodGet, path: join(c.routes.Chats)}
	if err := c.do(ctx, req, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (c *Client) CreateThread(ctx context.Context, thread domain.NewThread) (domain.Thread, error) {
	req, err := c.jsonRequest(GroupChats, http.MethodPost, join(c.routes.Chats), thread)
	if err != nil {
		return domain.Thread{}, err
	}
	var out domain.Thread
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Thread{}, err
	}
	return out, nil
}

// SendMessage posts a user message and returns the whole updated thread,
// including the assistant reply.
func (c *Client) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.Thread, error) {
	req, err := c.jsonRequest(GroupChats, http.MethodPost, join(c.routes.Chats, "message"), msg)
	if err != nil {
		return domain.Thread{}, err
	}
	var out domain.Thread
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Thread{}, err
	}
	return out, nil
}

func (c *Client) DeleteThread(ctx context.Context, id string) error {
	req := request{group: GroupChats, method: http.MethodDelete, path: join(c.routes.Chats, id)}
	return c.do(ctx, req, nil)
}

type recommendationRequest struct {
	DocumentID string `json:"pdfId" validate:"required"`
}

func (c *Client) RecommendVideos(ctx context.Context, documentID string) ([]domain.Video, error) {
	req, err := c.jsonRequest(GroupVideos, http.MethodPost, join(c.routes.Videos, "recommendations"),
		recommendationRequest{DocumentID: documentID})
	if err != nil {
		return nil, err
	}
	var videos []domain.Video
	if err := c.do(ctx, req, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}
