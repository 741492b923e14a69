package domain

import "time"

// QuestionKind enumerates supported quiz question types.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "MCQ"
	KindShortAnswer    QuestionKind = "SAQ"
)

// Question is a single generated quiz item.
type Question struct {
	Prompt      string       `json:"question"`
	Kind        QuestionKind `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
}

// QuizRequest asks the service for a new quiz over a ready document.
type QuizRequest struct {
	DocumentID    string         `json:"pdfId" validate:"required"`
	QuestionCount int            `json:"questionCount" validate:"min=1,max=20"`
	QuestionKinds []QuestionKind `json:"questionTypes" validate:"required,min=1,dive,oneof=MCQ SAQ"`
}

// Attempt is one entry of the server-side progress history.
type Attempt struct {
	ID             string      `json:"_id"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"totalQuestions"`
	Document       DocumentRef `json:"pdf"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation points at the page a claim in an assistant answer came from.
type Citation struct {
	PageNumber int    `json:"pageNumber"`
	Snippet    string `json:"snippet"`
}

type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
}

// Thread is a conversation, optionally bound to one document.
type Thread struct {
	ID       string      `json:"_id"`
	Title    string      `json:"title"`
	Document DocumentRef `json:"pdf"`
	Messages []Message   `json:"messages"`
}

// NewThread is the payload to create a thread.
type NewThread struct {
	DocumentID string `json:"pdfId,omitempty"`
	Title      string `json:"title" validate:"required,max=200"`
}

// OutgoingMessage is the payload to post a user message to a thread.
type OutgoingMessage struct {
	ThreadID    string   `json:"chatId" validate:"required"`
	Text        string   `json:"message" validate:"required"`
	DocumentIDs []string `json:"pdfIds,omitempty"`
}

// Video is a recommended external video.
type Video struct {
	ID          string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channelTitle"`
}

// CloneThread returns a copy whose message slice does not alias t.
func CloneThread(t Thread) Thread {
	if t.Messages == nil {
		return t
	}
	msgs := make([]Message, len(t.Messages))
	for i, m := range t.Messages {
		m.Citations = append([]Citation(nil), m.Citations...)
		msgs[i] = m
	}
	t.Messages = msgs
	return t
}
