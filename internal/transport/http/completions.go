package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/agent"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// ChatMessage is one message in an OpenAI-compatible completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-compatible request body. Only the last
// user message is used as the question; conversation memory lives server-side.
// The response ID is the session identifier — send it back in the "user"
// field to continue the conversation. Any other value starts a fresh session,
// and client-supplied prior messages are ignored.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	User     string        `json:"user,omitempty"`
	Stream   bool          `json:"stream,omitempty"`
}

// ChatCompletionChoice is one answer choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the OpenAI-compatible response body.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// ChatCompletions answers through the orchestration engine behind an
// OpenAI-compatible surface, so off-the-shelf chat clients can talk to the
// assistant directly.
// POST /v1/chat/completions
func (h *Handler) ChatCompletions(c echo.Context) error {
	var req ChatCompletionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Stream {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "streaming is not supported"})
	}

	question := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == string(domain.RoleUser) {
			question = req.Messages[i].Content
			break
		}
	}

	result, err := h.engine.Turn(c.Request().Context(), req.User, question)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyQuestion) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "messages must contain a user message"})
		}
		h.logger.Error("turn failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	model := req.Model
	if model == "" {
		model = "sotaysinhvien"
	}

	return c.JSON(http.StatusOK, ChatCompletionResponse{
		ID:      result.SessionID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatCompletionChoice{{
			Index:        0,
			Message:      ChatMessage{Role: string(domain.RoleAssistant), Content: result.Answer},
			FinishReason: "stop",
		}},
	})
}
