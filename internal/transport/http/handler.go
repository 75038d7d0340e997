// Package http provides the HTTP surface of the assistant.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/ctsv"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/agent"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/scholarship"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/store"
)

// Handler handles HTTP requests.
type Handler struct {
	engine       *agent.Engine
	scholarships *scholarship.Service
	portal       *ctsv.Client
	audit        store.Store
	logger       *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(engine *agent.Engine, scholarships *scholarship.Service, portal *ctsv.Client, audit store.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:       engine,
		scholarships: scholarships,
		portal:       portal,
		audit:        audit,
		logger:       logger.With(zap.String("component", "http")),
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/ask", h.Ask)
	e.POST("/v1/chat/completions", h.ChatCompletions)

	// Read-only portal listings
	e.GET("/v1/scholarships", h.ListScholarships)
	e.GET("/v1/activities", h.ListActivities)
	e.GET("/v1/jobs", h.ListJobs)

	// Audit trail
	e.GET("/v1/turns/:turn_id/events", h.GetTurnEvents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// AskRequest is the question-answering request body.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// AskResponse is the question-answering response body.
type AskResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// Ask runs one turn through the orchestration engine.
// POST /ask
func (h *Handler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.engine.Turn(c.Request().Context(), req.SessionID, req.Question)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyQuestion) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Vui lòng nhập câu hỏi."})
		}
		// Internal diagnostics stay internal.
		h.logger.Error("turn failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, AskResponse{
		Answer:    result.Answer,
		SessionID: result.SessionID,
	})
}

// GetTurnEvents returns the audit events of a turn.
// GET /v1/turns/:turn_id/events
func (h *Handler) GetTurnEvents(c echo.Context) error {
	turnID := c.Param("turn_id")

	turn, err := h.audit.GetTurn(c.Request().Context(), turnID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if turn == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "turn not found"})
	}

	events, err := h.audit.GetEvents(c.Request().Context(), turnID, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"turn":   turn,
		"events": events,
	})
}
