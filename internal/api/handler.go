package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/RichardoC/advisory-board/internal/llm"
	"github.com/RichardoC/advisory-board/internal/models"
	"github.com/RichardoC/advisory-board/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FailureMessage is the only error text a chat caller ever sees.
const FailureMessage = "Failed to process request"

type Relayer interface {
	Relay(ctx context.Context, message string) (string, error)
}

type Handler struct {
	relay    Relayer
	sessions session.Store
	logger   *zap.Logger
}

func NewHandler(relay Relayer, sessions session.Store, logger *zap.Logger) *Handler {
	return &Handler{
		relay:    relay,
		sessions: sessions,
		logger:   logger,
	}
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/chat", h.HandleChat)

	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id/messages", h.GetMessages)
	g.DELETE("/sessions/:id", h.EndSession)
}

func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to decode chat request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: FailureMessage})
		return
	}

	ctx := c.Request.Context()
	h.record(ctx, req.SessionID, models.RoleUser, req.Message)

	response, err := h.relay.Relay(ctx, req.Message)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var relayErr *llm.Error
		if errors.As(err, &relayErr) {
			fields = append(fields,
				zap.String("kind", string(relayErr.Kind)),
				zap.Int("status", relayErr.Status),
				zap.Bool("retryable", relayErr.Kind.Retryable()))
		}
		h.logger.Error("Failed to relay message", fields...)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: FailureMessage})
		return
	}

	h.record(ctx, req.SessionID, models.RoleAssistant, response)
	c.JSON(http.StatusOK, ChatResponse{Response: response})
}

// record appends to the caller's transcript when it named one. Failing to
// record never changes the chat outcome.
func (h *Handler) record(ctx context.Context, sessionID string, role models.Role, content string) {
	if sessionID == "" || h.sessions == nil {
		return
	}
	msg := &models.Message{SessionID: sessionID, Role: role, Content: content}
	if err := h.sessions.Append(ctx, msg); err != nil {
		h.logger.Warn("Failed to record message",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.String("role", string(role)))
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	h.logger.Debug("Created session", zap.String("session_id", s.ID))
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) GetMessages(c *gin.Context) {
	id := c.Param("id")
	messages, err := h.sessions.Messages(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get messages", zap.Error(err), zap.String("session_id", id))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *Handler) EndSession(c *gin.Context) {
	id := c.Param("id")
	err := h.sessions.End(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to end session", zap.Error(err), zap.String("session_id", id))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	h.logger.Debug("Ended session", zap.String("session_id", id))
	c.Status(http.StatusNoContent)
}
