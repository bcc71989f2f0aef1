package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/chat"
	"github.com/coweringg/LawCaseAI/pkg/metrics"
	"github.com/coweringg/LawCaseAI/pkg/models"
)

// ChatHandler serves the case conversation endpoints.
type ChatHandler struct {
	chat     *chat.Service
	validate *validator.Validate
}

// NewChatHandler creates the chat handler.
func NewChatHandler(chatSvc *chat.Service, validate *validator.Validate) *ChatHandler {
	return &ChatHandler{chat: chatSvc, validate: validate}
}

// Messages handles GET /api/chat/case/:caseId.
func (h *ChatHandler) Messages(c echo.Context) error {
	user := middleware.CurrentUser(c)

	caseID, err := primitive.ObjectIDFromHex(c.Param("caseId"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	messages, err := h.chat.Messages(ctx, caseID, user.ID)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	return respondOK(c, "messages", messages)
}

// Send handles POST /api/chat/case/:caseId. The AI reply is generated in
// the background; clients poll or refetch the conversation.
func (h *ChatHandler) Send(c echo.Context) error {
	user := middleware.CurrentUser(c)

	caseID, err := primitive.ObjectIDFromHex(c.Param("caseId"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.chat.Send(ctx, caseID, user.ID, req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		return respondError(c, http.StatusNotFound, "case not found")
	}

	metrics.ChatMessages.WithLabelValues(string(models.SenderUser)).Inc()

	return respondCreated(c, "message sent", msg)
}

// Clear handles DELETE /api/chat/case/:caseId.
func (h *ChatHandler) Clear(c echo.Context) error {
	user := middleware.CurrentUser(c)

	caseID, err := primitive.ObjectIDFromHex(c.Param("caseId"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.chat.ClearCase(ctx, caseID, user.ID); err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	return respondOK(c, "conversation cleared", nil)
}
