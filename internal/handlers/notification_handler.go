package handlers

import (
	"log/slog"
	"net/http"

	"food_store/internal/models"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications services.NotificationService
	logger        *slog.Logger
}

func NewNotificationHandler(notifications services.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	mailbox, err := h.notifications.List(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mailbox)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, actor.ID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete handles DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), id, actor.ID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type emitNotificationRequest struct {
	RecipientID    uint                    `json:"recipient_id" binding:"required"`
	Type           models.NotificationType `json:"type" binding:"required"`
	Title          string                  `json:"title" binding:"required"`
	Message        string                  `json:"message"`
	RelatedOrderID *uint                   `json:"related_order_id"`
}

// Emit handles POST /api/admin/notifications. Status updates come from the order
// lifecycle only, so admins may send admin_response and query_resolved.
func (h *NotificationHandler) Emit(c *gin.Context) {
	var req emitNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if req.Type == models.NotificationStatusUpdate {
		badRequest(c, "status updates are sent by the order lifecycle")
		return
	}

	notification, err := h.notifications.Emit(c.Request.Context(), services.NewNotification{
		RecipientID:    req.RecipientID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		RelatedOrderID: req.RelatedOrderID,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}
