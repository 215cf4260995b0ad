package handlers

import (
	"log/slog"
	"net/http"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presence services.PresenceService
	logger   *slog.Logger
}

func NewPresenceHandler(presence services.PresenceService, logger *slog.Logger) *PresenceHandler {
	return &PresenceHandler{presence: presence, logger: logger}
}

// Heartbeat handles POST /api/presence/heartbeat
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.presence.Heartbeat(c.Request.Context(), actor); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles DELETE /api/presence
func (h *PresenceHandler) Leave(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.presence.Leave(c.Request.Context(), actor); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Online handles GET /api/presence/:role. Customers may only see the restaurant roster.
func (h *PresenceHandler) Online(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	role := models.Role(c.Param("role"))
	if actor.IsCustomer() && role != models.RoleAdmin {
		writeError(c, h.logger, apperror.Authorization(apperror.CodeRoleNotPermitted, "customers can only see the restaurant roster"))
		return
	}

	online, err := h.presence.Online(c.Request.Context(), role)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":   role,
		"online": online,
		"count":  len(online),
	})
}
