package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"food_store/internal/models"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// DashboardHandler serves the admin poll in one round trip.
type DashboardHandler struct {
	orders        *OrderHandler
	notifications services.NotificationService
	logger        *slog.Logger
}

func NewDashboardHandler(orders *OrderHandler, notifications services.NotificationService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{orders: orders, notifications: notifications, logger: logger}
}

type DashboardResponse struct {
	Orders      []OrderView       `json:"orders"`
	ActiveCount int64             `json:"active_count"`
	Mailbox     *services.Mailbox `json:"mailbox"`
}

// Get handles GET /api/admin/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	filter := services.ListOrdersFilter{
		Actor:         actor,
		ActiveOnly:    c.Query("active") == "true",
		RespectHidden: true,
	}

	var (
		orders  []models.Order
		count   int64
		mailbox *services.Mailbox
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		orders, err = h.orders.orders.ListOrders(ctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = h.orders.orders.ActiveCount(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		mailbox, err = h.notifications.List(ctx, actor.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Orders:      h.orders.views(orders),
		ActiveCount: count,
		Mailbox:     mailbox,
	})
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck, timeout time.Duration) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: timeout}
}

// Get handles GET /health. Checks run concurrently and all of them are reported.
func (h *HealthHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	results := make([]string, len(h.checks))
	var g errgroup.Group
	for name, check := range h.checks {
		i := len(names)
		check := check
		names = append(names, name)
		g.Go(func() error {
			if err := check(ctx); err != nil {
				results[i] = err.Error()
				return err
			}
			results[i] = "ok"
			return nil
		})
	}
	failed := g.Wait() != nil

	body := gin.H{}
	for i, name := range names {
		body[name] = results[i]
	}
	if failed {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}

// PollingConfig tells clients how often to poll.
type PollingConfig struct {
	OrderInterval    time.Duration
	PresenceInterval time.Duration
}

// Polling handles GET /api/config/polling
func (p PollingConfig) Polling(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order_poll_interval_ms":    p.OrderInterval.Milliseconds(),
		"presence_poll_interval_ms": p.PresenceInterval.Milliseconds(),
	})
}
