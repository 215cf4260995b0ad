package handlers

import (
	"log/slog"
	"time"

	"food_store/internal/middleware"
	"food_store/internal/models"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Orders        services.OrderService
	Notifications services.NotificationService
	Presence      services.PresenceService
	HealthChecks  map[string]HealthCheck
	Polling       PollingConfig

	JWTSecret      []byte
	RequestTimeout time.Duration
	Now            func() time.Time
	Location       *time.Location
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	orderHandler := NewOrderHandler(cfg.Orders, cfg.Now, cfg.Location, cfg.Logger)
	notificationHandler := NewNotificationHandler(cfg.Notifications, cfg.Logger)
	presenceHandler := NewPresenceHandler(cfg.Presence, cfg.Logger)
	dashboardHandler := NewDashboardHandler(orderHandler, cfg.Notifications, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.HealthChecks, cfg.RequestTimeout)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger), middleware.Timeout(cfg.RequestTimeout))

	router.GET("/health", healthHandler.Get)

	api := router.Group("/api")
	api.GET("/config/polling", cfg.Polling.Polling)

	authed := api.Group("", middleware.Authenticate(cfg.JWTSecret))
	{
		// Shared by both roles
		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authed.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		authed.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		authed.DELETE("/notifications/:id", notificationHandler.Delete)

		authed.POST("/presence/heartbeat", presenceHandler.Heartbeat)
		authed.DELETE("/presence", presenceHandler.Leave)
		authed.GET("/presence/:role", presenceHandler.Online)
	}

	customer := authed.Group("/orders", middleware.RequireRole(models.RoleCustomer))
	{
		customer.POST("", orderHandler.Create)
		customer.GET("", orderHandler.List)
		customer.GET("/:id", orderHandler.Get)
		customer.GET("/:id/events", orderHandler.Events)
		customer.POST("/:id/confirm-delivery", orderHandler.ConfirmDelivery)
		customer.DELETE("/:id", orderHandler.Delete)
	}

	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", dashboardHandler.Get)
		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/active-count", orderHandler.ActiveCount)
		admin.GET("/orders/:id", orderHandler.Get)
		admin.GET("/orders/:id/events", orderHandler.Events)
		admin.PUT("/orders/:id/status", orderHandler.SetStatus)
		admin.DELETE("/orders/:id", orderHandler.Delete)
		admin.POST("/notifications", notificationHandler.Emit)
	}

	return router
}
