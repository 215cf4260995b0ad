package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"food_store/internal/models"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders   services.OrderService
	now      func() time.Time
	location *time.Location
	logger   *slog.Logger
}

func NewOrderHandler(orders services.OrderService, now func() time.Time, location *time.Location, logger *slog.Logger) *OrderHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if location == nil {
		location = time.UTC
	}
	return &OrderHandler{orders: orders, now: now, location: location, logger: logger}
}

// OrderView is an order as rendered to clients, with the read-time delivery text.
type OrderView struct {
	models.Order
	StatusLabel    string `json:"status_label"`
	DeliveryWindow string `json:"delivery_window,omitempty"`
}

func (h *OrderHandler) view(order *models.Order) OrderView {
	v := OrderView{Order: *order, StatusLabel: order.Status.Label()}
	if text, ok := services.DeliveryWindowText(h.now(), order.ExpectedDelivery, order.Status, h.location); ok {
		v.DeliveryWindow = text
	}
	return v
}

func (h *OrderHandler) views(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, h.view(&orders[i]))
	}
	return out
}

type createOrderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
}

type createOrderRequest struct {
	Items         []createOrderItemRequest `json:"items" binding:"required"`
	FullName      string                   `json:"full_name"`
	Phone         string                   `json:"phone"`
	Street        string                   `json:"street"`
	City          string                   `json:"city"`
	PostalCode    string                   `json:"postal_code"`
	Subtotal      float64                  `json:"subtotal"`
	Tax           float64                  `json:"tax"`
	Shipping      float64                  `json:"shipping"`
	Total         float64                  `json:"total"`
	PaymentMethod models.PaymentMethod     `json:"payment_method" binding:"required"`
	PaymentStatus models.PaymentStatus     `json:"payment_status"`
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	input := services.NewOrder{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Shipping:      req.Shipping,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.NewOrderItem{
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), actor, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.view(order))
}

// List handles GET /api/orders and GET /api/admin/orders. Pass active=true for the
// kitchen view; admins may pass include_hidden=true to see hidden orders.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	filter := services.ListOrdersFilter{
		Actor:         actor,
		ActiveOnly:    c.Query("active") == "true",
		RespectHidden: !(actor.IsAdmin() && c.Query("include_hidden") == "true"),
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": h.views(orders)})
}

// Get handles GET /api/orders/:id and GET /api/admin/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

// Events handles GET .../orders/:id/events
func (h *OrderHandler) Events(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	events, err := h.orders.ListOrderEvents(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type setStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// SetStatus handles PUT /api/admin/orders/:id/status
func (h *OrderHandler) SetStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	order, err := h.orders.SetOrderStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

// ConfirmDelivery handles POST /api/orders/:id/confirm-delivery
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.ConfirmDelivery(c.Request.Context(), actor.ID, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

// Delete handles DELETE /api/orders/:id and DELETE /api/admin/orders/:id. It only hides
// the order from the caller's own list.
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), actor, id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActiveCount handles GET /api/admin/orders/active-count
func (h *OrderHandler) ActiveCount(c *gin.Context) {
	count, err := h.orders.ActiveCount(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_count": count})
}
