package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/repository"
)

type OrderService interface {
	CreateOrder(ctx context.Context, actor models.Actor, input NewOrder) (*models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, orderID uint) (*models.Order, error)
	ListOrders(ctx context.Context, filter ListOrdersFilter) ([]models.Order, error)
	ListOrderEvents(ctx context.Context, actor models.Actor, orderID uint) ([]models.OrderEvent, error)
	SetOrderStatus(ctx context.Context, actor models.Actor, orderID uint, status models.OrderStatus) (*models.Order, error)
	ConfirmDelivery(ctx context.Context, customerID, orderID uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, actor models.Actor, orderID uint) error
	ActiveCount(ctx context.Context) (int64, error)
}

// NewOrder is the checkout payload. Item data is already snapshotted from the catalog.
type NewOrder struct {
	Items         []NewOrderItem
	FullName      string
	Phone         string
	Street        string
	City          string
	PostalCode    string
	Subtotal      float64
	Tax           float64
	Shipping      float64
	Total         float64
	PaymentMethod models.PaymentMethod
	PaymentStatus models.PaymentStatus
}

type NewOrderItem struct {
	Name     string
	Price    float64
	ImageURL string
	Quantity int
}

// ListOrdersFilter selects the projection of one actor.
type ListOrdersFilter struct {
	Actor         models.Actor
	ActiveOnly    bool
	RespectHidden bool
}

type OrderServiceConfig struct {
	// DeliveryWindow is added to the dispatch time to produce expected_delivery.
	DeliveryWindow time.Duration
	Now            func() time.Time
}

type orderService struct {
	store          repository.Store
	deliveryWindow time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewOrderService(store repository.Store, cfg OrderServiceConfig, logger *slog.Logger) OrderService {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &orderService{
		store:          store,
		deliveryWindow: cfg.DeliveryWindow,
		now:            now,
		logger:         logger,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, actor models.Actor, input NewOrder) (*models.Order, error) {
	if !actor.IsCustomer() {
		return nil, apperror.Authorization(apperror.CodeRoleNotPermitted, "only customers can place orders")
	}
	if err := validateNewOrder(input); err != nil {
		return nil, err
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}

	now := s.now()
	order := &models.Order{
		CustomerID:    actor.ID,
		FullName:      strings.TrimSpace(input.FullName),
		Phone:         strings.TrimSpace(input.Phone),
		Street:        strings.TrimSpace(input.Street),
		City:          strings.TrimSpace(input.City),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Subtotal:      input.Subtotal,
		Tax:           input.Tax,
		Shipping:      input.Shipping,
		Total:         input.Total,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        models.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			CreatedAt: now,
		})
	}

	if err := s.store.Orders().Create(ctx, order); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("order_created", "order_id", order.ID, "customer_id", order.CustomerID, "total", order.Total)
	return order, nil
}

func validateNewOrder(input NewOrder) error {
	if len(input.Items) == 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "an order needs at least one item")
	}
	var itemsTotal float64
	for i, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("item %d has no name", i+1))
		}
		if item.Quantity < 1 {
			return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("item %d quantity must be at least 1", i+1))
		}
		if item.Price < 0 {
			return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("item %d price cannot be negative", i+1))
		}
		itemsTotal += item.Price * float64(item.Quantity)
	}
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Street) == "" || strings.TrimSpace(input.City) == "" {
		return apperror.Validation(apperror.CodeInvalidInput, "name, street and city are required")
	}
	if input.Tax < 0 || input.Shipping < 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "tax and shipping cannot be negative")
	}
	if math.Abs(itemsTotal-input.Subtotal) > 0.01 {
		return apperror.Validation(apperror.CodeInvalidInput, "subtotal does not match items")
	}
	if math.Abs(input.Total-(input.Subtotal+input.Tax+input.Shipping)) > 0.01 {
		return apperror.Validation(apperror.CodeInvalidInput, "total does not match subtotal, tax and shipping")
	}
	if !input.PaymentMethod.Valid() {
		return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
	if input.PaymentStatus != "" && !input.PaymentStatus.Valid() {
		return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("unknown payment status %q", input.PaymentStatus))
	}
	if input.PaymentMethod == models.PaymentOnline && input.PaymentStatus != models.PaymentSucceeded {
		return apperror.Validation(apperror.CodeInvalidInput, "online orders require a succeeded payment")
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, actor models.Actor, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError(err)
	}
	if !visibleTo(order, actor) {
		return nil, orderNotFound(orderID)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter ListOrdersFilter) ([]models.Order, error) {
	var query repository.OrderFilter
	switch filter.Actor.Role {
	case models.RoleAdmin:
		query.ExcludeHiddenFromAdmin = filter.RespectHidden
	case models.RoleCustomer:
		customerID := filter.Actor.ID
		query.CustomerID = &customerID
		query.ExcludeHiddenFromCustomer = filter.RespectHidden
	default:
		return nil, apperror.Authorization(apperror.CodeRoleNotPermitted, fmt.Sprintf("role %q cannot list orders", filter.Actor.Role))
	}
	if filter.ActiveOnly {
		query.Statuses = models.ActiveStatuses
	}

	orders, err := s.store.Orders().List(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}

	valid := orders[:0]
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			s.logger.Warn("order_skipped_malformed", "order_id", orders[i].ID, "error", err)
			continue
		}
		valid = append(valid, orders[i])
	}
	return valid, nil
}

func (s *orderService) ListOrderEvents(ctx context.Context, actor models.Actor, orderID uint) ([]models.OrderEvent, error) {
	if _, err := s.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	events, err := s.store.Orders().ListEvents(ctx, orderID)
	if err != nil {
		return nil, storeError(err)
	}
	return events, nil
}

// SetOrderStatus applies one transition. The status write, derived timestamps, the
// event row and the customer notification commit together or not at all.
func (s *orderService) SetOrderStatus(ctx context.Context, actor models.Actor, orderID uint, status models.OrderStatus) (*models.Order, error) {
	var result *models.Order
	err := s.store.WithinTransaction(ctx, func(uow repository.UnitOfWork) error {
		order, err := uow.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if actor.IsCustomer() && !order.OwnedBy(actor.ID) {
			return orderNotFound(orderID)
		}

		changed, err := evaluateTransition(order.Status, status, actor.Role)
		if err != nil {
			return err
		}
		if !changed {
			result = order
			return nil
		}

		now := s.now()
		change := repository.StatusChange{Status: status, At: now}
		switch status {
		case models.OrderOutForDelivery:
			expected := now.Add(s.deliveryWindow)
			change.ExpectedDelivery = &expected
		case models.OrderDelivered:
			change.DeliveredAt = &now
		}

		if err := uow.Orders().UpdateStatus(ctx, order.ID, order.Status, order.Version, change); err != nil {
			return err
		}
		if err := uow.Orders().AppendEvent(ctx, &models.OrderEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   status,
			ActorRole:  actor.Role,
			ActorID:    actor.ID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		if err := uow.Notifications().Create(ctx, statusNotification(order, status, now)); err != nil {
			return err
		}

		previous := order.Status
		order.Status = status
		order.Version++
		order.UpdatedAt = now
		if change.ExpectedDelivery != nil {
			order.ExpectedDelivery = change.ExpectedDelivery
		}
		if change.DeliveredAt != nil {
			order.DeliveredAt = change.DeliveredAt
		}
		result = order

		s.logger.Info("order_status_changed",
			"order_id", order.ID,
			"from", previous,
			"to", status,
			"actor_role", actor.Role,
			"actor_id", actor.ID,
		)
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

func (s *orderService) ConfirmDelivery(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	return s.SetOrderStatus(ctx, models.Actor{Role: models.RoleCustomer, ID: customerID}, orderID, models.OrderDelivered)
}

// DeleteOrder hides the order from the caller's projection only. Admins may hide any
// order; customers only terminal orders of their own.
func (s *orderService) DeleteOrder(ctx context.Context, actor models.Actor, orderID uint) error {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return storeError(err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		if order.HiddenFromAdmin {
			return nil
		}
		err = s.store.Orders().HideFromAdmin(ctx, orderID)
	case models.RoleCustomer:
		if !order.OwnedBy(actor.ID) {
			return orderNotFound(orderID)
		}
		if !order.Status.Terminal() {
			return apperror.Conflict(apperror.CodeNotDeletable,
				fmt.Sprintf("order is %s; only delivered or cancelled orders can be removed", order.Status.Label()))
		}
		if order.HiddenFromCustomer {
			return nil
		}
		err = s.store.Orders().HideFromCustomer(ctx, orderID)
	default:
		return apperror.Authorization(apperror.CodeRoleNotPermitted, fmt.Sprintf("role %q cannot delete orders", actor.Role))
	}
	if err != nil {
		return storeError(err)
	}

	s.logger.Info("order_hidden", "order_id", orderID, "actor_role", actor.Role, "actor_id", actor.ID)
	return nil
}

// ActiveCount feeds the admin badge only.
func (s *orderService) ActiveCount(ctx context.Context) (int64, error) {
	count, err := s.store.Orders().Count(ctx, repository.OrderFilter{
		Statuses:               models.ActiveStatuses,
		ExcludeHiddenFromAdmin: true,
	})
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func visibleTo(order *models.Order, actor models.Actor) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return order.OwnedBy(actor.ID) && !order.HiddenFromCustomer
	}
	return false
}

func statusNotification(order *models.Order, status models.OrderStatus, now time.Time) *models.Notification {
	orderID := order.ID
	return &models.Notification{
		RecipientID:    order.CustomerID,
		Type:           models.NotificationStatusUpdate,
		Title:          fmt.Sprintf("Order #%d: %s", order.ID, status.Label()),
		Message:        statusMessage(order.ID, status),
		RelatedOrderID: &orderID,
		Status:         models.NotificationUnread,
		CreatedAt:      now,
	}
}

func statusMessage(orderID uint, status models.OrderStatus) string {
	switch status {
	case models.OrderProcessing:
		return fmt.Sprintf("We have received order #%d and are processing it.", orderID)
	case models.OrderPreparing:
		return fmt.Sprintf("The kitchen is preparing order #%d.", orderID)
	case models.OrderOutForDelivery:
		return fmt.Sprintf("Order #%d is out for delivery.", orderID)
	case models.OrderDelivered:
		return fmt.Sprintf("Thanks for confirming delivery of order #%d. Enjoy your meal!", orderID)
	case models.OrderCancelled:
		return fmt.Sprintf("Order #%d has been cancelled.", orderID)
	}
	return fmt.Sprintf("Order #%d is now %s.", orderID, status.Label())
}

func orderNotFound(orderID uint) *apperror.Error {
	return apperror.NotFound(apperror.CodeOrderNotFound, fmt.Sprintf("order %d not found", orderID))
}

// storeError maps repository failures onto the public taxonomy. Errors that already
// belong to it pass through untouched.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	var notFound *repository.NotFoundError
	if errors.As(err, &notFound) {
		if notFound.Resource == repository.NotificationResource {
			return apperror.NotFound(apperror.CodeNotificationNotFound, notFound.Error())
		}
		return apperror.NotFound(apperror.CodeOrderNotFound, notFound.Error())
	}
	if errors.Is(err, repository.ErrStaleWrite) {
		return apperror.Conflict(apperror.CodeConcurrentModification, "order changed while the request was in flight; reload and retry")
	}
	return apperror.Transient(err)
}
