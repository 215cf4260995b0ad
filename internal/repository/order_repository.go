package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"food_store/internal/models"

	"gorm.io/gorm"
)

const OrderResource = "order"

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uint, expected models.OrderStatus, expectedVersion int, change StatusChange) error
	HideFromAdmin(ctx context.Context, id uint) error
	HideFromCustomer(ctx context.Context, id uint) error
	AppendEvent(ctx context.Context, event *models.OrderEvent) error
	ListEvents(ctx context.Context, orderID uint) ([]models.OrderEvent, error)
}

// OrderFilter narrows order listings. Zero values mean "no restriction".
type OrderFilter struct {
	CustomerID                *uint
	Statuses                  []models.OrderStatus
	ExcludeHiddenFromAdmin    bool
	ExcludeHiddenFromCustomer bool
}

// StatusChange carries the fields written together with a new status.
type StatusChange struct {
	Status           models.OrderStatus
	ExpectedDelivery *time.Time
	DeliveredAt      *time.Time
	At               time.Time
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: OrderResource, Key: "id", Value: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx, filter).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) scoped(ctx context.Context, filter OrderFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.ExcludeHiddenFromAdmin {
		q = q.Where("hidden_from_admin = ?", false)
	}
	if filter.ExcludeHiddenFromCustomer {
		q = q.Where("hidden_from_customer = ?", false)
	}
	return q
}

// UpdateStatus writes change only if the row still has the expected status and version.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, expected models.OrderStatus, expectedVersion int, change StatusChange) error {
	updates := map[string]interface{}{
		"status":     change.Status,
		"version":    gorm.Expr("version + 1"),
		"updated_at": change.At,
	}
	if change.ExpectedDelivery != nil {
		updates["expected_delivery"] = *change.ExpectedDelivery
	}
	if change.DeliveredAt != nil {
		updates["delivered_at"] = *change.DeliveredAt
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, expected, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}

func (r *orderRepository) HideFromAdmin(ctx context.Context, id uint) error {
	return r.setFlag(ctx, id, "hidden_from_admin")
}

func (r *orderRepository) HideFromCustomer(ctx context.Context, id uint) error {
	return r.setFlag(ctx, id, "hidden_from_customer")
}

func (r *orderRepository) setFlag(ctx context.Context, id uint, column string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update(column, true)
	if res.Error != nil {
		return fmt.Errorf("failed to set %s on order %d: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: OrderResource, Key: "id", Value: strconv.FormatUint(uint64(id), 10)}
	}
	return nil
}

func (r *orderRepository) AppendEvent(ctx context.Context, event *models.OrderEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append event for order %d: %w", event.OrderID, err)
	}
	return nil
}

func (r *orderRepository) ListEvents(ctx context.Context, orderID uint) ([]models.OrderEvent, error) {
	var events []models.OrderEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for order %d: %w", orderID, err)
	}
	return events, nil
}
