package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork exposes repositories bound to one connection or transaction.
type UnitOfWork interface {
	Orders() OrderRepository
	Notifications() NotificationRepository
}

type Store interface {
	UnitOfWork
	// WithinTransaction runs fn against repositories sharing one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Orders() OrderRepository {
	return NewOrderRepository(s.db)
}

func (s *gormStore) Notifications() NotificationRepository {
	return NewNotificationRepository(s.db)
}

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
