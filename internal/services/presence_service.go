package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/redis"
)

// PresenceStore is satisfied by *redis.Client.
type PresenceStore interface {
	SetPresence(ctx context.Context, data *redis.PresenceData, ttl time.Duration) error
	ListPresence(ctx context.Context, role string) ([]redis.PresenceData, error)
	DeletePresence(ctx context.Context, role string, userID uint) error
}

// PresenceService backs the slow roster poll, e.g. "restaurant is online".
type PresenceService interface {
	Heartbeat(ctx context.Context, actor models.Actor) error
	Leave(ctx context.Context, actor models.Actor) error
	Online(ctx context.Context, role models.Role) ([]redis.PresenceData, error)
}

type presenceService struct {
	store  PresenceStore
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewPresenceService(store PresenceStore, ttl time.Duration, now func() time.Time, logger *slog.Logger) PresenceService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &presenceService{store: store, ttl: ttl, now: now, logger: logger}
}

func (s *presenceService) Heartbeat(ctx context.Context, actor models.Actor) error {
	if !actor.Role.Valid() || actor.ID == 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "heartbeat needs a known role and user")
	}
	err := s.store.SetPresence(ctx, &redis.PresenceData{
		UserID:   actor.ID,
		Role:     string(actor.Role),
		LastSeen: s.now(),
	}, s.ttl)
	if err != nil {
		s.logger.Error("presence_heartbeat_failed", "role", actor.Role, "user_id", actor.ID, "error", err)
		return apperror.Transient(err)
	}
	return nil
}

func (s *presenceService) Leave(ctx context.Context, actor models.Actor) error {
	if err := s.store.DeletePresence(ctx, string(actor.Role), actor.ID); err != nil {
		return apperror.Transient(err)
	}
	return nil
}

func (s *presenceService) Online(ctx context.Context, role models.Role) ([]redis.PresenceData, error) {
	if !role.Valid() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("unknown role %q", role))
	}
	online, err := s.store.ListPresence(ctx, string(role))
	if err != nil {
		return nil, apperror.Transient(err)
	}
	return online, nil
}
