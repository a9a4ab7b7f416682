package services

import (
	"context"

	"earnwallet/internal/models"
	"earnwallet/internal/store"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewUserService(st store.Store, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
	}
}

// UpsertFromIdentity merges the identity-provider claims into the user
// record, creating it on first login. Safe to call on every request with
// the same identity.
func (s *UserService) UpsertFromIdentity(ctx context.Context, u *models.UpsertUser) (*models.User, error) {
	if u.ID == "" {
		return nil, models.ValidationErrors{{Field: "id", Message: "identity subject is required"}}
	}
	user, err := s.store.UpsertUser(ctx, u)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", u.ID).Msg("User upsert failed")
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListUsers is the admin user directory, optionally filtered by a
// case-insensitive substring over email and names.
func (s *UserService) ListUsers(ctx context.Context, callerID string, filter models.UserFilter) ([]*models.User, error) {
	if _, err := requireAdmin(ctx, s.store, callerID); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, filter)
}

// SetUserActive suspends or reinstates an account.
func (s *UserService) SetUserActive(ctx context.Context, callerID, userID string, isActive bool) error {
	admin, err := requireAdmin(ctx, s.store, callerID)
	if err != nil {
		return err
	}
	if err := s.store.SetUserActive(ctx, userID, isActive); err != nil {
		return err
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("admin_id", admin.ID).
		Bool("is_active", isActive).
		Msg("User status updated")
	return nil
}
