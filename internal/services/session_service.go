package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

const currentUserKey = "current_user_id"

// SessionService persists which user is signed in on this device.
type SessionService struct {
	store *database.Store
}

func NewSessionService(store *database.Store) *SessionService {
	return &SessionService{store: store}
}

func (s *SessionService) SetCurrentUserID(ctx context.Context, userID string) error {
	err := s.store.Exec(ctx, `
		INSERT INTO meta(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, currentUserKey, userID)
	if err != nil {
		return fmt.Errorf("failed to set current user: %w", err)
	}
	return nil
}

func (s *SessionService) GetCurrentUserID(ctx context.Context) (string, bool, error) {
	row, ok, err := database.QueryOne[models.Meta](ctx, s.store,
		`SELECT key, value FROM meta WHERE key = ?`, currentUserKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to get current user: %w", err)
	}
	return row.Value, ok, nil
}

// ClearCurrentUserID forgets the signed-in user. Clearing twice is fine.
func (s *SessionService) ClearCurrentUserID(ctx context.Context) error {
	if err := s.store.Exec(ctx, `DELETE FROM meta WHERE key = ?`, currentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}
