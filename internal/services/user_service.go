package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

var ErrMissingUserID = errors.New("user id is required")

type UserService struct {
	store *database.Store
}

func NewUserService(store *database.Store) *UserService {
	return &UserService{store: store}
}

// Upsert records a signed-in user. A new id is inserted with whatever fields
// were supplied; for an existing id every supplied field overwrites the stored
// one and every nil field keeps its stored value.
func (s *UserService) Upsert(ctx context.Context, u models.UserInput) error {
	if u.ID == "" {
		return ErrMissingUserID
	}

	err := s.store.Exec(ctx, `
		INSERT INTO users (id, name, email, photo_url, description, address)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = COALESCE(excluded.name, users.name),
			email = COALESCE(excluded.email, users.email),
			photo_url = COALESCE(excluded.photo_url, users.photo_url),
			description = COALESCE(excluded.description, users.description),
			address = COALESCE(excluded.address, users.address)
	`, u.ID, u.Name, u.Email, u.PhotoURL, u.Description, u.Address)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (models.User, bool, error) {
	user, ok, err := database.QueryOne[models.User](ctx, s.store,
		`SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to get user: %w", err)
	}
	return user, ok, nil
}

// UpdateProfile sets the supplied profile fields and leaves the rest alone.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	err := s.store.Exec(ctx, `
		UPDATE users SET
			description = COALESCE(?, description),
			address = COALESCE(?, address)
		WHERE id = ?
	`, patch.Description, patch.Address, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// GetByIDs looks up several users at once, ordered by id. Unknown ids are
// skipped.
func (s *UserService) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	users, err := database.QueryAll[models.User](ctx, s.store,
		`SELECT * FROM users WHERE id IN ? ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}
