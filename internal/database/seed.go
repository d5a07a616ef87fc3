package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

// CategoryNames is the fixed category taxonomy, in insertion order.
var CategoryNames = []string{"Deportes", "Artes y creatividad", "Naturaleza", "Festival"}

// Development fixtures inserted when SeedDevData is enabled.
var devUsers = []models.User{
	{ID: "seed-user-1", Name: strPtr("Usuario Uno"), Email: strPtr("uno@example.com")},
	{ID: "seed-user-2", Name: strPtr("Usuario Dos"), Email: strPtr("dos@example.com")},
}

type devEvent struct {
	name        string
	place       string
	category    string
	dayOffset   int
	start, end  string
	description string
	createdBy   string
	attendee    string
}

var devEvents = []devEvent{
	{"Partido local", "Cancha central", "Deportes", 0, "10:00", "12:00", "Evento de prueba deportes", "seed-user-1", "seed-user-2"},
	{"Pintura al aire libre", "Parque", "Artes y creatividad", 1, "09:00", "11:00", "Evento de prueba artes", "seed-user-2", "seed-user-1"},
}

// SeedCategories inserts the taxonomy when the categories table is empty.
func SeedCategories(ctx context.Context, s *Store) error {
	count, err := countRows(ctx, s, "categories")
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeded := int64(0)
	for _, name := range CategoryNames {
		n, err := s.ExecAffected(ctx, `INSERT OR IGNORE INTO categories(name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", name, err)
		}
		seeded += n
	}

	slog.Info("seeded categories", "new", seeded, "total", len(CategoryNames))
	return nil
}

// SeedDevData inserts two users and two events dated relative to now, each
// group only when its table is still empty.
func SeedDevData(ctx context.Context, s *Store, now time.Time) error {
	userCount, err := countRows(ctx, s, "users")
	if err != nil {
		return err
	}
	if userCount == 0 {
		for _, u := range devUsers {
			if err := s.Exec(ctx,
				`INSERT INTO users (id, name, email, photo_url) VALUES (?, ?, ?, ?)`,
				u.ID, u.Name, u.Email, u.PhotoURL,
			); err != nil {
				return fmt.Errorf("failed to insert user %q: %w", u.ID, err)
			}
		}
		slog.Info("seeded dev users", "count", len(devUsers))
	}

	eventCount, err := countRows(ctx, s, "events")
	if err != nil {
		return err
	}
	if eventCount > 0 {
		return nil
	}

	for _, u := range devUsers {
		_, ok, err := QueryOne[string](ctx, s, `SELECT id FROM users WHERE id = ?`, u.ID)
		if err != nil {
			return err
		}
		if !ok {
			slog.Warn("dev user missing, skipping dev events", "user_id", u.ID)
			return nil
		}
	}

	for _, de := range devEvents {
		categoryID, ok, err := QueryOne[int64](ctx, s, `SELECT id FROM categories WHERE name = ?`, de.category)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category %q not found", de.category)
		}

		day := now.AddDate(0, 0, de.dayOffset).Format(models.DateLayout)
		ev := models.Event{
			Name:        de.name,
			Place:       strPtr(de.place),
			StartDate:   day,
			EndDate:     day,
			StartTime:   de.start,
			EndTime:     de.end,
			CategoryID:  categoryID,
			Description: strPtr(de.description),
			CreatedBy:   de.createdBy,
		}
		if err := s.Create(ctx, &ev); err != nil {
			return fmt.Errorf("failed to insert event %q: %w", de.name, err)
		}

		if err := s.Create(ctx, &models.Attendance{EventID: ev.ID, UserID: de.attendee}); err != nil {
			return fmt.Errorf("failed to insert attendee for %q: %w", de.name, err)
		}
	}

	slog.Info("seeded dev events", "count", len(devEvents))
	return nil
}

func countRows(ctx context.Context, s *Store, table string) (int64, error) {
	count, _, err := QueryOne[int64](ctx, s, `SELECT COUNT(1) FROM `+table)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

func strPtr(s string) *string { return &s }
