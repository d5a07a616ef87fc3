package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

var ErrInvalidEvent = errors.New("invalid event")

// Start and end moments are compared as "YYYY-MM-DDTHH:mm" strings. The stored
// columns are zero-padded, so string order is chronological order.
const (
	eventStartKey = `(e.start_date || 'T' || e.start_time)`
	eventEndKey   = `(e.end_date || 'T' || e.end_time || ':00')`
	nowLayout     = "2006-01-02T15:04:05"
)

const (
	eventMetaColumns = `e.*, c.name AS category_name,
		(SELECT COUNT(1) FROM event_attendees ea WHERE ea.event_id = e.id) AS attendees_count`
	createdByNameColumn = `(SELECT u.name FROM users u WHERE u.id = e.created_by) AS created_by_name`
)

type EventService struct {
	store *database.Store
	clock clockwork.Clock
	loc   *time.Location
}

// NewEventService builds the event repository. clock and loc define "now" for
// the upcoming listings; nil means the real clock in UTC.
func NewEventService(store *database.Store, clock clockwork.Clock, loc *time.Location) *EventService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{store: store, clock: clock, loc: loc}
}

func (s *EventService) now() string {
	return s.clock.Now().In(s.loc).Format(nowLayout)
}

// Create stores a new event and returns its id.
func (s *EventService) Create(ctx context.Context, in models.NewEvent) (int64, error) {
	if err := validateNewEvent(in); err != nil {
		return 0, err
	}

	event := models.Event{
		Name:        in.Name,
		Place:       in.Place,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.store.Create(ctx, &event); err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	slog.Debug("event created", "event_id", event.ID, "created_by", event.CreatedBy)
	return event.ID, nil
}

// Update applies the supplied fields of patch. An empty patch does nothing.
func (s *EventService) Update(ctx context.Context, id int64, patch models.EventPatch) error {
	if err := validateEventPatch(patch); err != nil {
		return err
	}

	if err := s.store.UpdateColumns(ctx, "events", id, patch.Columns()); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes the event together with its attendance rows.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Exec(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	slog.Debug("event deleted", "event_id", id)
	return nil
}

// Attend marks userID as attending. Attending twice keeps a single row.
func (s *EventService) Attend(ctx context.Context, eventID int64, userID string) error {
	err := s.store.Exec(ctx,
		`INSERT OR IGNORE INTO event_attendees(event_id, user_id) VALUES (?, ?)`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to attend event: %w", err)
	}
	return nil
}

// Unattend removes the attendance row if there is one.
func (s *EventService) Unattend(ctx context.Context, eventID int64, userID string) error {
	err := s.store.Exec(ctx,
		`DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to unattend event: %w", err)
	}
	return nil
}

func (s *EventService) IsAttending(ctx context.Context, eventID int64, userID string) (bool, error) {
	_, ok, err := database.QueryOne[int64](ctx, s.store,
		`SELECT 1 FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}
	return ok, nil
}

// GetDetail loads an event with its category, creator and attendee list.
// Attendees are sorted by name with unnamed users last.
func (s *EventService) GetDetail(ctx context.Context, eventID int64) (models.EventDetail, bool, error) {
	event, ok, err := database.QueryOne[models.EventWithMeta](ctx, s.store, `
		SELECT `+eventMetaColumns+`, `+createdByNameColumn+`
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = ?
	`, eventID)
	if err != nil {
		return models.EventDetail{}, false, fmt.Errorf("failed to get event: %w", err)
	}
	if !ok {
		return models.EventDetail{}, false, nil
	}

	attendees, err := database.QueryAll[models.User](ctx, s.store, `
		SELECT u.* FROM users u
		JOIN event_attendees ea ON ea.user_id = u.id
		WHERE ea.event_id = ?
		ORDER BY u.name IS NULL, u.name ASC, u.id ASC
	`, eventID)
	if err != nil {
		return models.EventDetail{}, false, fmt.Errorf("failed to get attendees: %w", err)
	}

	detail := models.EventDetail{
		Event:          event,
		Attendees:      attendees,
		AttendeesCount: len(attendees),
	}

	creator, ok, err := database.QueryOne[models.User](ctx, s.store,
		`SELECT * FROM users WHERE id = ?`, event.CreatedBy)
	if err != nil {
		return models.EventDetail{}, false, fmt.Errorf("failed to get event creator: %w", err)
	}
	if ok {
		detail.CreatedBy = &creator
	}

	return detail, true, nil
}

// ListUpcomingTop3 returns the three soonest events that have not ended yet.
func (s *EventService) ListUpcomingTop3(ctx context.Context) ([]models.EventWithMeta, error) {
	return s.list(ctx, "upcoming events", `
		SELECT `+eventMetaColumns+`, `+createdByNameColumn+`
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE `+eventEndKey+` >= ?
		ORDER BY `+eventStartKey+` ASC, e.id ASC
		LIMIT 3
	`, s.now())
}

// ListAllUpcomingDesc returns every event that has not ended yet, the one
// starting furthest in the future first.
func (s *EventService) ListAllUpcomingDesc(ctx context.Context) ([]models.EventWithMeta, error) {
	return s.list(ctx, "upcoming events", `
		SELECT `+eventMetaColumns+`, `+createdByNameColumn+`
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE `+eventEndKey+` >= ?
		ORDER BY `+eventStartKey+` DESC, e.id DESC
	`, s.now())
}

// ListCreatedBy returns the events userID created, latest start first.
func (s *EventService) ListCreatedBy(ctx context.Context, userID string) ([]models.EventWithMeta, error) {
	return s.list(ctx, "created events", `
		SELECT `+eventMetaColumns+`
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE e.created_by = ?
		ORDER BY `+eventStartKey+` DESC, e.id DESC
	`, userID)
}

// ListAttendingBy returns the events userID attends, latest start first.
func (s *EventService) ListAttendingBy(ctx context.Context, userID string) ([]models.EventWithMeta, error) {
	return s.list(ctx, "attended events", `
		SELECT `+eventMetaColumns+`
		FROM event_attendees a
		JOIN events e ON e.id = a.event_id
		JOIN categories c ON c.id = e.category_id
		WHERE a.user_id = ?
		ORDER BY `+eventStartKey+` DESC, e.id DESC
	`, userID)
}

func (s *EventService) list(ctx context.Context, what, query string, args ...any) ([]models.EventWithMeta, error) {
	events, err := database.QueryAll[models.EventWithMeta](ctx, s.store, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	return events, nil
}

func validateNewEvent(e models.NewEvent) error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	case e.CreatedBy == "":
		return fmt.Errorf("%w: created_by is required", ErrInvalidEvent)
	case e.CategoryID == 0:
		return fmt.Errorf("%w: category_id is required", ErrInvalidEvent)
	}
	return validateSchedule(e.StartDate, e.StartTime, e.EndDate, e.EndTime)
}

func validateEventPatch(p models.EventPatch) error {
	if name, ok := p.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidEvent)
	}
	if id, ok := p.CategoryID.Get(); ok && id == 0 {
		return fmt.Errorf("%w: category_id must not be zero", ErrInvalidEvent)
	}
	for _, d := range []models.Optional[string]{p.StartDate, p.EndDate} {
		if v, ok := d.Get(); ok && !models.ValidDate(v) {
			return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidEvent, v)
		}
	}
	for _, c := range []models.Optional[string]{p.StartTime, p.EndTime} {
		if v, ok := c.Get(); ok && !models.ValidClock(v) {
			return fmt.Errorf("%w: time %q must be HH:mm", ErrInvalidEvent, v)
		}
	}
	return nil
}

func validateSchedule(startDate, startTime, endDate, endTime string) error {
	for _, d := range []string{startDate, endDate} {
		if !models.ValidDate(d) {
			return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidEvent, d)
		}
	}
	for _, c := range []string{startTime, endTime} {
		if !models.ValidClock(c) {
			return fmt.Errorf("%w: time %q must be HH:mm", ErrInvalidEvent, c)
		}
	}
	return nil
}
