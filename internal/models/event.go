package models

import (
	"fmt"
	"time"
)

// Layouts of the stored date and time columns. Both are zero-padded so that
// string order equals chronological order.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type Event struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:name" json:"name"`
	Place       *string `gorm:"column:place" json:"place,omitempty"`
	StartDate   string  `gorm:"column:start_date" json:"start_date"`
	EndDate     string  `gorm:"column:end_date" json:"end_date"`
	StartTime   string  `gorm:"column:start_time" json:"start_time"`
	EndTime     string  `gorm:"column:end_time" json:"end_time"`
	CategoryID  int64   `gorm:"column:category_id" json:"category_id"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	CreatedBy   string  `gorm:"column:created_by" json:"created_by"`
	CreatedAt   string  `gorm:"column:created_at;->" json:"created_at"`
}

func (Event) TableName() string { return "events" }

// StartsAt combines StartDate and StartTime in loc.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	return combine(e.StartDate, e.StartTime, loc)
}

// EndsAt combines EndDate and EndTime in loc.
func (e Event) EndsAt(loc *time.Location) (time.Time, error) {
	return combine(e.EndDate, e.EndTime, loc)
}

func combine(date, clock string, loc *time.Location) (time.Time, error) {
	if !ValidDate(date) || !ValidClock(clock) {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
	}
	t, err := time.ParseInLocation(DateLayout+"T"+ClockLayout, date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// ValidDate reports whether s is a zero-padded YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a zero-padded HH:mm time of day.
func ValidClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// EventWithMeta is the read-model row returned by every event listing.
type EventWithMeta struct {
	Event
	CategoryName   string  `gorm:"column:category_name" json:"category_name"`
	CreatedByName  *string `gorm:"column:created_by_name" json:"created_by_name,omitempty"`
	AttendeesCount int64   `gorm:"column:attendees_count" json:"attendees_count"`
}

// EventDetail is the event screen read-model.
type EventDetail struct {
	Event          EventWithMeta `json:"event"`
	Attendees      []User        `json:"attendees"`
	AttendeesCount int           `json:"attendees_count"`
	CreatedBy      *User         `json:"created_by,omitempty"`
}

// NewEvent holds the fields accepted when creating an event.
type NewEvent struct {
	Name        string
	Place       *string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	CategoryID  int64
	Description *string
	CreatedBy   string
}

// EventPatch lists the mutable event fields. CreatedBy is fixed at creation.
type EventPatch struct {
	Name        Optional[string]
	Place       Optional[string]
	StartDate   Optional[string]
	EndDate     Optional[string]
	StartTime   Optional[string]
	EndTime     Optional[string]
	CategoryID  Optional[int64]
	Description Optional[string]
}

// Columns returns the supplied fields keyed by column name.
func (p EventPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if v, ok := p.Name.Get(); ok {
		cols["name"] = v
	}
	if v, ok := p.Place.Get(); ok {
		cols["place"] = v
	}
	if v, ok := p.StartDate.Get(); ok {
		cols["start_date"] = v
	}
	if v, ok := p.EndDate.Get(); ok {
		cols["end_date"] = v
	}
	if v, ok := p.StartTime.Get(); ok {
		cols["start_time"] = v
	}
	if v, ok := p.EndTime.Get(); ok {
		cols["end_time"] = v
	}
	if v, ok := p.CategoryID.Get(); ok {
		cols["category_id"] = v
	}
	if v, ok := p.Description.Get(); ok {
		cols["description"] = v
	}
	return cols
}
