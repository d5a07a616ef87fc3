package models

// Attendance records that a user will attend an event.
type Attendance struct {
	EventID   int64  `gorm:"column:event_id;primaryKey" json:"event_id"`
	UserID    string `gorm:"column:user_id;primaryKey" json:"user_id"`
	CreatedAt string `gorm:"column:created_at;->" json:"created_at"`
}

func (Attendance) TableName() string { return "event_attendees" }

// Meta is a row of the key-value table holding app-level state.
type Meta struct {
	Key   string `gorm:"column:key;primaryKey" json:"key"`
	Value string `gorm:"column:value" json:"value"`
}

func (Meta) TableName() string { return "meta" }
