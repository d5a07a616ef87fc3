package models

// User is a person known to the app. ID is the opaque identifier supplied by
// whichever auth provider signed the user in.
type User struct {
	ID          string  `gorm:"column:id;primaryKey" json:"id"`
	Name        *string `gorm:"column:name" json:"name,omitempty"`
	Email       *string `gorm:"column:email" json:"email,omitempty"`
	PhotoURL    *string `gorm:"column:photo_url" json:"photo_url,omitempty"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	Address     *string `gorm:"column:address" json:"address,omitempty"`
	CreatedAt   string  `gorm:"column:created_at;->" json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserInput carries the identity handed over by an auth collaborator.
// Nil fields are left untouched on an existing row.
type UserInput struct {
	ID          string
	Name        *string
	Email       *string
	PhotoURL    *string
	Description *string
	Address     *string
}

// ProfilePatch updates the user-editable profile fields. Nil means unchanged.
type ProfilePatch struct {
	Description *string
	Address     *string
}

func (p ProfilePatch) Empty() bool {
	return p.Description == nil && p.Address == nil
}
