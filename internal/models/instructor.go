package models

import "time"

// InstructorProfile is the public-facing instructor record, stored separately
// from the user account and keyed by email. Its name can drift from the user's
// display name until a rename propagates through the sync service.
type InstructorProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Designation string    `gorm:"size:255" json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
