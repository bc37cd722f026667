package models

import "time"

// User represents an account on the platform, either a learner or an instructor.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:learner" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleLearner marks an account that enrolls into courses.
	RoleLearner = "learner"
	// RoleInstructor marks an account that owns courses.
	RoleInstructor = "instructor"
	// RoleAdmin marks a platform operator account.
	RoleAdmin = "admin"
)

// IsInstructor reports whether the user owns courses and participates in
// instructor-name propagation.
func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}
