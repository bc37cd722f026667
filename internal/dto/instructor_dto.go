package dto

import "github.com/noah-isme/lentera-api/internal/models"

// ProfileUpdateRequest changes a user's display name and, for instructors,
// the public profile fields.
type ProfileUpdateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Bio         *string `json:"bio" validate:"omitempty,max=4000"`
	Designation *string `json:"designation" validate:"omitempty,max=255"`
}

// UserResponse serializes a user account.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileUpdateResponse reports the updated account plus the outcome of the
// instructor-name propagation, when one ran.
type ProfileUpdateResponse struct {
	User           UserResponse `json:"user"`
	CoursesSynced  int64        `json:"courses_synced"`
	ProfileWarning string       `json:"profile_warning,omitempty"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
		Role:  model.Role,
	}
}
