package dto

import (
	"time"

	"github.com/noah-isme/lentera-api/internal/models"
)

// EnrollRequest creates an enrollment for a learner on a course.
type EnrollRequest struct {
	LearnerID uint      `json:"learner_id" validate:"required,gt=0"`
	CourseID  CourseRef `json:"course_id"`
}

// ToggleCompletionRequest flips one content item's completion state.
type ToggleCompletionRequest struct {
	LearnerID uint      `json:"learner_id" validate:"required,gt=0"`
	CourseID  CourseRef `json:"course_id"`
	ContentID string    `json:"content_id" validate:"required"`
}

// EnrollmentResponse is the full enrollment view returned to API clients.
type EnrollmentResponse struct {
	ID               uint              `json:"id"`
	LearnerID        uint              `json:"learner_id"`
	CourseID         uint              `json:"course_id"`
	Progress         int               `json:"progress"`
	CompletedContent []string          `json:"completed_content"`
	Submissions      []SubmissionEntry `json:"assignment_submissions"`
	Attempts         []AttemptEntry    `json:"quiz_attempts"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToggleCompletionResponse reports the post-toggle completion state.
type ToggleCompletionResponse struct {
	CompletedContent []string `json:"completed_content"`
	Progress         int      `json:"progress"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	completed := model.CompletedList()
	if completed == nil {
		completed = []string{}
	}

	return EnrollmentResponse{
		ID:               model.ID,
		LearnerID:        model.LearnerID,
		CourseID:         model.CourseID,
		Progress:         model.Progress,
		CompletedContent: completed,
		Submissions:      NewSubmissionEntries(model.Submissions),
		Attempts:         NewAttemptEntries(model.Attempts),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}
