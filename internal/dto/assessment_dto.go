package dto

import (
	"time"

	"github.com/noah-isme/lentera-api/internal/models"
)

// SubmitAssignmentRequest records a scored assignment submission.
type SubmitAssignmentRequest struct {
	LearnerID    uint      `json:"learner_id" validate:"required,gt=0"`
	CourseID     CourseRef `json:"course_id"`
	AssignmentID string    `json:"assignment_id" validate:"required"`
	Score        float64   `json:"score" validate:"gte=0,lte=100"`
}

// SubmitAssignmentFileRequest records a file-backed assignment submission.
// The file itself travels as a multipart part next to these fields.
type SubmitAssignmentFileRequest struct {
	LearnerID    uint   `form:"learner_id" validate:"required,gt=0"`
	CourseID     uint   `form:"course_id" validate:"required,gt=0"`
	AssignmentID string `form:"assignment_id" validate:"required"`
}

// SubmitQuizAttemptRequest records a quiz attempt result.
type SubmitQuizAttemptRequest struct {
	LearnerID uint      `json:"learner_id" validate:"required,gt=0"`
	CourseID  CourseRef `json:"course_id"`
	QuizID    string    `json:"quiz_id" validate:"required"`
	Score     float64   `json:"score" validate:"gte=0,lte=100"`
}

// SubmissionEntry serializes one assignment submission.
type SubmissionEntry struct {
	AssignmentID  string    `json:"assignment_id"`
	Score         *float64  `json:"score"`
	SubmissionURL string    `json:"submission_url,omitempty"`
	FileName      string    `json:"file_name,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// AttemptEntry serializes one stored quiz attempt.
type AttemptEntry struct {
	QuizID      string    `json:"quiz_id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewSubmissionEntries converts submission models into DTOs.
func NewSubmissionEntries(submissions []models.AssignmentSubmission) []SubmissionEntry {
	entries := make([]SubmissionEntry, 0, len(submissions))
	for _, submission := range submissions {
		entries = append(entries, SubmissionEntry{
			AssignmentID:  submission.AssignmentID,
			Score:         submission.Score,
			SubmissionURL: submission.SubmissionURL,
			FileName:      submission.FileName,
			CompletedAt:   submission.CompletedAt,
		})
	}
	return entries
}

// NewAttemptEntries converts attempt models into DTOs.
func NewAttemptEntries(attempts []models.QuizAttempt) []AttemptEntry {
	entries := make([]AttemptEntry, 0, len(attempts))
	for _, attempt := range attempts {
		entries = append(entries, AttemptEntry{
			QuizID:      attempt.QuizID,
			Score:       attempt.Score,
			CompletedAt: attempt.CompletedAt,
		})
	}
	return entries
}
