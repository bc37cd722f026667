package models

import "time"

// AssignmentSubmission records a learner's submission for one assignment
// within an enrollment. At most one row exists per assignment per
// enrollment; resubmissions update the row in place.
type AssignmentSubmission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_assignment" json:"-"`
	AssignmentID  string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_assignment" json:"assignment_id"`
	Score         *float64  `json:"score"`
	SubmissionURL string    `gorm:"size:512" json:"submission_url"`
	FileName      string    `gorm:"size:255" json:"file_name"`
	CompletedAt   time.Time `json:"completed_at"`
}

// IsGraded reports whether the submission carries a score.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Score != nil
}

// QuizAttempt records the best stored quiz result within an enrollment. At
// most one row exists per quiz per enrollment; the score never decreases.
type QuizAttempt struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_quiz" json:"-"`
	QuizID       string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_quiz" json:"quiz_id"`
	Score        float64   `gorm:"not null" json:"score"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Passed reports whether the stored score meets the pass threshold.
func (a QuizAttempt) Passed(threshold float64) bool {
	return a.Score >= threshold
}
