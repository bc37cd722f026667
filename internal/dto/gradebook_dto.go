package dto

import "github.com/noah-isme/lentera-api/internal/models"

// GradebookEntry is one learner's row in a course gradebook.
type GradebookEntry struct {
	LearnerID   uint              `json:"learner_id"`
	Progress    int               `json:"progress"`
	Submissions []SubmissionEntry `json:"assignment_submissions"`
	Attempts    []AttemptEntry    `json:"quiz_attempts"`
}

// GradebookResponse is the read-only projection across all enrollments of a
// course.
type GradebookResponse struct {
	CourseID uint             `json:"course_id"`
	Entries  []GradebookEntry `json:"entries"`
}

// NewGradebookResponse builds the gradebook projection from enrollments.
func NewGradebookResponse(courseID uint, enrollments []models.Enrollment) GradebookResponse {
	entries := make([]GradebookEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entries = append(entries, GradebookEntry{
			LearnerID:   enrollment.LearnerID,
			Progress:    enrollment.Progress,
			Submissions: NewSubmissionEntries(enrollment.Submissions),
			Attempts:    NewAttemptEntries(enrollment.Attempts),
		})
	}

	return GradebookResponse{CourseID: courseID, Entries: entries}
}
