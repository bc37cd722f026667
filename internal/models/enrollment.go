package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Enrollment is a learner's relationship to one course. It carries the derived
// progress percentage, the set of completed content ids, and the learner's
// assignment submissions and quiz attempts for that course.
type Enrollment struct {
	ID               uint                   `gorm:"primaryKey" json:"id"`
	LearnerID        uint                   `gorm:"not null;uniqueIndex:idx_learner_course" json:"learner_id"`
	CourseID         uint                   `gorm:"not null;uniqueIndex:idx_learner_course" json:"course_id"`
	Progress         int                    `gorm:"not null;default:0" json:"progress"`
	CompletedContent datatypes.JSON         `gorm:"type:json" json:"-"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Submissions      []AssignmentSubmission `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submissions"`
	Attempts         []QuizAttempt          `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"attempts"`
}

// CompletedList deserializes the stored completed-content set.
func (e Enrollment) CompletedList() []string {
	var ids []string
	if len(e.CompletedContent) > 0 {
		_ = json.Unmarshal(e.CompletedContent, &ids)
	}
	return ids
}

// SetCompleted serializes the completed-content set, dropping duplicates while
// keeping insertion order stable.
func (e *Enrollment) SetCompleted(ids []string) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	data, err := json.Marshal(unique)
	if err != nil {
		e.CompletedContent = datatypes.JSON([]byte("[]"))
		return
	}
	e.CompletedContent = datatypes.JSON(data)
}

// HasCompleted reports whether the content id is in the completed set.
func (e Enrollment) HasCompleted(contentID string) bool {
	return containsID(e.CompletedList(), contentID)
}

// ToggleContent adds the content id to the completed set when absent and
// removes it when present. It returns true when the item ended up completed.
func (e *Enrollment) ToggleContent(contentID string) bool {
	current := e.CompletedList()
	for i, id := range current {
		if id == contentID {
			e.SetCompleted(append(current[:i], current[i+1:]...))
			return false
		}
	}
	e.SetCompleted(append(current, contentID))
	return true
}

// CompletedCountIn counts completed ids that are still part of the given
// gradable list. Stale ids left behind by course edits are ignored.
func (e Enrollment) CompletedCountIn(gradableIDs []string) int {
	gradable := make(map[string]struct{}, len(gradableIDs))
	for _, id := range gradableIDs {
		gradable[id] = struct{}{}
	}

	count := 0
	for _, id := range e.CompletedList() {
		if _, ok := gradable[id]; ok {
			count++
		}
	}
	return count
}
