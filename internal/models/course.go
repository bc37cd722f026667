package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ContentItem is a single entry in a course's content outline.
type ContentItem struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

const (
	// ContentTypeLecture is a text lesson counted toward progress.
	ContentTypeLecture = "lecture"
	// ContentTypeVideo is a video lesson counted toward progress.
	ContentTypeVideo = "video"
	// ContentTypeDocument is downloadable material counted toward progress.
	ContentTypeDocument = "document"
	// ContentTypeNotice is administrative content with no completion semantics.
	ContentTypeNotice = "notice"
)

// IsGradable reports whether the item counts toward the progress denominator.
func (c ContentItem) IsGradable() bool {
	return c.Type != ContentTypeNotice
}

// Course is a published course. The instructor name is denormalized onto the
// record and kept in sync by the instructor sync service on renames.
type Course struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	InstructorID   *uint          `gorm:"index" json:"instructor_id"`
	InstructorName string         `gorm:"size:255;index" json:"instructor_name"`
	Content        datatypes.JSON `gorm:"type:json" json:"-"`
	AssignmentIDs  datatypes.JSON `gorm:"type:json" json:"-"`
	QuizIDs        datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SetContent serializes the content outline into the JSON storage column.
func (c *Course) SetContent(items []ContentItem) {
	c.Content = marshalJSONColumn(items)
}

// ContentList deserializes the stored content outline.
func (c Course) ContentList() []ContentItem {
	var items []ContentItem
	unmarshalJSONColumn(c.Content, &items)
	return items
}

// GradableContentIDs returns the identifiers counted toward progress.
func (c Course) GradableContentIDs() []string {
	items := c.ContentList()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsGradable() {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// SetAssignmentIDs serializes the assignment id list.
func (c *Course) SetAssignmentIDs(ids []string) {
	c.AssignmentIDs = marshalJSONColumn(ids)
}

// AssignmentIDList deserializes the stored assignment ids.
func (c Course) AssignmentIDList() []string {
	var ids []string
	unmarshalJSONColumn(c.AssignmentIDs, &ids)
	return ids
}

// SetQuizIDs serializes the quiz id list.
func (c *Course) SetQuizIDs(ids []string) {
	c.QuizIDs = marshalJSONColumn(ids)
}

// QuizIDList deserializes the stored quiz ids.
func (c Course) QuizIDList() []string {
	var ids []string
	unmarshalJSONColumn(c.QuizIDs, &ids)
	return ids
}

// HasAssignment reports whether the course declares the assignment.
func (c Course) HasAssignment(assignmentID string) bool {
	return containsID(c.AssignmentIDList(), assignmentID)
}

// HasQuiz reports whether the course declares the quiz.
func (c Course) HasQuiz(quizID string) bool {
	return containsID(c.QuizIDList(), quizID)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func marshalJSONColumn(value interface{}) datatypes.JSON {
	data, err := json.Marshal(value)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func unmarshalJSONColumn(column datatypes.JSON, target interface{}) {
	if len(column) == 0 {
		return
	}
	_ = json.Unmarshal(column, target)
}
