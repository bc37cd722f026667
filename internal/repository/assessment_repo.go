package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/models"
)

// AssessmentRepository defines data operations for assignment submissions and
// quiz attempts. Retake policy lives in the service layer; the repository only
// enforces one row per assessment per enrollment.
type AssessmentRepository interface {
	GetSubmission(ctx context.Context, enrollmentID uint, assignmentID string) (models.AssignmentSubmission, error)
	ListSubmissions(ctx context.Context, enrollmentID uint) ([]models.AssignmentSubmission, error)
	SaveSubmission(ctx context.Context, submission *models.AssignmentSubmission) error
	GetAttempt(ctx context.Context, enrollmentID uint, quizID string) (models.QuizAttempt, error)
	ListAttempts(ctx context.Context, enrollmentID uint) ([]models.QuizAttempt, error)
	SaveAttempt(ctx context.Context, attempt *models.QuizAttempt) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository instantiates the repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) GetSubmission(ctx context.Context, enrollmentID uint, assignmentID string) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Where("assignment_id = ?", assignmentID).
		First(&submission).Error; err != nil {
		return models.AssignmentSubmission{}, err
	}

	return submission, nil
}

func (r *assessmentRepository) ListSubmissions(ctx context.Context, enrollmentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("completed_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *assessmentRepository) SaveSubmission(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *assessmentRepository) GetAttempt(ctx context.Context, enrollmentID uint, quizID string) (models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Where("quiz_id = ?", quizID).
		First(&attempt).Error; err != nil {
		return models.QuizAttempt{}, err
	}

	return attempt, nil
}

func (r *assessmentRepository) ListAttempts(ctx context.Context, enrollmentID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("completed_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *assessmentRepository) SaveAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}
