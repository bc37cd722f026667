package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/models"
)

// EnrollmentRepository defines data operations for enrollments.
type EnrollmentRepository interface {
	GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Save(ctx context.Context, enrollment *models.Enrollment) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Preload("Submissions").
		Preload("Attempts")
}

func (r *enrollmentRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.baseQuery(ctx).
		Where("learner_id = ?", learnerID).
		Where("course_id = ?", courseID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.baseQuery(ctx).
		Where("course_id = ?", courseID).
		Order("learner_id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Save(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Submissions", "Attempts").Save(enrollment).Error
}
