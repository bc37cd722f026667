package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/models"
)

// CourseRepository defines data operations for courses, including the bulk
// instructor-name updates used by rename propagation.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	ListByInstructorID(ctx context.Context, instructorID uint) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Save(ctx context.Context, course *models.Course) error
	UpdateInstructorNameByID(ctx context.Context, instructorID uint, name string) (int64, error)
	UpdateInstructorNameByName(ctx context.Context, oldName, newName string, instructorID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) ListByInstructorID(ctx context.Context, instructorID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) UpdateInstructorNameByID(ctx context.Context, instructorID uint, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Update("instructor_name", name)

	return result.RowsAffected, result.Error
}

func (r *courseRepository) UpdateInstructorNameByName(ctx context.Context, oldName, newName string, instructorID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_name = ?", oldName).
		Updates(map[string]interface{}{
			"instructor_name": newName,
			"instructor_id":   instructorID,
		})

	return result.RowsAffected, result.Error
}
