package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/models"
)

// InstructorRepository defines data operations for instructor profiles.
type InstructorRepository interface {
	GetByEmail(ctx context.Context, email string) (models.InstructorProfile, error)
	Save(ctx context.Context, profile *models.InstructorProfile) error
}

type instructorRepository struct {
	db *gorm.DB
}

// NewInstructorRepository instantiates the repository.
func NewInstructorRepository(db *gorm.DB) InstructorRepository {
	return &instructorRepository{db: db}
}

func (r *instructorRepository) GetByEmail(ctx context.Context, email string) (models.InstructorProfile, error) {
	var profile models.InstructorProfile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return models.InstructorProfile{}, err
	}

	return profile, nil
}

func (r *instructorRepository) Save(ctx context.Context, profile *models.InstructorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
