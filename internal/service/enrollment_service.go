package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/models"
	"github.com/noah-isme/lentera-api/internal/repository"
)

var (
	// ErrLearnerNotFound indicates the learner account does not exist.
	ErrLearnerNotFound = errors.New("learner not found")
	// ErrCourseNotFound indicates the course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrEnrollmentNotFound indicates the learner has no enrollment for the course.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled indicates the learner is already enrolled in the course.
	ErrAlreadyEnrolled = errors.New("learner is already enrolled in this course")
)

// EnrollmentService owns enrollment records: creation, completion toggling and
// the derived progress percentage, plus the per-course gradebook projection.
type EnrollmentService interface {
	Enroll(ctx context.Context, payload dto.EnrollRequest) (dto.EnrollmentResponse, error)
	GetEnrollment(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error)
	ToggleContentCompletion(ctx context.Context, payload dto.ToggleCompletionRequest) (dto.ToggleCompletionResponse, error)
	Gradebook(ctx context.Context, courseID uint) (dto.GradebookResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if payload.CourseID.ID == 0 {
		return dto.EnrollmentResponse{}, ErrCourseNotFound
	}

	if _, err := s.users.GetByID(ctx, payload.LearnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrLearnerNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.enrollments.GetByLearnerAndCourse(ctx, payload.LearnerID, payload.CourseID.ID); err == nil {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		LearnerID: payload.LearnerID,
		CourseID:  payload.CourseID.ID,
		Progress:  0,
	}
	enrollment.SetCompleted(nil)

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.invalidateGradebook(ctx, enrollment.CourseID)
	s.logger.Info().
		Uint("learner_id", enrollment.LearnerID).
		Uint("course_id", enrollment.CourseID).
		Msg("learner enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ToggleContentCompletion(ctx context.Context, payload dto.ToggleCompletionRequest) (dto.ToggleCompletionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ToggleCompletionResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.LearnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleCompletionResponse{}, ErrLearnerNotFound
		}
		return dto.ToggleCompletionResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleCompletionResponse{}, ErrCourseNotFound
		}
		return dto.ToggleCompletionResponse{}, err
	}

	enrollment, err := s.enrollments.GetByLearnerAndCourse(ctx, payload.LearnerID, course.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleCompletionResponse{}, ErrEnrollmentNotFound
		}
		return dto.ToggleCompletionResponse{}, err
	}

	completed := enrollment.ToggleContent(payload.ContentID)

	gradable := course.GradableContentIDs()
	enrollment.Progress = ComputeProgress(enrollment.CompletedCountIn(gradable), len(gradable))

	if err := s.enrollments.Save(ctx, &enrollment); err != nil {
		return dto.ToggleCompletionResponse{}, err
	}

	s.invalidateGradebook(ctx, course.ID)
	s.logger.Info().
		Uint("learner_id", enrollment.LearnerID).
		Uint("course_id", course.ID).
		Str("content_id", payload.ContentID).
		Bool("completed", completed).
		Int("progress", enrollment.Progress).
		Msg("content completion toggled")

	completedList := enrollment.CompletedList()
	if completedList == nil {
		completedList = []string{}
	}

	return dto.ToggleCompletionResponse{
		CompletedContent: completedList,
		Progress:         enrollment.Progress,
	}, nil
}

func (s *enrollmentService) Gradebook(ctx context.Context, courseID uint) (dto.GradebookResponse, error) {
	cacheKey := gradebookCacheKey(courseID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.GradebookResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("course_id", courseID).Msg("gradebook cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read gradebook cache")
		}
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradebookResponse{}, ErrCourseNotFound
		}
		return dto.GradebookResponse{}, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	response := dto.NewGradebookResponse(courseID, enrollments)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store gradebook cache")
			}
		}
	}

	return response, nil
}

func (s *enrollmentService) invalidateGradebook(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, gradebookCacheKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to invalidate gradebook cache")
	}
}

func gradebookCacheKey(courseID uint) string {
	return fmt.Sprintf("gradebook:course:%d", courseID)
}
