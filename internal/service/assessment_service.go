package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/models"
	"github.com/noah-isme/lentera-api/internal/repository"
)

var (
	// ErrAssignmentNotFound indicates the course does not declare the assignment.
	ErrAssignmentNotFound = errors.New("assignment not found in course")
	// ErrQuizNotFound indicates the course does not declare the quiz.
	ErrQuizNotFound = errors.New("quiz not found in course")
)

// FileUploader pushes submission files to object storage and returns a public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AssessmentService records assignment submissions and quiz attempts,
// applying the retake policy per assessment kind: assignments overwrite,
// quizzes keep the best score.
type AssessmentService interface {
	SubmitAssignment(ctx context.Context, payload dto.SubmitAssignmentRequest) ([]dto.SubmissionEntry, error)
	SubmitAssignmentFile(ctx context.Context, payload dto.SubmitAssignmentFileRequest, file *multipart.FileHeader) ([]dto.SubmissionEntry, error)
	SubmitQuizAttempt(ctx context.Context, payload dto.SubmitQuizAttemptRequest) ([]dto.AttemptEntry, error)
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	uploader    FileUploader
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssessmentService constructs an AssessmentService instance.
func NewAssessmentService(assessments repository.AssessmentRepository, enrollments repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		uploader:    uploader,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assessmentService) SubmitAssignment(ctx context.Context, payload dto.SubmitAssignmentRequest) ([]dto.SubmissionEntry, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	enrollment, course, err := s.resolveEnrollment(ctx, payload.LearnerID, payload.CourseID.ID)
	if err != nil {
		return nil, err
	}

	if !course.HasAssignment(payload.AssignmentID) {
		return nil, ErrAssignmentNotFound
	}

	submission, err := s.assessments.GetSubmission(ctx, enrollment.ID, payload.AssignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	score := payload.Score
	submission.EnrollmentID = enrollment.ID
	submission.AssignmentID = payload.AssignmentID
	submission.Score = &score
	submission.CompletedAt = s.now()

	if err := s.assessments.SaveSubmission(ctx, &submission); err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("learner_id", payload.LearnerID).
		Str("assignment_id", payload.AssignmentID).
		Float64("score", score).
		Msg("assignment score recorded")

	return s.submissionEntries(ctx, enrollment.ID)
}

func (s *assessmentService) SubmitAssignmentFile(ctx context.Context, payload dto.SubmitAssignmentFileRequest, file *multipart.FileHeader) ([]dto.SubmissionEntry, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, fmt.Errorf("submission file is required")
	}

	enrollment, course, err := s.resolveEnrollment(ctx, payload.LearnerID, payload.CourseID)
	if err != nil {
		return nil, err
	}

	if !course.HasAssignment(payload.AssignmentID) {
		return nil, ErrAssignmentNotFound
	}

	if err := validateSubmissionFileType(file); err != nil {
		return nil, err
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	uploadURL, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	// A file resubmission replaces the artifact but never erases a grade
	// already recorded for the assignment.
	submission, err := s.assessments.GetSubmission(ctx, enrollment.ID, payload.AssignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission.EnrollmentID = enrollment.ID
	submission.AssignmentID = payload.AssignmentID
	submission.SubmissionURL = uploadURL
	submission.FileName = file.Filename
	submission.CompletedAt = s.now()

	if err := s.assessments.SaveSubmission(ctx, &submission); err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("learner_id", payload.LearnerID).
		Str("assignment_id", payload.AssignmentID).
		Str("file_name", file.Filename).
		Msg("assignment file submitted")

	return s.submissionEntries(ctx, enrollment.ID)
}

func (s *assessmentService) SubmitQuizAttempt(ctx context.Context, payload dto.SubmitQuizAttemptRequest) ([]dto.AttemptEntry, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	enrollment, course, err := s.resolveEnrollment(ctx, payload.LearnerID, payload.CourseID.ID)
	if err != nil {
		return nil, err
	}

	if !course.HasQuiz(payload.QuizID) {
		return nil, ErrQuizNotFound
	}

	attempt, err := s.assessments.GetAttempt(ctx, enrollment.ID, payload.QuizID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		attempt = models.QuizAttempt{
			EnrollmentID: enrollment.ID,
			QuizID:       payload.QuizID,
			Score:        payload.Score,
			CompletedAt:  s.now(),
		}
		if err := s.assessments.SaveAttempt(ctx, &attempt); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case payload.Score > attempt.Score:
		attempt.Score = payload.Score
		attempt.CompletedAt = s.now()
		if err := s.assessments.SaveAttempt(ctx, &attempt); err != nil {
			return nil, err
		}
	default:
		// Best score wins: a lower or equal retake leaves the stored
		// attempt untouched, including its timestamp.
		s.logger.Debug().
			Str("quiz_id", payload.QuizID).
			Float64("score", payload.Score).
			Float64("stored", attempt.Score).
			Msg("quiz retake below stored score, keeping previous attempt")
	}

	s.logger.Info().
		Uint("learner_id", payload.LearnerID).
		Str("quiz_id", payload.QuizID).
		Float64("score", payload.Score).
		Msg("quiz attempt processed")

	attempts, err := s.assessments.ListAttempts(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewAttemptEntries(attempts), nil
}

func (s *assessmentService) resolveEnrollment(ctx context.Context, learnerID, courseID uint) (models.Enrollment, models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, models.Course{}, ErrCourseNotFound
		}
		return models.Enrollment{}, models.Course{}, err
	}

	enrollment, err := s.enrollments.GetByLearnerAndCourse(ctx, learnerID, course.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, models.Course{}, ErrEnrollmentNotFound
		}
		return models.Enrollment{}, models.Course{}, err
	}

	return enrollment, course, nil
}

func (s *assessmentService) submissionEntries(ctx context.Context, enrollmentID uint) ([]dto.SubmissionEntry, error) {
	submissions, err := s.assessments.ListSubmissions(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionEntries(submissions), nil
}

func validateSubmissionFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}
