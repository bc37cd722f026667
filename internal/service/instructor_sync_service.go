package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/observability"
	"github.com/noah-isme/lentera-api/internal/repository"
)

// ErrUserNotFound indicates the account does not exist.
var ErrUserNotFound = errors.New("user not found")

// PartialSyncError reports that instructor-name propagation stopped partway
// through its passes. Completed passes are not rolled back; re-running the
// whole operation is safe because every pass is idempotent.
type PartialSyncError struct {
	CompletedPasses []string
	FailedPass      string
	Err             error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("instructor sync incomplete: pass %q failed after %d passes: %v", e.FailedPass, len(e.CompletedPasses), e.Err)
}

func (e *PartialSyncError) Unwrap() error {
	return e.Err
}

// InstructorSyncService applies profile updates and propagates instructor
// renames to the denormalized instructor_name column on courses.
type InstructorSyncService interface {
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.ProfileUpdateResponse, error)
}

type instructorSyncService struct {
	users       repository.UserRepository
	instructors repository.InstructorRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewInstructorSyncService constructs an InstructorSyncService instance.
func NewInstructorSyncService(users repository.UserRepository, instructors repository.InstructorRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) InstructorSyncService {
	return &instructorSyncService{
		users:       users,
		instructors: instructors,
		courses:     courses,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		tracer:      otel.Tracer("lentera.instructor_sync"),
		logger:      logger.With().Str("component", "instructor_sync_service").Logger(),
	}
}

func (s *instructorSyncService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.ProfileUpdateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileUpdateResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileUpdateResponse{}, ErrUserNotFound
		}
		return dto.ProfileUpdateResponse{}, err
	}

	oldName := user.Name
	newName := strings.TrimSpace(payload.Name)
	user.Name = newName

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileUpdateResponse{}, err
	}

	response := dto.ProfileUpdateResponse{User: dto.NewUserResponse(user)}

	if !user.IsInstructor() {
		return response, nil
	}

	// The instructor profile is a second source of truth whose name can have
	// drifted independently of the account's display name.
	profileOldName, warning := s.updateInstructorProfile(ctx, user.Email, newName, payload)
	response.ProfileWarning = warning

	synced, err := s.propagateRename(ctx, user.ID, oldName, newName, profileOldName)
	response.CoursesSynced = synced
	if err != nil {
		return response, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("old_name", oldName).
		Str("new_name", newName).
		Int64("courses_synced", synced).
		Msg("instructor rename propagated")

	return response, nil
}

// updateInstructorProfile writes the new name, bio and designation to the
// separate instructor profile. Failure here is non-fatal for the account
// update; the previous profile name is still returned for the third pass.
func (s *instructorSyncService) updateInstructorProfile(ctx context.Context, email, newName string, payload dto.ProfileUpdateRequest) (string, string) {
	profile, err := s.instructors.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("email", email).Msg("failed to load instructor profile")
			return "", "instructor profile could not be loaded"
		}
		return "", ""
	}

	previousName := profile.Name
	profile.Name = newName
	if payload.Bio != nil {
		profile.Bio = s.sanitizer.Sanitize(*payload.Bio)
	}
	if payload.Designation != nil {
		profile.Designation = strings.TrimSpace(*payload.Designation)
	}

	if err := s.instructors.Save(ctx, &profile); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to update instructor profile")
		return previousName, "instructor profile update failed"
	}

	return previousName, ""
}

// propagateRename runs the three ordered bulk passes over courses. Passes are
// cumulative and individually idempotent, so a failure leaves at most the
// remaining passes unsynced and the operation can simply be re-triggered.
func (s *instructorSyncService) propagateRename(ctx context.Context, instructorID uint, oldName, newName, profileOldName string) (int64, error) {
	var total int64
	var completed []string

	runPass := func(name string, fn func(context.Context) (int64, error)) error {
		passCtx, span := s.tracer.Start(ctx, "instructor_sync."+name,
			trace.WithAttributes(attribute.Int64("instructor_id", int64(instructorID))))
		defer span.End()

		affected, err := fn(passCtx)
		if err != nil {
			span.RecordError(err)
			s.logger.Error().Err(err).Str("pass", name).Msg("instructor sync pass failed")
			return &PartialSyncError{CompletedPasses: completed, FailedPass: name, Err: err}
		}

		span.SetAttributes(attribute.Int64("courses_updated", affected))
		observability.InstructorSyncPasses().WithLabelValues(name).Inc()
		total += affected
		completed = append(completed, name)
		return nil
	}

	if err := runPass("by_instructor_id", func(ctx context.Context) (int64, error) {
		return s.courses.UpdateInstructorNameByID(ctx, instructorID, newName)
	}); err != nil {
		return total, err
	}

	if oldName != newName {
		if err := runPass("by_previous_name", func(ctx context.Context) (int64, error) {
			return s.courses.UpdateInstructorNameByName(ctx, oldName, newName, instructorID)
		}); err != nil {
			return total, err
		}
	}

	if profileOldName != "" && profileOldName != oldName && profileOldName != newName {
		if err := runPass("by_profile_name", func(ctx context.Context) (int64, error) {
			return s.courses.UpdateInstructorNameByName(ctx, profileOldName, newName, instructorID)
		}); err != nil {
			return total, err
		}
	}

	return total, nil
}
