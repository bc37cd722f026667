package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/service"
	"github.com/noah-isme/lentera-api/internal/utils"
)

// ProfileHandler manages profile updates, including the instructor rename
// cascade.
type ProfileHandler struct {
	service service.InstructorSyncService
	logger  zerolog.Logger
}

// NewProfileHandler builds a profile handler instance.
func NewProfileHandler(service service.InstructorSyncService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Patch("/:id/profile", h.update)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.UpdateProfile(c.Context(), userID, payload)
	if err != nil {
		var partial *service.PartialSyncError
		if errors.As(err, &partial) {
			// The account update itself succeeded and completed passes are
			// durable; the client may simply re-trigger the operation.
			h.logger.Warn().Err(partial).Uint("user_id", userID).Msg("instructor sync incomplete")
			return utils.SendSuccessWithWarning(c, "profile updated", "instructor sync incomplete, retry to finish propagation", result)
		}
		return h.handleError(c, err)
	}

	if result.ProfileWarning != "" {
		return utils.SendSuccessWithWarning(c, "profile updated", result.ProfileWarning, result)
	}

	return utils.SendSuccess(c, "profile updated", result)
}

func (h *ProfileHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
