package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// ProfileHandler account profile endpoints.
type ProfileHandler struct {
	uc  *usecase.UserUseCase
	log *logger.Logger
}

// NewProfileHandler builds the handler.
func NewProfileHandler(uc *usecase.UserUseCase, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{uc: uc, log: log}
}

// GetProfileData returns the user and its company profile (null before onboarding).
// GET /api/get-profile-data
func (h *ProfileHandler) GetProfileData(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ProfileData(c.Context(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateUserProfile POST /api/update-user-profile
func (h *ProfileHandler) UpdateUserProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.uc.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.UserProfileResponse{
		Status:  dto.StatusSuccess,
		Message: "Profile updated successfully!",
		User:    user,
	})
}

// ChangePassword POST /api/change-password
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.uc.ChangePassword(c.Context(), userID, in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Status: dto.StatusSuccess, Message: "Password changed successfully!"})
}
