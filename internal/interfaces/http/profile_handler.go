package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/application/usecase"
)

// ProfileHandler perfil del usuario autenticado y ajustes de cuenta.
type ProfileHandler struct {
	profile  *usecase.ProfileUseCase
	settings *usecase.SettingsUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(profile *usecase.ProfileUseCase, settings *usecase.SettingsUseCase) *ProfileHandler {
	return &ProfileHandler{profile: profile, settings: settings}
}

// GetProfile GET /api/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.profile.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.profile.Update(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword PUT /api/profile/password
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.profile.ChangePassword(c.UserContext(), userID, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCompany GET /api/settings/company
func (h *ProfileHandler) GetCompany(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.settings.GetCompanyName(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateCompany PUT /api/settings/company
func (h *ProfileHandler) UpdateCompany(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CompanyNameRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settings.UpdateCompanyName(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPreferences GET /api/settings/preferences
func (h *ProfileHandler) GetPreferences(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.settings.GetPreferences(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePreferences PUT /api/settings/preferences
func (h *ProfileHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settings.UpdatePreferences(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
