package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"myblog/internal/service"
)

// ProfileHandler handles author profile endpoints.
type ProfileHandler struct {
	userService service.UserService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(userService service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// UpdateProfileRequest represents the profile edit form. The photo travels
// as an optional multipart file part named "photo".
type UpdateProfileRequest struct {
	FirstName       string `form:"first_name" validate:"required"`
	LastName        string `form:"last_name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	AboutAuthor     string `form:"about_author"`
	GithubProfile   string `form:"github_profile"`
	LinkedinProfile string `form:"linkedin_profile"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	callerID, err := CallerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := h.userService.GetProfile(c.Request().Context(), callerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept mpfd
// @Produce json
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param email formData string true "Email"
// @Param about_author formData string false "Author bio"
// @Param github_profile formData string false "Github link"
// @Param linkedin_profile formData string false "Linkedin link"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	callerID, err := CallerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	update := service.ProfileUpdate{
		UserID:          callerID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		AboutAuthor:     req.AboutAuthor,
		GithubProfile:   req.GithubProfile,
		LinkedinProfile: req.LinkedinProfile,
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read photo upload")
		}
		defer src.Close()
		update.Photo = src
		update.PhotoFilename = fileHeader.Filename
	}

	status := h.userService.UpdateProfile(c.Request().Context(), update)
	return c.JSON(http.StatusOK, StatusResponse{Status: status})
}
