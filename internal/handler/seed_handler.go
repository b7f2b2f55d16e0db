package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"myblog/internal/config"
	"myblog/internal/model"
	"myblog/internal/repository"
	"myblog/internal/service"
)

// SeedHandler creates the default administrator account on demand. The same
// logic runs at server startup; this endpoint exists for fresh databases
// behind an already running instance.
type SeedHandler struct {
	users repository.UserRepository
	cfg   *config.Config
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(users repository.UserRepository, cfg *config.Config) *SeedHandler {
	return &SeedHandler{users: users, cfg: cfg}
}

// Seed godoc
// @Summary Seed the default author account
// @Tags seed
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /seed [get]
func (h *SeedHandler) Seed(c echo.Context) error {
	author := model.User{
		Email:           h.cfg.DefaultAuthor.Email,
		FirstName:       h.cfg.DefaultAuthor.FirstName,
		LastName:        h.cfg.DefaultAuthor.LastName,
		AboutAuthor:     h.cfg.DefaultAuthor.AboutAuthor,
		GithubProfile:   h.cfg.DefaultAuthor.GithubProfile,
		LinkedinProfile: h.cfg.DefaultAuthor.LinkedinProfile,
	}

	seeded, created, err := service.SeedDefaultAuthor(c.Request().Context(), h.users, author, h.cfg.DefaultAuthor.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "seed failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"created": created,
		"email":   seeded.Email,
	})
}
