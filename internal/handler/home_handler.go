package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"myblog/internal/model"
	"myblog/internal/service"
)

// HomeHandler serves the unauthenticated home view data: the author profile
// and the most recent posts.
type HomeHandler struct {
	userService service.UserService
	postService service.PostService
	recentCount int
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(userService service.UserService, postService service.PostService, recentCount int) *HomeHandler {
	return &HomeHandler{userService: userService, postService: postService, recentCount: recentCount}
}

// AuthorInfo is the public slice of the author profile.
type AuthorInfo struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	AboutAuthor     string `json:"about_author"`
	GithubProfile   string `json:"github_profile"`
	LinkedinProfile string `json:"linkedin_profile"`
	ProfilePhoto    string `json:"profile_photo"`
}

// HomeResponse is the home view payload.
type HomeResponse struct {
	Author      AuthorInfo   `json:"author"`
	RecentPosts []model.Post `json:"recent_posts"`
}

// Home godoc
// @Summary Home view: author bio and recent posts
// @Tags home
// @Produce json
// @Success 200 {object} HomeResponse
// @Router /home [get]
func (h *HomeHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.userService.GetAuthor(ctx)
	if err != nil {
		return domainHTTPError(err)
	}

	recent, err := h.postService.ListRecent(ctx, h.recentCount)
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, HomeResponse{
		Author: AuthorInfo{
			FirstName:       author.FirstName,
			LastName:        author.LastName,
			Email:           author.Email,
			AboutAuthor:     author.AboutAuthor,
			GithubProfile:   author.GithubProfile,
			LinkedinProfile: author.LinkedinProfile,
			ProfilePhoto:    author.ProfilePhoto,
		},
		RecentPosts: recent,
	})
}
