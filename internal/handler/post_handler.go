package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"myblog/internal/errors"
	"myblog/internal/model"
	"myblog/internal/service"
)

// PostHandler handles post CRUD and browsing endpoints.
type PostHandler struct {
	postService service.PostService
	userService service.UserService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService, userService service.UserService) *PostHandler {
	return &PostHandler{postService: postService, userService: userService}
}

// PostRequest represents a post create/edit form. Tags is a comma-delimited
// string, matching the form field.
type PostRequest struct {
	Title         string     `json:"title" validate:"required"`
	Content       string     `json:"content"`
	Abstract      string     `json:"abstract"`
	Tags          string     `json:"tags"`
	DatePublished *time.Time `json:"date_published"`
}

func domainHTTPError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post payload"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req PostRequest
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
	author, err := h.userService.GetProfile(c.Request().Context(), callerID)
	if err != nil {
		return domainHTTPError(err)
	}

	post := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		Abstract: req.Abstract,
		Tags:     req.Tags,
		Author:   author.FullName(),
	}
	if req.DatePublished != nil {
		post.DatePublished = *req.DatePublished
	}

	created, err := h.postService.CreatePost(c.Request().Context(), post)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Post payload"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	existing, err := h.postService.GetPost(c.Request().Context(), uint(id))
	if err != nil {
		return domainHTTPError(err)
	}

	existing.Title = req.Title
	existing.Content = req.Content
	existing.Abstract = req.Abstract
	existing.Tags = req.Tags
	if req.DatePublished != nil {
		existing.DatePublished = *req.DatePublished
	}

	updated, err := h.postService.UpdatePost(c.Request().Context(), existing)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.postService.DeletePost(c.Request().Context(), uint(id)); err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted"})
}

// ListPosts godoc
// @Summary List all posts, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// SearchPosts godoc
// @Summary Search posts by content
// @Tags posts
// @Produce json
// @Param q query string true "Search phrase"
// @Success 200 {array} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts/search [get]
func (h *PostHandler) SearchPosts(c echo.Context) error {
	phrase := c.QueryParam("q")
	if phrase == "" {
		// An empty search shows an empty result list, not an error page.
		return c.JSON(http.StatusOK, []model.Post{})
	}

	posts, err := h.postService.SearchPosts(c.Request().Context(), phrase)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// PostsByTag godoc
// @Summary List posts carrying a tag
// @Tags posts
// @Produce json
// @Param tag path string true "Tag"
// @Success 200 {array} model.Post
// @Router /posts/tag/{tag} [get]
func (h *PostHandler) PostsByTag(c echo.Context) error {
	posts, err := h.postService.PostsByTag(c.Request().Context(), c.Param("tag"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a raw post by id, for editing
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/id/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	post, err := h.postService.GetPost(c.Request().Context(), uint(id))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPostBySlug godoc
// @Summary Get a post by slug, rendered for display
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{slug} [get]
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.postService.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}
