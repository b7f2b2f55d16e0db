package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a post is not found by id or slug.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when a user account is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptySlug is returned when a post lookup is attempted with an empty slug.
	ErrEmptySlug = errors.New("empty slug")
	// ErrEmptySearch is returned when a search is attempted with an empty phrase.
	ErrEmptySearch = errors.New("empty search phrase")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrPostNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "POST_NOT_FOUND")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrEmptySlug:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_SLUG")
	case ErrEmptySearch:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_SEARCH")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
