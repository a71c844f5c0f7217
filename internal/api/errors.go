package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code, message string, cause error) *APIError {
	err := &APIError{Status: status, Code: code, Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func NewBadRequestError(message string, cause error) *APIError {
	return newError(http.StatusBadRequest, "BAD_REQUEST", message, cause)
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string, cause error) *APIError {
	return newError(http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("validation failed for field: %s", field), cause)
}

func NewNotFoundError(resource string, id string) *APIError {
	return newError(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found: %s", resource, id), nil)
}

func NewConflictError(message string, cause error) *APIError {
	return newError(http.StatusConflict, "CONFLICT", message, cause)
}

// NewBadGatewayError reports a failure of the extraction service or the model.
func NewBadGatewayError(message string, cause error) *APIError {
	return newError(http.StatusBadGateway, "UPSTREAM_ERROR", message, cause)
}

func NewInternalError(message string, cause error) *APIError {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}

// fromDomain maps package sentinel errors to API errors.
func fromDomain(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, store.ErrNotFound):
		return newError(http.StatusNotFound, "NOT_FOUND", "resource not found", err)
	case errors.Is(err, export.ErrNothingToExport):
		return NewConflictError("nothing to export", err)
	}
	return NewInternalError("request failed", err)
}

// NewErrorHandler returns an echo.HTTPErrorHandler writing APIError JSON.
// Details of unexpected errors are only included with showDetails.
func NewErrorHandler(showDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if showDetails {
				apiErr.Details = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}
