package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/weather-advisor/pkg/errors"
)

// HTTPError carries the status and message rendered as {ok:false,message}.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromServiceError maps a weather service failure onto its response. Validation failures are
// the caller's fault; interpretation, retrieval and unclassified failures are ours.
func fromServiceError(err error) *HTTPError {
	status := http.StatusInternalServerError
	if apperrors.IsCode(err, weather.CodeInvalidInput) {
		status = http.StatusBadRequest
	}
	code := apperrors.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	return NewHTTPError(status, code, err.Error(), err)
}

// asHTTPError lets handlers and middleware push plain service errors onto the gin context.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromServiceError(err)
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
