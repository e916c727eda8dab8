package response

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	apperrors "sociogram/pkg/errors"
	"sociogram/pkg/logger"
)

// Body is the envelope every endpoint answers with. Stack and
// ValidationErrors only appear on failures, and Stack only outside
// production.
type Body struct {
	Message          string                 `json:"message"`
	Data             interface{}            `json:"data,omitempty"`
	Stack            string                 `json:"stack,omitempty"`
	ValidationErrors []apperrors.FieldError `json:"validationErrors,omitempty"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Body{Message: "Done", Data: data})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Body{Message: "Done", Data: data})
}

func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, Body{Message: message})
}

func Error(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body := Body{
			Message:          appErr.Message,
			ValidationErrors: appErr.FieldErrors,
		}
		if !isProduction() && appErr.Err != nil {
			body.Stack = appErr.Err.Error()
		}
		return c.JSON(appErr.Status, body)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		body := Body{Message: http.StatusText(httpErr.Code)}
		if msg, ok := httpErr.Message.(string); ok {
			body.Message = msg
		}
		return c.JSON(httpErr.Code, body)
	}

	body := Body{Message: "An unexpected error occurred"}
	if !isProduction() {
		body.Stack = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}

// ErrorHandler is the global echo handler for anything a handler did not
// translate itself (bind failures, panics surfaced by Recover, unknown routes).
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	logger.Error("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	if writeErr := Error(c, err); writeErr != nil {
		logger.Error("failed to write error response: %v", writeErr)
	}
}

func isProduction() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}
