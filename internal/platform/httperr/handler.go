package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EchoHandler returns the central echo error handler. Every error surfaces as
// a JSON body with a "message" key. Unclassified errors become 500s; their
// detail is exposed only in development mode.
func EchoHandler(logger zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *Error
		if errors.As(err, &appErr) {
			_ = c.JSON(appErr.Status(), echo.Map{"message": appErr.Message})
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			switch msg := httpErr.Message.(type) {
			case string:
				_ = c.JSON(httpErr.Code, echo.Map{"message": msg})
			case echo.Map:
				_ = c.JSON(httpErr.Code, msg)
			case map[string]interface{}:
				_ = c.JSON(httpErr.Code, msg)
			default:
				_ = c.JSON(httpErr.Code, echo.Map{"message": http.StatusText(httpErr.Code)})
			}
			return
		}

		rid, _ := c.Get("request_id").(string)
		logger.Error().
			Err(err).
			Str("request_id", rid).
			Str("path", c.Request().URL.Path).
			Msg("unhandled error")

		detail := "Internal Server Error"
		if dev {
			detail = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Something went wrong!",
			"error":   detail,
		})
	}
}

// NotFoundHandler handles requests that match no registered route.
func NotFoundHandler(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Route not found"})
}
