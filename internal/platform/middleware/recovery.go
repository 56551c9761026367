package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// PanicResponse is the body sent when a handler panics. RequestID matches the
// X-Request-ID header and the request_id field of the log line.
type PanicResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery turns a panicking handler into a 500 and logs the panic with the
// route and stack. http.ErrAbortHandler is re-raised so net/http still aborts
// the response.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if e, ok := r.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(r)
				}

				rid, _ := c.Get(RequestIDKey).(string)
				logger.Error().
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("route", c.Path()).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")

				err = &echo.HTTPError{
					Code:    http.StatusInternalServerError,
					Message: PanicResponse{Message: "internal server error", RequestID: rid},
				}
			}()
			return next(c)
		}
	}
}
