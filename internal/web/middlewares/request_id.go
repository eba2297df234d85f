package middlewares

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"solana-course/internal/pkg/log"
)

// RequestID sets a fresh X-Request-ID on the request and the response.
// A client supplied id is dropped so log lines can not be spoofed.
func RequestID() echo.MiddlewareFunc {
	rid := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: generator,
		RequestIDHandler: func(c echo.Context, id string) {
			// the logger middleware reads the id from the request
			c.Request().Header.Set(echo.HeaderXRequestID, id)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := rid(next)
		return func(c echo.Context) error {
			c.Request().Header.Del(echo.HeaderXRequestID)
			return h(c)
		}
	}
}

func generator() string {
	u, err := uuid.NewRandom()
	if err != nil {
		log.Logger.Web.Errorf("uuid.NewRandom: %s", err)
	}

	return u.String()
}
