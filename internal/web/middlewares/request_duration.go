package middlewares

import (
	"time"

	"github.com/labstack/echo/v4"

	echo2 "solana-course/internal/pkg/util/echo"
)

func RequestDurationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cc, ok := c.(*echo2.CustomContext); ok {
				cc.SetReqDuration(time.Now())
			}
			return next(c)
		}
	}
}
