package middlewares

import "github.com/labstack/echo/v4"

// Defaults is the chain the web router runs after the common handlers of InitHandlersStart.
func Defaults(bodyDumpSkipPrefix string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestDurationMiddleware(),
		RequestID(),
		NewLoggerMiddleware(),
		NewBodyDumpMiddleware(bodyDumpSkipPrefix),
		NewMetricsMiddleware(),
	}
}
