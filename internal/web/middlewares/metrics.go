package middlewares

import (
	"github.com/labstack/echo/v4"

	"solana-course/internal/pkg/metrics"
	echo2 "solana-course/internal/pkg/util/echo"
)

// NewMetricsMiddleware counts requests the handlers flagged as failed because of the cluster rpc.
func NewMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			if cc, ok := c.(*echo2.CustomContext); ok && cc.GetRpcFailed() {
				metrics.IncRpcFailedCnt(c.Path())
			}

			return err
		}
	}
}
