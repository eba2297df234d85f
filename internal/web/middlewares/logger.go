package middlewares

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"solana-course/internal/pkg/log"
	echo2 "solana-course/internal/pkg/util/echo"
)

func NewLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogURI:       true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			var (
				reqBody, resBody string
				rpcFailed        bool
				handled          time.Duration
			)
			if cc, ok := c.(*echo2.CustomContext); ok {
				reqBody, resBody, rpcFailed = cc.GetReqBody(), cc.GetResBody(), cc.GetRpcFailed()
				if !cc.GetReqDuration().IsZero() {
					handled = time.Since(cc.GetReqDuration())
				}
			}

			if v.Error != nil || v.Status >= http.StatusBadRequest {
				log.Logger.Web.Errorf("%d %s %s, id: %s, latency: %d, handler: %dms, rpc_failed: %t, error: %v, request_body: %s, response_body: %s, remote_ip: %s, user_agent: %s",
					v.Status, v.Method, v.URI, v.RequestID, v.Latency.Milliseconds(), handled.Milliseconds(), rpcFailed, v.Error, reqBody, resBody, v.RemoteIP, v.UserAgent)
			} else {
				log.Logger.Web.Infof("%d %s %s, id: %s, latency: %d, handler: %dms, request_body: %s, remote_ip: %s, user_agent: %s",
					v.Status, v.Method, v.URI, v.RequestID, v.Latency.Milliseconds(), handled.Milliseconds(), reqBody, v.RemoteIP, v.UserAgent)
			}

			return nil
		},
	})
}
