package echo

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log2 "github.com/labstack/gommon/log"

	"solana-course/internal/pkg/log"
)

const (
	apiReadTimeout  = 5 * time.Second
	apiWriteTimeout = 30 * time.Second

	rateLimit = 20 // req per second
)

func InitHandlersStart(router *echo.Echo) {
	router.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc:    LogPanic,
	}))
	router.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&CustomContext{
				Context: c,
			})
		}
	})
	// the deadline travels in the request context, so the response writer stays the real one
	router.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: apiWriteTimeout,
	}))

	// general rate limit
	router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rateLimit)))
}

func SetupServer(router *echo.Echo) {
	router.HideBanner = true
	router.HidePort = true
	router.Server.ReadTimeout = apiReadTimeout
	router.Server.WriteTimeout = apiWriteTimeout + 2*time.Second // must be greater than apiWriteTimeout, which used for context timeout middleware
	router.Logger.SetLevel(log2.OFF)
}

func LogPanic(c echo.Context, err error, stack []byte) error {
	log.Logger.Web.Errorf("PANIC RECOVER: %s %s", err, strconv.Quote(string(stack)))
	return err
}
