package middlewares

import (
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	echo2 "solana-course/internal/pkg/util/echo"
)

const (
	bodyLimit = 1000
)

// NewBodyDumpMiddleware keeps truncated bodies for the logger. Routes under skipPrefix (binary payloads) are not dumped.
func NewBodyDumpMiddleware(skipPrefix string) echo.MiddlewareFunc {
	return middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return skipPrefix != "" && strings.HasPrefix(c.Path(), skipPrefix)
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			cc, ok := c.(*echo2.CustomContext)
			if !ok {
				return
			}

			if len(reqBody) > bodyLimit {
				reqBody = reqBody[:bodyLimit]
			}
			if len(resBody) > bodyLimit {
				resBody = resBody[:bodyLimit]
			}

			cc.SetReqBody([]byte(strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return r
			}, string(reqBody))))
			if isText(c.Response().Header().Get(echo.HeaderContentType)) {
				cc.SetResBody(strings.TrimSpace(string(resBody)))
			}
		},
	})
}

func isText(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON) ||
		strings.HasPrefix(contentType, "text/")
}
