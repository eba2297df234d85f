package echo

import (
	"time"

	"github.com/labstack/echo/v4"
)

// CustomContext carries per request values between the web middlewares and handlers.
type CustomContext struct {
	echo.Context

	reqBody     []byte
	resBody     string
	reqDuration time.Time
	rpcFailed   bool
}

func (c *CustomContext) SetReqBody(reqBody []byte) {
	c.reqBody = reqBody
}

func (c *CustomContext) GetReqBody() string {
	return string(c.reqBody)
}

func (c *CustomContext) SetResBody(resBody string) {
	c.resBody = resBody
}

func (c *CustomContext) GetResBody() string {
	return c.resBody
}

func (c *CustomContext) SetReqDuration(reqDuration time.Time) {
	c.reqDuration = reqDuration
}

func (c *CustomContext) GetReqDuration() time.Time {
	return c.reqDuration
}

func (c *CustomContext) SetRpcFailed(rpcFailed bool) {
	c.rpcFailed = rpcFailed
}

func (c *CustomContext) GetRpcFailed() bool {
	return c.rpcFailed
}

// MarkRpcFailed flags the request when c was wrapped by InitHandlersStart.
func MarkRpcFailed(c echo.Context) {
	if cc, ok := c.(*CustomContext); ok {
		cc.SetRpcFailed(true)
	}
}
