package echoutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const HeaderRequestId = "X-Request-Id"

// RequestId takes request id from the request header, or issues a new one.
//
// The id is echoed back in the response header.
func RequestId(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestId)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestId, id)
		c.Response().Header().Set(HeaderRequestId, id)
		return next(c)
	}
}

// RequestIdOf returns request id set by RequestId middleware.
func RequestIdOf(c echo.Context) string {
	id, _ := c.Get(HeaderRequestId).(string)
	return id
}

func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		rid := RequestIdOf(c)
		BEGIN := time.Now()
		c.Logger().Infof(
			"< request [%s] @[%s] %s %s", rid, BEGIN, meth, path,
		)

		var err error

		defer func() {
			END := time.Now()
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			c.Logger().Infof(
				"> response [%s] @[%s] status = %d (for request @[%s] %s %s) in %v / error = %+v",
				rid, END, status, BEGIN, meth, path, END.Sub(BEGIN), err,
			)
		}()

		err = next(c)
		return err
	}
}

// SetLevel sets loglevel of echo's logger.
func SetLevel(e *echo.Echo, lvl log.Lvl) {
	e.Logger.SetLevel(lvl)
}
