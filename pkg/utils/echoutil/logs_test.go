package echoutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/mindgarden/consultation/pkg/utils/echoutil"
)

func TestRequestId(t *testing.T) {
	newServer := func() (*echo.Echo, *string) {
		e := echo.New()
		e.Logger.SetLevel(log.OFF)
		seen := new(string)
		e.Use(echoutil.RequestId, echoutil.LogHandlerFunc)
		e.GET("/", func(c echo.Context) error {
			*seen = echoutil.RequestIdOf(c)
			return c.NoContent(http.StatusNoContent)
		})
		return e, seen
	}

	t.Run("it issues a new id when the request has not", func(t *testing.T) {
		e, seen := newServer()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		got := rec.Header().Get(echoutil.HeaderRequestId)
		if got == "" {
			t.Fatal("request id is not set")
		}
		if got != *seen {
			t.Errorf("handler sees another id: (header, handler) = (%s, %s)", got, *seen)
		}
	})

	t.Run("it echoes the id in the request", func(t *testing.T) {
		e, seen := newServer()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echoutil.HeaderRequestId, "rid-1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if got := rec.Header().Get(echoutil.HeaderRequestId); got != "rid-1" {
			t.Errorf("unexpected id in header: %s", got)
		}
		if *seen != "rid-1" {
			t.Errorf("unexpected id in handler: %s", *seen)
		}
	})
}

func TestSetLevel(t *testing.T) {
	for _, lvl := range []log.Lvl{log.DEBUG, log.INFO, log.WARN, log.ERROR, log.OFF} {
		e := echo.New()
		echoutil.SetLevel(e, lvl)
		if got := e.Logger.Level(); got != lvl {
			t.Errorf("(actual, expected) = (%d, %d)", got, lvl)
		}
	}
}
