package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/mindgarden/consultation/pkg/auth"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("it verifies tokens issued by itself", func(t *testing.T) {
		testee := auth.New([]byte("secret"), "mg", time.Hour, auth.WithClock(clock))
		for _, caller := range []domain.Caller{
			{UserId: 1, Role: domain.Admin},
			{UserId: 20, Role: domain.Consultant},
			{UserId: 300, Role: domain.Client},
		} {
			token := try.To(testee.Issue(caller)).OrFatal(t)
			actual := try.To(testee.Verify(token)).OrFatal(t)
			if actual != caller {
				t.Errorf("(actual, expected) = (%+v, %+v)", actual, caller)
			}
		}
	})

	t.Run("it does not issue tokens for unknown roles", func(t *testing.T) {
		testee := auth.New([]byte("secret"), "mg", time.Hour)
		if _, err := testee.Issue(domain.Caller{UserId: 1, Role: "GUEST"}); err == nil {
			t.Error("expected error, but not")
		}
	})

	type when struct {
		issuer *auth.Authority
	}
	for name, w := range map[string]when{
		"signed with another key": {
			issuer: auth.New([]byte("another"), "mg", time.Hour, auth.WithClock(clock)),
		},
		"issued by another issuer": {
			issuer: auth.New([]byte("secret"), "someone", time.Hour, auth.WithClock(clock)),
		},
		"expired": {
			issuer: auth.New(
				[]byte("secret"), "mg", time.Hour,
				auth.WithClock(func() time.Time { return now.Add(-2 * time.Hour) }),
			),
		},
	} {
		t.Run("it rejects tokens "+name, func(t *testing.T) {
			testee := auth.New([]byte("secret"), "mg", time.Hour, auth.WithClock(clock))
			token := try.To(w.issuer.Issue(domain.Caller{UserId: 1, Role: domain.Admin})).OrFatal(t)

			_, err := testee.Verify(token)
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("it rejects tokens with non-numeric subject", func(t *testing.T) {
		token := try.To(jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "mg",
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Role: domain.Client,
		}).SignedString([]byte("secret"))).OrFatal(t)

		testee := auth.New([]byte("secret"), "mg", time.Hour, auth.WithClock(clock))
		if _, err := testee.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestMiddleware(t *testing.T) {
	testee := auth.New([]byte("secret"), "mg", time.Hour)
	token := try.To(testee.Issue(domain.Caller{UserId: 7, Role: domain.Consultant})).OrFatal(t)

	type when struct {
		header string
	}
	type then struct {
		status int
		caller *domain.Caller
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			e := echo.New()
			var seen *domain.Caller
			e.GET("/", func(c echo.Context) error {
				if caller, ok := auth.CallerOf(c); ok {
					seen = &caller
				}
				return c.NoContent(http.StatusOK)
			}, auth.Middleware(testee))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if when.header != "" {
				req.Header.Set(echo.HeaderAuthorization, when.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != then.status {
				t.Errorf("status: (actual, expected) = (%d, %d)", rec.Code, then.status)
			}
			if (seen == nil) != (then.caller == nil) || (seen != nil && *seen != *then.caller) {
				t.Errorf("caller: (actual, expected) = (%v, %v)", seen, then.caller)
			}
		}
	}

	t.Run("it passes requests with valid token", theory(
		when{header: "Bearer " + token},
		then{status: http.StatusOK, caller: &domain.Caller{UserId: 7, Role: domain.Consultant}},
	))

	t.Run("scheme is case-insensitive", theory(
		when{header: "bearer " + token},
		then{status: http.StatusOK, caller: &domain.Caller{UserId: 7, Role: domain.Consultant}},
	))

	t.Run("it rejects requests without token", theory(
		when{},
		then{status: http.StatusUnauthorized},
	))

	t.Run("it rejects requests with basic auth", theory(
		when{header: "Basic dXNlcjpwYXNz"},
		then{status: http.StatusUnauthorized},
	))

	t.Run("it rejects requests with broken token", theory(
		when{header: "Bearer not.a.token"},
		then{status: http.StatusUnauthorized},
	))
}
