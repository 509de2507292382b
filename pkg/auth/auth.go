// Package auth issues and verifies bearer tokens of MindGarden API.
//
// Tokens are JWT signed with HS256. "sub" is the user id and "role" is the role of the user.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
	"github.com/mindgarden/consultation/pkg/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims

	Role domain.Role `json:"role"`
}

type Issuer interface {
	Issue(domain.Caller) (string, error)
}

type Verifier interface {
	Verify(token string) (domain.Caller, error)
}

type Authority struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ Issuer = &Authority{}
var _ Verifier = &Authority{}

type Option func(*Authority) *Authority

// WithClock replaces the clock used for "iat", "exp" and verification.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) *Authority {
		a.now = now
		return a
	}
}

func New(key []byte, issuer string, ttl time.Duration, options ...Option) *Authority {
	a := &Authority{key: key, issuer: issuer, ttl: ttl, now: time.Now}
	for _, o := range options {
		a = o(a)
	}
	return a
}

func (a *Authority) Issue(caller domain.Caller) (string, error) {
	if _, err := domain.AsRole(string(caller.Role)); err != nil {
		return "", err
	}

	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   caller.UserId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Role: caller.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

func (a *Authority) Verify(token string) (domain.Caller, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) { return a.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: sub is not a user id: %q", ErrInvalidToken, claims.Subject)
	}
	role, err := domain.AsRole(string(claims.Role))
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return domain.Caller{UserId: domain.UserId(id), Role: role}, nil
}

const callerKey = "mindgarden/caller"

// Middleware verifies "Authorization: Bearer ..." header and sets the Caller into echo.Context.
//
// Requests without valid token are responded with 401.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return apierr.Unauthorized(`"Authorization: Bearer TOKEN" header is required`, nil)
			}

			caller, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				return apierr.Unauthorized("token is invalid or expired. get a new one.", err)
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// CallerOf returns the Caller set by Middleware.
func CallerOf(c echo.Context) (domain.Caller, bool) {
	caller, ok := c.Get(callerKey).(domain.Caller)
	return caller, ok
}

// WithCaller sets the caller into c, as Middleware does.
func WithCaller(c echo.Context, caller domain.Caller) echo.Context {
	c.Set(callerKey, caller)
	return c
}
