package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"truckhub/pkg/errors"
	"truckhub/pkg/response"
)

const ContextUserID = "uid"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUserID, uid)
		return next(c)
	}
}

// Identify verifies the bearer token without rejecting the request.
func (m *AuthMiddleware) Identify(c echo.Context) (string, bool) {
	idToken, err := bearerToken(c)
	if err != nil {
		return "", false
	}

	uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
	if err != nil {
		return "", false
	}
	return uid, true
}

// AuthenticateQuery also accepts the token as ?token=, which browsers need
// for websocket upgrades.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			if token := c.QueryParam("token"); token != "" {
				c.Request().Header.Set("Authorization", "Bearer "+token)
			}
		}
		return m.Authenticate(next)(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}

	return strings.TrimSpace(parts[1]), nil
}

// UserID returns the authenticated seller id, or "" when unauthenticated.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextUserID).(string)
	return uid
}
