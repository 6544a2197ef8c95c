package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-minutes/errors"
)

// OwnerIDKey is the echo context key carrying the resolved owner id
const OwnerIDKey = "owner_id"

// Resolver resolves a request to the id of the user it acts for. Two
// strategies exist: session tokens for browser traffic, and a trusted
// X-User-Id header for service-to-service mode.
type Resolver interface {
	ResolveOwner(c echo.Context) (int64, error)
}

// SessionValidator validates a session token and returns the owner id.
// Implemented by the auth use case.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (int64, error)
}

// TokenResolver resolves identity from a bearer token or session cookie
type TokenResolver struct {
	sessions SessionValidator
}

// NewTokenResolver creates a token-based resolver
func NewTokenResolver(sessions SessionValidator) *TokenResolver {
	return &TokenResolver{sessions: sessions}
}

// ResolveOwner implements Resolver
func (r *TokenResolver) ResolveOwner(c echo.Context) (int64, error) {
	token := extractToken(c)
	if token == "" {
		return 0, errors.ErrUnauthenticated()
	}
	ownerID, err := r.sessions.ValidateSession(c.Request().Context(), token)
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// HeaderResolver resolves identity from the X-User-Id header or the
// user_id form value. Intended for deployments where an upstream
// gateway has already authenticated the caller.
type HeaderResolver struct{}

// NewHeaderResolver creates a header-based resolver
func NewHeaderResolver() *HeaderResolver {
	return &HeaderResolver{}
}

// ResolveOwner implements Resolver
func (r *HeaderResolver) ResolveOwner(c echo.Context) (int64, error) {
	raw := c.Request().Header.Get("X-User-Id")
	if raw == "" {
		raw = c.FormValue("user_id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrUnauthenticated()
	}
	return id, nil
}

// EchoIdentity returns an Echo middleware that resolves the caller's
// owner id via the given strategy and stores it in the request context
func EchoIdentity(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID, err := resolver.ResolveOwner(c)
			if err != nil {
				return err
			}
			c.Set(OwnerIDKey, ownerID)
			return next(c)
		}
	}
}

// OwnerFromContext retrieves the resolved owner id set by EchoIdentity
func OwnerFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(OwnerIDKey).(int64)
	return id, ok && id > 0
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
