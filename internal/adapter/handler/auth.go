package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	authdto "github.com/johnquangdev/meeting-minutes/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/common"
	authuse "github.com/johnquangdev/meeting-minutes/internal/usecase/auth"
	pkgvalidator "github.com/johnquangdev/meeting-minutes/pkg/validator"
)

// Auth handles registration, login and logout
type Auth struct {
	svc    *authuse.Service
	logger *zap.Logger
}

// NewAuth creates the auth handler
func NewAuth(svc *authuse.Service, logger *zap.Logger) *Auth {
	return &Auth{svc: svc, logger: logger}
}

// Register handles POST /api/register
func (h *Auth) Register(c echo.Context) error {
	var req authdto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(pkgvalidator.Describe(err)))
	}

	user, token, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.AuthResponse{
		Success: true,
		User:    user,
		Token:   token,
	})
}

// Login handles POST /api/login
func (h *Auth) Login(c echo.Context) error {
	var req authdto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(pkgvalidator.Describe(err)))
	}

	user, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.AuthResponse{
		Success: true,
		User:    user,
		Token:   token,
	})
}

// Logout handles POST /api/logout. Succeeds even without a valid
// session so the client can always clear its state.
func (h *Auth) Logout(c echo.Context) error {
	token := bearerToken(c)
	if token != "" {
		if err := h.svc.Logout(c.Request().Context(), token); err != nil {
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, common.Envelope{Success: true})
}

func bearerToken(c echo.Context) string {
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
