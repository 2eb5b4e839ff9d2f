package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nexiot/site-backend/internal/api/middleware"
	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
	"github.com/nexiot/site-backend/internal/pkg/metrics"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultSessionCookie
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login verifies the admin credentials and issues a one-hour session.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrMalformedRequest
	}

	session, token, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.AdminLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrServerMisconfigured):
			metrics.AdminLoginsTotal.WithLabelValues("misconfigured").Inc()
		default:
			metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(domain.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Session:   session.Hint(),
	})
}

// SessionCheck reports whether the caller holds a valid admin session.
//
// @Summary      Session check
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionCheckResponse
// @Router       /auth/session-check [get]
func (h *AuthHandler) SessionCheck(c echo.Context) error {
	token := middleware.TokenFromRequest(c, h.cookie.Name)
	session, ok := h.authService.Authorize(c.Request().Context(), token)
	if !ok {
		return c.JSON(http.StatusOK, sessionCheckResponse{Authenticated: false})
	}
	expires := session.ExpiresAt
	return c.JSON(http.StatusOK, sessionCheckResponse{Authenticated: true, ExpiresAt: &expires})
}

// Logout ends the current admin session.
//
// @Summary      Admin logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), session); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Session returns the verified session of the caller.
//
// @Summary      Current admin session
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  messageResponse
// @Router       /admin/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, sessionResponse{
		SubjectID:   session.SubjectID,
		DisplayName: session.DisplayName,
		Role:        session.Role,
		IssuedAt:    session.IssuedAt,
		ExpiresAt:   session.ExpiresAt,
	})
}
