package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/pkg/metrics"
)

const (
	DefaultSessionCookie = "admin_session"

	sessionKey = "session"
	roleKey    = "role"
)

// Authorizer is the authoritative session verifier.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (domain.Session, bool)
}

// AuthOptions configures where the token is read from and where browsers are
// sent when they are not signed in.
type AuthOptions struct {
	CookieName string
	// LoginPath, when set, is the redirect target for HTML requests without a
	// valid session. API requests and requests for LoginPath itself get 401.
	LoginPath string
}

// Auth verifies the admin session and injects it into the context.
func Auth(authz Authorizer, opts AuthOptions) echo.MiddlewareFunc {
	if opts.CookieName == "" {
		opts.CookieName = DefaultSessionCookie
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c, opts.CookieName)
			session, ok := authz.Authorize(c.Request().Context(), token)
			if !ok {
				metrics.AdminAccessDeniedTotal.Inc()
				if opts.LoginPath != "" && wantsHTML(c.Request()) && c.Request().URL.Path != opts.LoginPath {
					target := opts.LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
					return c.Redirect(http.StatusFound, target)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(sessionKey, session)
			c.Set(roleKey, session.Role)

			return next(c)
		}
	}
}

// TokenFromRequest returns the bearer token, falling back to the session
// cookie. An empty string means no session indicator was presented.
func TokenFromRequest(c echo.Context, cookieName string) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionFrom returns the session injected by Auth.
func SessionFrom(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(sessionKey).(domain.Session)
	return s, ok
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
