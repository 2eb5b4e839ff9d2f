package ports

import (
	"context"
	"time"

	"github.com/nexiot/site-backend/internal/core/domain"
)

// AuthService issues and verifies admin sessions.
type AuthService interface {
	// Authenticate checks the submitted credentials against the provisioned
	// admin secrets and returns a new session with its signed token.
	Authenticate(ctx context.Context, username, password string) (domain.Session, string, error)
	// Authorize is the single authoritative gate for admin access.
	Authorize(ctx context.Context, token string) (domain.Session, bool)
	// Logout ends the session before its natural expiry.
	Logout(ctx context.Context, session domain.Session) error
}

// RevocationStore remembers token ids that were logged out before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
