package domain

import "time"

const (
	RoleAdmin = "admin"

	// AdminSubjectID identifies the single shared admin principal.
	AdminSubjectID = "1"

	// SessionTTL is the fixed validity window of an admin session. There is no
	// refresh; a new session requires a fresh login.
	SessionTTL = time.Hour
)

// Session is a time-bounded proof of the admin identity. It only ever lives
// inside a signed token.
type Session struct {
	ID          string    `json:"-"`
	SubjectID   string    `json:"subject_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewSession builds an admin session issued at now.
func NewSession(id, displayName string, now time.Time) Session {
	issued := now.UTC().Truncate(time.Second)
	return Session{
		ID:          id,
		SubjectID:   AdminSubjectID,
		DisplayName: displayName,
		Role:        RoleAdmin,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(SessionTTL),
	}
}

// IsExpired reports whether now is at or past IssuedAt + SessionTTL.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.IssuedAt.Add(SessionTTL))
}

// Hint returns the client-side mirror of the session. It drives UI gating
// only and is never trusted for access decisions.
func (s Session) Hint() SessionHint {
	return SessionHint{
		DisplayName: s.DisplayName,
		Role:        s.Role,
		ExpiresAt:   s.ExpiresAt,
	}
}

// SessionHint is the non-authoritative descriptor handed to the browser.
type SessionHint struct {
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}
