package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
)

// AuthConfig holds the operator-provisioned admin secrets. Any of them may be
// empty; that is reported per call as ErrServerMisconfigured.
type AuthConfig struct {
	Username string
	Password string
	// PasswordHash is a bcrypt hash. When set it takes precedence over Password.
	PasswordHash  string
	SigningSecret string
}

type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements the admin login and the session gate.
type AuthService struct {
	cfg     AuthConfig
	revoked ports.RevocationStore
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewAuthService builds the service. revoked may be nil, in which case logout
// only clears the client cookie and tokens live until they expire.
func NewAuthService(cfg AuthConfig, revoked ports.RevocationStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:     cfg,
		revoked: revoked,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Session, string, error) {
	if !s.configured() {
		s.log.Error().Msg("admin login unavailable: credentials or session secret not provisioned")
		return domain.Session{}, "", domain.ErrServerMisconfigured
	}

	if username == "" || password == "" || !s.matches(username, password) {
		s.log.Warn().Msg("admin login rejected")
		return domain.Session{}, "", domain.ErrInvalidCredentials
	}

	session := domain.NewSession(s.newID(), username, s.now())
	token, err := s.sign(session)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign admin session")
		return domain.Session{}, "", fmt.Errorf("sign session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("admin session issued")

	return session, token, nil
}

func (s *AuthService) Authorize(ctx context.Context, token string) (domain.Session, bool) {
	if token == "" || s.cfg.SigningSecret == "" {
		return domain.Session{}, false
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.SigningSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		s.log.Debug().Err(err).Msg("session token rejected")
		return domain.Session{}, false
	}
	if claims.Role != domain.RoleAdmin || claims.Subject != domain.AdminSubjectID || claims.IssuedAt == nil {
		s.log.Debug().Str("role", claims.Role).Msg("session token has unexpected claims")
		return domain.Session{}, false
	}

	session := domain.Session{
		ID:          claims.ID,
		SubjectID:   claims.Subject,
		DisplayName: claims.Name,
		Role:        claims.Role,
		IssuedAt:    claims.IssuedAt.Time.UTC(),
		ExpiresAt:   claims.ExpiresAt.Time.UTC(),
	}
	if session.IsExpired(s.now()) {
		return domain.Session{}, false
	}

	if s.revoked != nil && session.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, session.ID)
		if err != nil {
			// Fail closed.
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("revocation lookup failed")
			return domain.Session{}, false
		}
		if revoked {
			return domain.Session{}, false
		}
	}

	return session, true
}

func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if s.revoked == nil || session.ID == "" {
		s.log.Info().Str("session_id", session.ID).Msg("admin logged out; token expires naturally")
		return nil
	}
	if err := s.revoked.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
		s.log.Error().Err(err).Str("session_id", session.ID).Msg("failed to revoke session")
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.Info().Str("session_id", session.ID).Msg("admin session revoked")
	return nil
}

func (s *AuthService) configured() bool {
	return s.cfg.Username != "" &&
		(s.cfg.Password != "" || s.cfg.PasswordHash != "") &&
		s.cfg.SigningSecret != ""
}

// matches compares both values without short-circuiting so the response time
// does not reveal which one was wrong.
func (s *AuthService) matches(username, password string) bool {
	userOK := constantTimeEqual(username, s.cfg.Username)

	var passOK bool
	if s.cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = constantTimeEqual(password, s.cfg.Password)
	}

	return userOK && passOK
}

func (s *AuthService) sign(session domain.Session) (string, error) {
	claims := sessionClaims{
		Name: session.DisplayName,
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.SubjectID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.SigningSecret))
}

// constantTimeEqual hashes first so that differing lengths take the same path.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
