package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexiot/site-backend/internal/core/domain"
)

var discardLogger = zerolog.Nop()

type stubRevocationStore struct {
	revoked   map[string]time.Time
	lookupErr error
	revokeErr error
}

func newStubRevocationStore() *stubRevocationStore {
	return &stubRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *stubRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked[tokenID] = until
	return nil
}

func (s *stubRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestAuthService(cfg AuthConfig, store *stubRevocationStore) *AuthService {
	var svc *AuthService
	if store == nil {
		svc = NewAuthService(cfg, nil, discardLogger)
	} else {
		svc = NewAuthService(cfg, store, discardLogger)
	}
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "session-1" }
	return svc
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Username: "admin", Password: "correct-pass", SigningSecret: "signing-secret"}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), nil)

	session, token, err := svc.Authenticate(context.Background(), "admin", "correct-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", session.Role)
	}
	if session.DisplayName != "admin" {
		t.Fatalf("expected display name echoed, got %q", session.DisplayName)
	}
	if !session.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", session.ExpiresAt)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("signing-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["role"] != "admin" || claims["sub"] != domain.AdminSubjectID || claims["jti"] != "session-1" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Authenticate_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), nil)

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "correct-pass"},
		{"", "correct-pass"},
		{"admin", ""},
	}
	for _, tc := range cases {
		_, token, err := svc.Authenticate(context.Background(), tc.user, tc.pass)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("(%q,%q): expected ErrInvalidCredentials, got %v", tc.user, tc.pass, err)
		}
		if token != "" {
			t.Errorf("(%q,%q): no token expected on failure", tc.user, tc.pass)
		}
	}
}

func TestAuthService_Authenticate_ServerMisconfigured(t *testing.T) {
	cases := []AuthConfig{
		{},
		{Password: "correct-pass", SigningSecret: "s"},
		{Username: "admin", SigningSecret: "s"},
		{Username: "admin", Password: "correct-pass"},
	}
	for i, cfg := range cases {
		svc := newTestAuthService(cfg, nil)
		_, _, err := svc.Authenticate(context.Background(), "admin", "correct-pass")
		if !errors.Is(err, domain.ErrServerMisconfigured) {
			t.Errorf("case %d: expected ErrServerMisconfigured, got %v", i, err)
		}
	}
}

func TestAuthService_Authenticate_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc := newTestAuthService(AuthConfig{Username: "admin", PasswordHash: string(hash), SigningSecret: "s"}, nil)

	if _, _, err := svc.Authenticate(context.Background(), "admin", "hashed-pass"); err != nil {
		t.Fatalf("expected success with bcrypt hash, got %v", err)
	}
	if _, _, err := svc.Authenticate(context.Background(), "admin", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authorize_RoundTrip(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), newStubRevocationStore())
	issued, token, err := svc.Authenticate(context.Background(), "admin", "correct-pass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	session, ok := svc.Authorize(context.Background(), token)
	if !ok {
		t.Fatal("expected fresh token to be allowed")
	}
	if session.ID != issued.ID || session.Role != domain.RoleAdmin || session.DisplayName != "admin" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestAuthService_Authorize_ExpiryBoundary(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), nil)
	_, token, err := svc.Authenticate(context.Background(), "admin", "correct-pass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	svc.now = func() time.Time { return fixedNow.Add(3599 * time.Second) }
	if _, ok := svc.Authorize(context.Background(), token); !ok {
		t.Fatal("expected token to be valid one second before expiry")
	}

	svc.now = func() time.Time { return fixedNow.Add(3600 * time.Second) }
	if _, ok := svc.Authorize(context.Background(), token); ok {
		t.Fatal("expected token to be denied at expiry")
	}
}

func TestAuthService_Authorize_Rejects(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), nil)

	otherSecret := newTestAuthService(AuthConfig{Username: "admin", Password: "correct-pass", SigningSecret: "other"}, nil)
	_, forged, _ := otherSecret.Authenticate(context.Background(), "admin", "correct-pass")

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, sessionClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.AdminSubjectID,
			IssuedAt:  jwt.NewNumericDate(fixedNow),
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}).SignedString([]byte("signing-secret"))

	wrongRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: "editor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.AdminSubjectID,
			IssuedAt:  jwt.NewNumericDate(fixedNow),
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}).SignedString([]byte("signing-secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  domain.AdminSubjectID,
			IssuedAt: jwt.NewNumericDate(fixedNow),
		},
	}).SignedString([]byte("signing-secret"))

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"forged":     forged,
		"wrong alg":  wrongAlg,
		"wrong role": wrongRole,
		"no expiry":  noExpiry,
	}
	for name, token := range cases {
		if _, ok := svc.Authorize(context.Background(), token); ok {
			t.Errorf("%s: expected deny", name)
		}
	}
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	store := newStubRevocationStore()
	svc := newTestAuthService(testAuthConfig(), store)
	_, token, _ := svc.Authenticate(context.Background(), "admin", "correct-pass")

	session, ok := svc.Authorize(context.Background(), token)
	if !ok {
		t.Fatal("expected allow before logout")
	}
	if err := svc.Logout(context.Background(), session); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if until := store.revoked[session.ID]; !until.Equal(session.ExpiresAt) {
		t.Fatalf("expected revocation until %v, got %v", session.ExpiresAt, until)
	}
	if _, ok := svc.Authorize(context.Background(), token); ok {
		t.Fatal("expected deny after logout")
	}
}

func TestAuthService_Logout_StoreError(t *testing.T) {
	store := newStubRevocationStore()
	store.revokeErr = errors.New("redis down")
	svc := newTestAuthService(testAuthConfig(), store)

	err := svc.Logout(context.Background(), domain.NewSession("session-1", "admin", fixedNow))
	if err == nil {
		t.Fatal("expected error when revocation fails")
	}
}

func TestAuthService_Logout_WithoutStore(t *testing.T) {
	svc := newTestAuthService(testAuthConfig(), nil)
	if err := svc.Logout(context.Background(), domain.NewSession("session-1", "admin", fixedNow)); err != nil {
		t.Fatalf("expected nil without a revocation store, got %v", err)
	}
}

func TestAuthService_Authorize_RevocationLookupFailsClosed(t *testing.T) {
	store := newStubRevocationStore()
	svc := newTestAuthService(testAuthConfig(), store)
	_, token, _ := svc.Authenticate(context.Background(), "admin", "correct-pass")

	store.lookupErr = errors.New("redis down")
	if _, ok := svc.Authorize(context.Background(), token); ok {
		t.Fatal("expected deny when revocation lookup fails")
	}
}
