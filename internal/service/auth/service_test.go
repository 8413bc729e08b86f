package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shopfront/internal/domain"
	tokenrepo "shopfront/internal/repository/token"

	"github.com/golang-jwt/jwt/v5"
)

// memoryRepo is a lightweight in-memory user repository for tests.
type memoryRepo struct {
	byEmail map[string]domain.User
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.RefreshToken
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]domain.User)}
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.RefreshToken)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.RefreshToken) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := u
	if clone.ID == "" {
		clone.ID = "user-" + key
	}
	r.byEmail[key] = clone
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[strings.ToLower(email)]; ok {
		clone := u
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func testOptions() Options {
	return Options{
		Secret:     "test-secret",
		Issuer:     "shopfront-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func newTestService() (*Service, *memoryTokenRepo) {
	tokens := newMemoryTokenRepo()
	return New(newMemoryRepo(), tokens, testOptions(), nil), tokens
}

func register(t *testing.T, svc *Service, email, role string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "Abcdefg1",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc, "Seller@Example.com", "seller")

	if u.Email != "seller@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Role != domain.RoleSeller {
		t.Fatalf("expected seller role, got %q", u.Role)
	}
	if u.PasswordHash == "" || u.PasswordHash == "Abcdefg1" {
		t.Fatalf("password stored in plaintext or missing: %q", u.PasswordHash)
	}
}

func TestRegister_DuplicateEmailFails(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "dup@example.com", "buyer")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "DUP@example.com",
		Password: "Abcdefg1",
		Role:     "seller",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "Abcdefg1", Role: "buyer"}},
		{"bad email", RegisterInput{Name: "A", Email: "nope", Password: "Abcdefg1", Role: "buyer"}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@example.com", Password: "Abcdefg1", Role: "admin"}},
		{"weak password", RegisterInput{Name: "A", Email: "a@example.com", Password: "abc", Role: "buyer"}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestValidatePassword_FailsOnWeakValues(t *testing.T) {
	cases := []struct {
		name string
		pass string
	}{
		{"too short", "Abc1"},
		{"no upper", "abcdefg1"},
		{"no lower", "ABCDEFG1"},
		{"no digit", "Abcdefgh"},
	}
	for _, tc := range cases {
		if err := validatePassword(tc.pass, 8); err == nil {
			t.Fatalf("expected error for case %s", tc.name)
		}
	}
}

func TestLogin_TokenDecodesToIdentity(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc, "buyer@example.com", "buyer")

	session, err := svc.Login(context.Background(), "buyer@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatalf("expected tokens, got %+v", session)
	}
	if session.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s lifetime, got %d", session.ExpiresIn)
	}

	id, err := svc.Authenticate(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.UserID != u.ID || id.Role != domain.RoleBuyer {
		t.Fatalf("identity mismatch: %+v vs user %+v", id, u)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "user@example.com", "buyer")

	if _, err := svc.Login(context.Background(), "user@example.com", "wrongpass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "missing@example.com", "Abcdefg1"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for missing user, got %v", err)
	}
}

func TestLogin_PasswordIsNotTrimmed(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Spacey",
		Email:    "spacey@example.com",
		Password: "  Abcdefg1 ",
		Role:     "buyer",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "spacey@example.com", "Abcdefg1"); err != ErrInvalidCredentials {
		t.Fatalf("expected trimmed password to be rejected, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "spacey@example.com", "  Abcdefg1 "); err != nil {
		t.Fatalf("expected exact password to log in, got %v", err)
	}
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc, "user@example.com", "seller")

	forged := New(newMemoryRepo(), newMemoryTokenRepo(), Options{
		Secret:     "other-secret",
		Issuer:     "shopfront-test",
		AccessTTL:  time.Hour,
		RefreshTTL: time.Hour,
	}, nil)
	forgedToken, err := forged.tokens.IssueAccess(*u)
	if err != nil {
		t.Fatalf("issue forged: %v", err)
	}

	expiredMgr := newTokenManager(testOptions(), newMemoryTokenRepo())
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expiredMgr.IssueAccess(*u)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, accessClaims{
		UserID: u.ID,
		Role:   "seller",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shopfront-test",
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("issue unsigned: %v", err)
	}

	for name, tok := range map[string]string{
		"empty":     "",
		"malformed": "not-a-jwt",
		"forged":    forgedToken,
		"expired":   expiredToken,
		"unsigned":  noneToken,
	} {
		if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, tokens := newTestService()
	register(t, svc, "user@example.com", "buyer")

	session, err := svc.Login(context.Background(), "user@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	next, err := svc.Refresh(context.Background(), session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == session.RefreshToken {
		t.Fatalf("expected rotated refresh token")
	}
	if _, ok := tokens.tokens[session.RefreshToken]; ok {
		t.Fatalf("old refresh token still stored")
	}
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected replayed refresh to fail, got %v", err)
	}
}

func TestRefresh_Expired(t *testing.T) {
	svc, tokens := newTestService()
	u := register(t, svc, "user@example.com", "buyer")

	tokens.tokens["stale"] = tokenrepo.RefreshToken{
		Token:     "stale",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if _, err := svc.Refresh(context.Background(), "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tokens.tokens["stale"]; ok {
		t.Fatalf("expired token should be deleted")
	}
}
