package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/domain"
	tokenrepo "shopfront/internal/repository/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type tokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	refresh    tokenrepo.Repository
	now        func() time.Time
}

func newTokenManager(opts Options, refresh tokenrepo.Repository) *tokenManager {
	return &tokenManager{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		refresh:    refresh,
		now:        time.Now,
	}
}

func (m *tokenManager) IssueAccess(u domain.User) (string, error) {
	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	})
	return tok.SignedString(m.secret)
}

func (m *tokenManager) Verify(raw string) (domain.Identity, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return domain.Identity{}, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return domain.Identity{UserID: claims.UserID, Role: role}, nil
}

func (m *tokenManager) IssueRefresh(ctx context.Context, userID string) (string, error) {
	expiresAt := m.now().Add(m.refreshTTL)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.refresh.Create(ctx, tokenrepo.RefreshToken{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Consume validates a refresh token and deletes it so it cannot be replayed.
func (m *tokenManager) Consume(ctx context.Context, token string) (string, error) {
	meta, err := m.refresh.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if err := m.refresh.Delete(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// a concurrent refresh won the race
			return "", ErrInvalidToken
		}
		return "", err
	}
	if m.now().After(meta.ExpiresAt) {
		return "", ErrInvalidToken
	}
	return meta.UserID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
