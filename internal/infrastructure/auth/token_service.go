package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/pkg/errors"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}

// Credentials is the access/refresh pair handed out on login.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// VerifiedToken is the result of a successful verification: the decoded
// claims plus the live user record they resolve to.
type VerifiedToken struct {
	User      *entity.User
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserLookup resolves a token subject to a live account.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// TokenService issues and verifies the JWT credentials used by both the
// HTTP middleware and the realtime gateway handshake. Verification checks
// signature, expiry, the revoked-JTI store, and the user's last
// credentials change.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	tokenRepo     repository.TokenRepository
	users         UserLookup
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, tokenRepo repository.TokenRepository, users UserLookup) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		tokenRepo:     tokenRepo,
		users:         users,
	}
}

func (s *TokenService) IssueCredentials(userID string) (*Credentials, error) {
	access, err := s.sign(userID, TokenKindAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, errors.Internal("Failed to issue access token", err)
	}
	refresh, err := s.sign(userID, TokenKindRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, errors.Internal("Failed to issue refresh token", err)
	}
	return &Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(userID string, kind TokenKind, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) Verify(ctx context.Context, tokenString string, kind TokenKind) (*VerifiedToken, error) {
	secret := s.accessSecret
	if kind == TokenKindRefresh {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("Unexpected signing method", nil)
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if claims.Kind != kind {
		return nil, errors.Unauthorized("Wrong token type", nil)
	}

	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errors.Internal("Failed to check token revocation", err)
	}
	if revoked {
		return nil, errors.Unauthorized("Token has been revoked", nil)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, errors.Internal("Failed to load token subject", err)
	}
	if user == nil {
		return nil, errors.Unauthorized("Account no longer exists", nil)
	}
	if user.ChangeCredentialsTime != nil && claims.IssuedAt != nil &&
		user.ChangeCredentialsTime.After(claims.IssuedAt.Time) {
		return nil, errors.Unauthorized("Credentials have changed, please login again", nil)
	}

	return &VerifiedToken{
		User:      user,
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blacklists a single JTI until its natural expiry.
func (s *TokenService) Revoke(ctx context.Context, verified *VerifiedToken) error {
	return s.tokenRepo.Revoke(ctx, &entity.RevokedToken{
		JTI:       verified.JTI,
		UserID:    verified.User.ID,
		ExpiresAt: verified.ExpiresAt,
	})
}
