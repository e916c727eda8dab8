package usecase

import (
	"context"
	"io"
	"time"

	"sociogram/internal/infrastructure/auth"
)

// TokenService issues and verifies the access/refresh token pair.
type TokenService interface {
	IssueCredentials(userID string) (*auth.Credentials, error)
	Verify(ctx context.Context, token string, kind auth.TokenKind) (*auth.VerifiedToken, error)
	Revoke(ctx context.Context, verified *auth.VerifiedToken) error
}

// GoogleVerifier validates Google ID tokens for the gmail login flow.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.GoogleAccount, error)
}

// Notifier delivers best-effort user notifications in the background.
type Notifier interface {
	ConfirmEmail(to, otp string)
	ResetPassword(to, otp string)
	Tagged(to, taggerName string)
}

// FileStorage is the object store behind profile images, cover images and
// post attachments.
type FileStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedUpload(ctx context.Context, key string, expiry time.Duration) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Gateway is the realtime fan-out surface of the connection registry.
type Gateway interface {
	IsOnline(userID string) bool
	SendToUser(userID string, frame []byte) bool
	FanOut(userIDs []string, exceptUserID string, frame []byte) int
}
