package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociogram/internal/domain/entity"
	apperrors "sociogram/pkg/errors"
)

type memoryTokenRepo struct{ revoked map[string]bool }

func (r *memoryTokenRepo) Revoke(_ context.Context, token *entity.RevokedToken) error {
	r.revoked[token.JTI] = true
	return nil
}

func (r *memoryTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}

type singleUserRepo struct{ user *entity.User }

func (r *singleUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}

func newService(user *entity.User) (*TokenService, *memoryTokenRepo) {
	tokenRepo := &memoryTokenRepo{revoked: map[string]bool{}}
	return NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour, tokenRepo, &singleUserRepo{user}), tokenRepo
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	user := &entity.User{ID: "u1"}
	svc, _ := newService(user)

	creds, err := svc.IssueCredentials("u1")
	require.NoError(t, err)
	require.NotEqual(t, creds.AccessToken, creds.RefreshToken)

	verified, err := svc.Verify(context.Background(), creds.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", verified.User.ID)
	assert.NotEmpty(t, verified.JTI)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	svc, _ := newService(&entity.User{ID: "u1"})
	creds, err := svc.IssueCredentials("u1")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), creds.RefreshToken, TokenKindAccess)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
	_, err = svc.Verify(context.Background(), creds.AccessToken, TokenKindRefresh)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestVerifyRejectsRevokedJTI(t *testing.T) {
	svc, _ := newService(&entity.User{ID: "u1"})
	creds, err := svc.IssueCredentials("u1")
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), creds.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), verified))

	_, err = svc.Verify(context.Background(), creds.AccessToken, TokenKindAccess)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestVerifyRejectsTokensIssuedBeforeCredentialsChange(t *testing.T) {
	user := &entity.User{ID: "u1"}
	svc, _ := newService(user)
	creds, err := svc.IssueCredentials("u1")
	require.NoError(t, err)

	changed := time.Now().Add(time.Minute)
	user.ChangeCredentialsTime = &changed

	_, err = svc.Verify(context.Background(), creds.AccessToken, TokenKindAccess)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestVerifyRejectsUnknownSubject(t *testing.T) {
	svc, _ := newService(nil)
	creds, err := svc.IssueCredentials("ghost")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), creds.AccessToken, TokenKindAccess)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newService(&entity.User{ID: "u1"})
	creds, err := svc.IssueCredentials("u1")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), creds.AccessToken+"x", TokenKindAccess)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}
