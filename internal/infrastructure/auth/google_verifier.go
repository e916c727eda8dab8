package auth

import (
	"context"

	"google.golang.org/api/idtoken"

	"sociogram/pkg/errors"
)

// GoogleAccount is the subset of an ID-token payload the auth flows need.
type GoogleAccount struct {
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

// GoogleVerifier validates Google-issued ID tokens against the configured
// OAuth client IDs.
type GoogleVerifier struct {
	clientIDs []string
}

func NewGoogleVerifier(clientIDs []string) *GoogleVerifier {
	return &GoogleVerifier{clientIDs: clientIDs}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleAccount, error) {
	var payload *idtoken.Payload
	var err error
	for _, audience := range v.clientIDs {
		payload, err = idtoken.Validate(ctx, rawToken, audience)
		if err == nil {
			break
		}
	}
	if payload == nil {
		return nil, errors.BadRequest("Failed to verify this google account", err)
	}

	verified, _ := payload.Claims["email_verified"].(bool)
	if !verified {
		return nil, errors.BadRequest("Failed to verify this google account", nil)
	}

	account := &GoogleAccount{}
	account.Email, _ = payload.Claims["email"].(string)
	account.GivenName, _ = payload.Claims["given_name"].(string)
	account.FamilyName, _ = payload.Claims["family_name"].(string)
	account.Picture, _ = payload.Claims["picture"].(string)
	return account, nil
}
