package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"sociogram/internal/domain/entity"
	"sociogram/internal/infrastructure/auth"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
)

const (
	ContextUser  = "user"
	ContextToken = "token"
)

type AuthMiddleware struct {
	tokens usecase.TokenService
}

func NewAuthMiddleware(tokens usecase.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer access token and stores the resolved
// user and token on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}
		verified, err := m.tokens.Verify(c.Request().Context(), raw, auth.TokenKindAccess)
		if err != nil {
			return err
		}
		c.Set(ContextUser, verified.User)
		c.Set(ContextToken, verified)
		return next(c)
	}
}

// VerifyAccess resolves a raw access token outside the middleware chain.
// The realtime handshake uses it for tokens carried in the query string.
func (m *AuthMiddleware) VerifyAccess(c echo.Context, raw string) (*auth.VerifiedToken, error) {
	return m.tokens.Verify(c.Request().Context(), raw, auth.TokenKindAccess)
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}

// CurrentUser pulls the authenticated user off the context. Only valid
// behind Authenticate.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextUser).(*entity.User)
	return user
}

// CurrentToken pulls the verified token off the context.
func CurrentToken(c echo.Context) *auth.VerifiedToken {
	token, _ := c.Get(ContextToken).(*auth.VerifiedToken)
	return token
}
