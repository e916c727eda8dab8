package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sociogram/internal/adapter/api"
	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/internal/infrastructure/auth"
	"sociogram/internal/usecase"
	"sociogram/pkg/response"

	"github.com/labstack/echo/v4"
)

type memoryUserRepo struct {
	users map[string]*entity.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	user.ID = "u-" + user.Email
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByEmailAndProvider(ctx context.Context, email string, provider entity.Provider) (*entity.User, error) {
	u, _ := r.GetByEmail(ctx, email)
	if u == nil || u.Provider != provider {
		return nil, nil
	}
	return u, nil
}

func (r *memoryUserRepo) GetPendingConfirmation(ctx context.Context, email string) (*entity.User, error) {
	u, _ := r.GetByEmail(ctx, email)
	if u == nil || u.ConfirmedAt != nil || u.ConfirmEmailOTP == "" {
		return nil, nil
	}
	return u, nil
}

func (r *memoryUserRepo) GetPendingReset(ctx context.Context, email string) (*entity.User, error) {
	u, _ := r.GetByEmail(ctx, email)
	if u == nil || u.ResetPasswordOTP == "" {
		return nil, nil
	}
	return u, nil
}

func (r *memoryUserRepo) UpdateByID(context.Context, string, repository.UserUpdate, []string) error {
	return nil
}

func (r *memoryUserRepo) UpdateByEmail(ctx context.Context, email string, set repository.UserUpdate, unset []string) error {
	u, _ := r.GetByEmail(ctx, email)
	if v, ok := set["confirmedAt"].(time.Time); ok {
		u.ConfirmedAt = &v
	}
	for _, key := range unset {
		if key == "confirmEmailOtp" {
			u.ConfirmEmailOTP = ""
		}
	}
	return nil
}

func (r *memoryUserRepo) AddFriend(context.Context, string, string) error { return nil }

func (r *memoryUserRepo) CountExisting(context.Context, []string, string) (int64, error) {
	return 0, nil
}

func (r *memoryUserRepo) Freeze(context.Context, string, string) error { return nil }

func (r *memoryUserRepo) Restore(context.Context, string, string) error { return nil }

func (r *memoryUserRepo) Block(context.Context, string, string) error { return nil }

func (r *memoryUserRepo) HardDelete(context.Context, string) error { return nil }

func (r *memoryUserRepo) ChangeRole(context.Context, string, entity.Role, []entity.Role) error {
	return nil
}

func (r *memoryUserRepo) List(context.Context, repository.Page) (*repository.Paginated[*entity.User], error) {
	return &repository.Paginated[*entity.User]{}, nil
}

func (r *memoryUserRepo) GetMany(context.Context, []string) ([]*entity.User, error) {
	return nil, nil
}

type memoryTokenRepo struct{ revoked map[string]bool }

func (r *memoryTokenRepo) Revoke(_ context.Context, token *entity.RevokedToken) error {
	r.revoked[token.JTI] = true
	return nil
}

func (r *memoryTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}

type silentNotifier struct{ lastOTP string }

func (n *silentNotifier) ConfirmEmail(_, otp string)  { n.lastOTP = otp }
func (n *silentNotifier) ResetPassword(_, otp string) { n.lastOTP = otp }
func (n *silentNotifier) Tagged(string, string)       {}

func newTestServer(t *testing.T) (*echo.Echo, *AuthHandler, *silentNotifier, *memoryUserRepo) {
	t.Helper()
	userRepo := &memoryUserRepo{users: map[string]*entity.User{}}
	tokenRepo := &memoryTokenRepo{revoked: map[string]bool{}}
	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour, tokenRepo, userRepo)
	notifier := &silentNotifier{}
	authUseCase := usecase.NewAuthUseCase(userRepo, tokens, nil, notifier)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler
	return e, NewAuthHandler(authUseCase), notifier, userRepo
}

func postJSON(e *echo.Echo, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSignupValidationErrorShape(t *testing.T) {
	e, h, _, _ := newTestServer(t)

	rec := postJSON(e, h.Signup, `{"username":"x","email":"nope","password":"short","confirmPassword":"other"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message          string `json:"message"`
		ValidationErrors []struct {
			Path    []string `json:"path"`
			Message string   `json:"message"`
		} `json:"validationErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation error", body.Message)
	require.NotEmpty(t, body.ValidationErrors)
	assert.Equal(t, "body", body.ValidationErrors[0].Path[0])
}

func TestSignupConfirmLoginFlow(t *testing.T) {
	e, h, notifier, _ := newTestServer(t)

	rec := postJSON(e, h.Signup, `{"username":"tester","email":"a@b.c","password":"long-enough","confirmPassword":"long-enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, notifier.lastOTP, 6)

	// login before confirmation is rejected
	rec = postJSON(e, h.Login, `{"email":"a@b.c","password":"long-enough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(e, h.ConfirmEmail, `{"email":"a@b.c","otp":"`+notifier.lastOTP+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postJSON(e, h.Login, `{"email":"a@b.c","password":"long-enough"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "access_token")
	assert.Contains(t, rec.Body.String(), `"message":"Done"`)
}

func TestConfirmEmailWrongOTPIsConflict(t *testing.T) {
	e, h, _, _ := newTestServer(t)

	rec := postJSON(e, h.Signup, `{"username":"tester","email":"a@b.c","password":"long-enough","confirmPassword":"long-enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, h.ConfirmEmail, `{"email":"a@b.c","otp":"000000"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginUnknownAccountIsNotFound(t *testing.T) {
	e, h, _, _ := newTestServer(t)

	rec := postJSON(e, h.Login, `{"email":"ghost@b.c","password":"whatever-long"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupNeverEchoesPasswordOrOTP(t *testing.T) {
	e, h, notifier, userRepo := newTestServer(t)

	rec := postJSON(e, h.Signup, `{"username":"tester","email":"a@b.c","password":"long-enough","confirmPassword":"long-enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.NotContains(t, rec.Body.String(), "long-enough")
	assert.NotContains(t, rec.Body.String(), notifier.lastOTP)

	user, _ := userRepo.GetByEmail(context.Background(), "a@b.c")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("long-enough")))
}
