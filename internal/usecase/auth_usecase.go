package usecase

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/internal/infrastructure/auth"
	"sociogram/pkg/errors"
	"sociogram/pkg/utils"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenService
	google   GoogleVerifier
	notifier Notifier
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenService, google GoogleVerifier, notifier Notifier) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
		notifier: notifier,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

type AuthResult struct {
	User        *entity.User
	Credentials *auth.Credentials
}

func hashSecret(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Internal("Failed to hash secret", err)
	}
	return string(hashed), nil
}

func secretMatches(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Signup creates an unconfirmed account and mails a one-time confirmation
// code. The account cannot log in until the code is confirmed.
func (uc *AuthUseCase) Signup(ctx context.Context, input SignupInput) (*entity.User, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, errors.Internal("Failed to check email", err)
	}
	if existing != nil {
		return nil, errors.Conflict("Email already exists")
	}

	passwordHash, err := hashSecret(input.Password)
	if err != nil {
		return nil, err
	}
	otp := utils.GenerateOTP()
	otpHash, err := hashSecret(otp)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Username:        input.Username,
		Email:           input.Email,
		Password:        passwordHash,
		Phone:           input.Phone,
		Provider:        entity.ProviderSystem,
		Role:            entity.RoleUser,
		ConfirmEmailOTP: otpHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create account", err)
	}

	uc.notifier.ConfirmEmail(user.Email, otp)
	return user, nil
}

// ConfirmEmail redeems the signup code. A wrong code is a conflict, not a
// validation error, so clients can distinguish it from a malformed request.
func (uc *AuthUseCase) ConfirmEmail(ctx context.Context, email, otp string) error {
	user, err := uc.userRepo.GetPendingConfirmation(ctx, email)
	if err != nil {
		return errors.Internal("Failed to load account", err)
	}
	if user == nil {
		return errors.NotFound("Account", nil)
	}
	if !secretMatches(user.ConfirmEmailOTP, otp) {
		return errors.Conflict("Invalid OTP")
	}

	return uc.userRepo.UpdateByEmail(ctx, email,
		repository.UserUpdate{"confirmedAt": time.Now()},
		[]string{"confirmEmailOtp"})
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmailAndProvider(ctx, email, entity.ProviderSystem)
	if err != nil {
		return nil, errors.Internal("Failed to load account", err)
	}
	if user == nil {
		return nil, errors.New("NOT_FOUND", "Invalid login data", http.StatusNotFound, nil)
	}
	if !user.IsConfirmed() {
		return nil, errors.BadRequest("Please confirm your email first", nil)
	}
	if !secretMatches(user.Password, password) {
		return nil, errors.New("NOT_FOUND", "Invalid login data", http.StatusNotFound, nil)
	}
	if user.FreezedAt != nil || user.BlockedAt != nil {
		return nil, errors.Unauthorized("Account is not active", nil)
	}

	credentials, err := uc.tokens.IssueCredentials(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Credentials: credentials}, nil
}

// SignupWithGmail registers an account from a Google ID token, confirmed
// on the spot. An email already registered with Google behaves as a
// login; one bound to another provider is a conflict. Created reports
// whether a new account was made.
func (uc *AuthUseCase) SignupWithGmail(ctx context.Context, idToken string) (*AuthResult, bool, error) {
	account, err := uc.google.Verify(ctx, idToken)
	if err != nil {
		return nil, false, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, account.Email)
	if err != nil {
		return nil, false, errors.Internal("Failed to load account", err)
	}
	if user != nil {
		if user.Provider != entity.ProviderGoogle {
			return nil, false, errors.Conflict("Email exists with another provider: " + string(user.Provider))
		}
		result, err := uc.loginGoogleUser(user)
		return result, false, err
	}

	now := time.Now()
	user = &entity.User{
		Username:    account.GivenName + " " + account.FamilyName,
		Email:       account.Email,
		Provider:    entity.ProviderGoogle,
		Role:        entity.RoleUser,
		ConfirmedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, errors.Internal("Failed to create account", err)
	}

	result, err := uc.loginGoogleUser(user)
	return result, true, err
}

// LoginWithGmail signs in an account that already registered with Google.
func (uc *AuthUseCase) LoginWithGmail(ctx context.Context, idToken string) (*AuthResult, error) {
	account, err := uc.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmailAndProvider(ctx, account.Email, entity.ProviderGoogle)
	if err != nil {
		return nil, errors.Internal("Failed to load account", err)
	}
	if user == nil {
		return nil, errors.New("NOT_FOUND", "Account is not registered with Google", http.StatusNotFound, nil)
	}
	return uc.loginGoogleUser(user)
}

func (uc *AuthUseCase) loginGoogleUser(user *entity.User) (*AuthResult, error) {
	if user.FreezedAt != nil || user.BlockedAt != nil {
		return nil, errors.Unauthorized("Account is not active", nil)
	}
	credentials, err := uc.tokens.IssueCredentials(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Credentials: credentials}, nil
}

func (uc *AuthUseCase) RefreshCredentials(ctx context.Context, refreshToken string) (*AuthResult, error) {
	verified, err := uc.tokens.Verify(ctx, refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	credentials, err := uc.tokens.IssueCredentials(verified.User.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: verified.User, Credentials: credentials}, nil
}

// SendForgotPassword mails a one-time reset code to a confirmed
// password-login account.
func (uc *AuthUseCase) SendForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmailAndProvider(ctx, email, entity.ProviderSystem)
	if err != nil {
		return errors.Internal("Failed to load account", err)
	}
	if user == nil || !user.IsConfirmed() {
		return errors.NotFound("Account", nil)
	}

	otp := utils.GenerateOTP()
	otpHash, err := hashSecret(otp)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdateByEmail(ctx, email,
		repository.UserUpdate{"resetPasswordOtp": otpHash}, nil); err != nil {
		return errors.Internal("Failed to store reset code", err)
	}

	uc.notifier.ResetPassword(user.Email, otp)
	return nil
}

// VerifyForgotPassword checks a reset code without consuming it, so
// clients can gate the new-password form.
func (uc *AuthUseCase) VerifyForgotPassword(ctx context.Context, email, otp string) error {
	user, err := uc.userRepo.GetPendingReset(ctx, email)
	if err != nil {
		return errors.Internal("Failed to load account", err)
	}
	if user == nil {
		return errors.NotFound("Account", nil)
	}
	if !secretMatches(user.ResetPasswordOTP, otp) {
		return errors.Conflict("Invalid OTP")
	}
	return nil
}

// ResetForgotPassword redeems the reset code and bumps the credentials
// change time so every previously issued token dies.
func (uc *AuthUseCase) ResetForgotPassword(ctx context.Context, email, otp, newPassword string) error {
	if err := uc.VerifyForgotPassword(ctx, email, otp); err != nil {
		return err
	}

	passwordHash, err := hashSecret(newPassword)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdateByEmail(ctx, email, repository.UserUpdate{
		"password":              passwordHash,
		"changeCredentialsTime": time.Now(),
	}, []string{"resetPasswordOtp"})
}

type LogoutFlag string

const (
	LogoutOnly LogoutFlag = "only"
	LogoutAll  LogoutFlag = "all"
)

// Logout invalidates credentials. "only" revokes the presented token,
// "all" bumps the credentials change time and kills every session.
func (uc *AuthUseCase) Logout(ctx context.Context, verified *auth.VerifiedToken, flag LogoutFlag) error {
	switch flag {
	case LogoutAll:
		return uc.userRepo.UpdateByID(ctx, verified.User.ID,
			repository.UserUpdate{"changeCredentialsTime": time.Now()}, nil)
	case LogoutOnly, "":
		if err := uc.tokens.Revoke(ctx, verified); err != nil {
			return errors.Internal("Failed to revoke token", err)
		}
		return nil
	default:
		return errors.BadRequest("Unknown logout flag", nil)
	}
}
