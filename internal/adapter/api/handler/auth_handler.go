package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/infrastructure/auth"
	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
	"sociogram/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

type signupRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone" validate:"omitempty,e164"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authUseCase.Signup(c.Request().Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return response.Created(c, user)
}

type confirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req confirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.authUseCase.ConfirmEmail(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type credentialsResponse struct {
	Credentials *auth.Credentials `json:"credentials"`
	User        interface{}       `json:"user"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.Success(c, credentialsResponse{Credentials: result.Credentials, User: result.User})
}

type gmailRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// SignupWithGmail answers 201 when the account was just created and 200
// when an existing Google account simply logged in.
func (h *AuthHandler) SignupWithGmail(c echo.Context) error {
	var req gmailRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, created, err := h.authUseCase.SignupWithGmail(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	if created {
		return response.Created(c, credentialsResponse{Credentials: result.Credentials, User: result.User})
	}
	return response.Success(c, credentialsResponse{Credentials: result.Credentials, User: result.User})
}

func (h *AuthHandler) LoginWithGmail(c echo.Context) error {
	var req gmailRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authUseCase.LoginWithGmail(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return response.Success(c, credentialsResponse{Credentials: result.Credentials, User: result.User})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authUseCase.RefreshCredentials(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return response.Success(c, credentialsResponse{Credentials: result.Credentials, User: result.User})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) SendForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.authUseCase.SendForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type verifyForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (h *AuthHandler) VerifyForgotPassword(c echo.Context) error {
	var req verifyForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.authUseCase.VerifyForgotPassword(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type resetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required,len=6"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (h *AuthHandler) ResetForgotPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.authUseCase.ResetForgotPassword(c.Request().Context(), req.Email, req.OTP, req.Password); err != nil {
		return err
	}
	return response.Success(c, nil)
}

type logoutRequest struct {
	Flag string `json:"flag" validate:"omitempty,oneof=only all"`
}

// Logout answers 201 when only the presented token was revoked and 200
// when every session was invalidated.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	verified := middleware.CurrentToken(c)
	if verified == nil {
		return errors.Unauthorized("Authentication required", nil)
	}
	flag := usecase.LogoutFlag(req.Flag)
	if err := h.authUseCase.Logout(c.Request().Context(), verified, flag); err != nil {
		return err
	}
	if flag == usecase.LogoutAll {
		return response.Success(c, nil)
	}
	return response.Message(c, http.StatusCreated, "Done")
}
