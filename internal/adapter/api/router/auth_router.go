package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
	"sociogram/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	e.POST("/auth/signup", authHandler.Signup)
	e.PATCH("/auth/confirm-email", authHandler.ConfirmEmail)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup-gmail", authHandler.SignupWithGmail)
	e.POST("/auth/login-gmail", authHandler.LoginWithGmail)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.PATCH("/auth/send-forgot-password", authHandler.SendForgotPassword)
	e.PATCH("/auth/verify-forgot-password", authHandler.VerifyForgotPassword)
	e.PATCH("/auth/reset-forgot-password", authHandler.ResetForgotPassword)

	protected := e.Group("/auth", authMiddleware.Authenticate)
	protected.POST("/logout", authHandler.Logout)
}
