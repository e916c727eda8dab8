package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
	"sociogram/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	e.GET("/upload/*", fileHandler.Get, authMiddleware.Authenticate)
}
