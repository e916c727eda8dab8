package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo) {
	e.GET("/health", handler.Health)
}
