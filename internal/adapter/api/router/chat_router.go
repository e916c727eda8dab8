package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
	"sociogram/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chat := e.Group("/chat", authMiddleware.Authenticate)
	chat.GET("/group", chatHandler.ListGroups)
	chat.POST("/group", chatHandler.CreateGroup)
	chat.GET("/group/:groupId", chatHandler.GetGroup)
	chat.POST("/group/:groupId", chatHandler.SendGroup)
	chat.PATCH("/group/:groupId/image", chatHandler.UploadGroupImage)
	chat.GET("/:userId", chatHandler.GetDirect)
	chat.POST("/:userId", chatHandler.SendDirect)
}
