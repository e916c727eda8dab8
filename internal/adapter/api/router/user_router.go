package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
	"sociogram/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()

	user := e.Group("/user", authMiddleware.Authenticate)
	user.GET("", userHandler.Profile)
	user.GET("/:profileId", userHandler.SharedProfile)
	user.PATCH("", userHandler.UpdateBasicInfo)
	user.PATCH("/password", userHandler.UpdatePassword)
	user.PATCH("/profile-image", userHandler.ProfileImageUploadURL)
	user.PATCH("/profile-image/confirm", userHandler.ConfirmProfileImage)
	user.PATCH("/cover-images", userHandler.UploadCoverImages)
	user.POST("/:profileId/friend-request", userHandler.SendFriendRequest)
	user.PATCH("/friend-request/:requestId/accept", userHandler.AcceptFriendRequest)

	admin := e.Group("/admin/user", authMiddleware.Authenticate, adminMiddleware.RequireAdmin)
	admin.GET("", userHandler.ListUsers)
	admin.PATCH("/:userId/freeze", userHandler.FreezeAccount)
	admin.PATCH("/:userId/restore", userHandler.RestoreAccount)
	admin.PATCH("/:userId/block", userHandler.BlockAccount)

	superAdmin := e.Group("/admin/user", authMiddleware.Authenticate, adminMiddleware.RequireSuperAdmin)
	superAdmin.PATCH("/:userId/role", userHandler.ChangeRole)
	superAdmin.DELETE("/:userId", userHandler.DeleteAccount)
}
