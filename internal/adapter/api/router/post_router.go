package router

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/adapter/api/handler"
	"sociogram/internal/adapter/api/middleware"
)

func SetupPostRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	postHandler := handler.GetPostHandler()
	commentHandler := handler.GetCommentHandler()

	post := e.Group("/post", authMiddleware.Authenticate)
	post.GET("", postHandler.Feed)
	post.POST("", postHandler.Create)
	post.GET("/:postId", postHandler.Get)
	post.PATCH("/:postId", postHandler.Update)
	post.PATCH("/:postId/like", postHandler.Like)
	post.PATCH("/:postId/unlike", postHandler.Unlike)
	post.PATCH("/:postId/freeze", postHandler.Freeze)
	post.DELETE("/:postId", postHandler.Delete)

	post.POST("/:postId/comment", commentHandler.Create)
	post.POST("/:postId/comment/:commentId/reply", commentHandler.Reply)
	post.PATCH("/comment/:commentId", commentHandler.Update)
	post.PATCH("/comment/:commentId/freeze", commentHandler.Freeze)
	post.DELETE("/comment/:commentId", commentHandler.Delete)

	admin := e.Group("/admin/post", authMiddleware.Authenticate, adminMiddleware.RequireAdmin)
	admin.GET("", postHandler.ListAll)
}
