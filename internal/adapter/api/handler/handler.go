package handler

import (
	"sociogram/internal/adapter/api/middleware"
	"sociogram/internal/infrastructure/websocket"
	"sociogram/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	postHandler      *PostHandler
	commentHandler   *CommentHandler
	chatHandler      *ChatHandler
	fileHandler      *FileHandler
	websocketHandler *WebSocketHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	postUseCase *usecase.PostUseCase,
	commentUseCase *usecase.CommentUseCase,
	chatUseCase *usecase.ChatUseCase,
	storage usecase.FileStorage,
	wsManager *websocket.Manager,
	authMiddleware *middleware.AuthMiddleware,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	postHandler = NewPostHandler(postUseCase)
	commentHandler = NewCommentHandler(commentUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	fileHandler = NewFileHandler(storage)
	websocketHandler = NewWebSocketHandler(wsManager, authMiddleware)
}

func GetAuthHandler() *AuthHandler { return authHandler }

func GetUserHandler() *UserHandler { return userHandler }

func GetPostHandler() *PostHandler { return postHandler }

func GetCommentHandler() *CommentHandler { return commentHandler }

func GetChatHandler() *ChatHandler { return chatHandler }

func GetFileHandler() *FileHandler { return fileHandler }

func GetWebSocketHandler() *WebSocketHandler { return websocketHandler }
