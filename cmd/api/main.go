package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociogram/internal/adapter/api"
	"sociogram/internal/adapter/api/handler"
	apimiddleware "sociogram/internal/adapter/api/middleware"
	"sociogram/internal/adapter/api/router"
	"sociogram/internal/adapter/repository"
	"sociogram/internal/infrastructure/auth"
	"sociogram/internal/infrastructure/email"
	"sociogram/internal/infrastructure/ratelimit"
	"sociogram/internal/infrastructure/storage"
	"sociogram/internal/infrastructure/websocket"
	"sociogram/internal/usecase"
	"sociogram/pkg/config"
	"sociogram/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo := repository.NewMongoUserRepository(db)
	postRepo := repository.NewMongoPostRepository(db)
	commentRepo := repository.NewMongoCommentRepository(db)
	chatRepo := repository.NewMongoChatRepository(db)
	friendRequestRepo, err := repository.NewMongoFriendRequestRepository(ctx, db)
	if err != nil {
		log.Fatalf("Failed to prepare friend request collection: %v", err)
	}
	tokenRepo, err := repository.NewMongoTokenRepository(ctx, db)
	if err != nil {
		log.Fatalf("Failed to prepare token collection: %v", err)
	}

	s3Client, err := storage.NewS3Client(ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		log.Fatalf("Invalid SMTP port %q: %v", cfg.SMTPPort, err)
	}
	mailer := email.NewMailer(cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	notifier := email.NewNotifier(mailer)

	tokenService := auth.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, tokenRepo, userRepo)
	googleVerifier := auth.NewGoogleVerifier(cfg.GoogleClientIDs)

	wsManager := websocket.NewManager()

	authUseCase := usecase.NewAuthUseCase(userRepo, tokenService, googleVerifier, notifier)
	userUseCase := usecase.NewUserUseCase(userRepo, friendRequestRepo, chatRepo, s3Client)
	postUseCase := usecase.NewPostUseCase(postRepo, commentRepo, userRepo, s3Client, notifier)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, userRepo, s3Client, notifier)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, s3Client, wsManager)
	wsManager.SetHandler(chatUseCase)

	authMiddleware := apimiddleware.NewAuthMiddleware(tokenService)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	handler.Setup(authUseCase, userUseCase, postUseCase, commentUseCase, chatUseCase, s3Client, wsManager, authMiddleware)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(apimiddleware.RateLimit(ratelimit.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler

	router.Setup(e, authMiddleware, adminMiddleware)

	log.Printf("Starting %s on port %s...", cfg.AppName, cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
