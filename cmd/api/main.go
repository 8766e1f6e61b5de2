package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"olicore/internal/adapter/api"
	"olicore/internal/adapter/api/handler"
	apimiddleware "olicore/internal/adapter/api/middleware"
	"olicore/internal/adapter/api/router"
	"olicore/internal/adapter/repository"
	"olicore/internal/infrastructure/firebase"
	"olicore/internal/infrastructure/storage"
	"olicore/internal/infrastructure/websocket"
	"olicore/internal/usecase"
	"olicore/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from env var in production, file path for local development
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	fbMessaging, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	db, err := repository.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewGormUserRepository(db)
	friendshipRepo := repository.NewGormFriendshipRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	deviceTokenRepo := repository.NewGormDeviceTokenRepository(db)

	authClient := firebase.NewAuthClient(fbAuth)
	pushClient := firebase.NewPushClient(fbMessaging)

	hub := websocket.NewHub()

	notificationUseCase := usecase.NewNotificationUseCase(
		notificationRepo,
		deviceTokenRepo,
		hub,
		pushClient,
		time.Duration(cfg.PushTimeoutSeconds)*time.Second,
	)

	chatUseCase := usecase.NewChatUseCase(
		friendshipRepo,
		conversationRepo,
		messageRepo,
		userRepo,
		hub,
		notificationUseCase,
	)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	chatHandler := handler.NewChatHandler(chatUseCase)
	uploadHandler := handler.NewUploadHandler(storageClient)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)
	deviceTokenHandler := handler.NewDeviceTokenHandler(notificationUseCase)
	wsHandler := handler.NewWebSocketHandler(hub, authClient)
	healthHandler := handler.NewHealthHandler(db)

	router.SetupHealthRouter(e, healthHandler)
	router.SetupChatRouter(e, chatHandler, uploadHandler, authMiddleware)
	router.SetupNotificationRouter(e, notificationHandler, deviceTokenHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	// Let in-flight push dispatches finish before the process exits.
	notificationUseCase.Drain()
}
