package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dorm-link/pkg/config"
	"dorm-link/pkg/jwt"
	"dorm-link/pkg/logger"
	"dorm-link/pkg/middleware"
	"dorm-link/pkg/queue"
	notificationHTTP "dorm-link/services/notification/internal/controller/http"
	"dorm-link/services/notification/internal/repo/persistent"
	"dorm-link/services/notification/internal/service/rooms"
	"dorm-link/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "dorm-link/services/notification/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	notificationRepo := persistent.NewNotificationRepository(db)
	preferenceRepo := persistent.NewPreferenceRepository(db)
	linkCodeRepo := persistent.NewLinkCodeRepository(db)

	// External collaborators
	roomsClient := rooms.NewClient(cfg.RoomServiceURL)
	guard := usecase.NewRedisGuard(redisClient, log)

	// Initialize use cases
	fanoutUseCase := usecase.NewFanoutUseCase(notificationRepo, preferenceRepo, roomsClient, queueClient, guard, redisClient, log)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, log)
	preferenceUseCase := usecase.NewPreferenceUseCase(preferenceRepo, log)
	linkCodeUseCase := usecase.NewLinkCodeUseCase(linkCodeRepo, time.Duration(cfg.LinkCodeTTLMinutes)*time.Minute, log)

	// Initialize HTTP handlers
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, redisClient, queueClient, log, jwtService)
	settingsHandler := notificationHTTP.NewSettingsHandler(preferenceUseCase, log)
	linkCodeHandler := notificationHTTP.NewLinkCodeHandler(linkCodeUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	// Protected routes - require authentication
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.POST("/notifications/:id/read", notificationHandler.MarkNotificationRead)
		protected.GET("/notifications/settings/:user_id", settingsHandler.GetSettings)
		protected.PATCH("/notifications/settings/me", settingsHandler.UpdateMySettings)
		protected.POST("/link-codes",
			middleware.RateLimitMiddleware(redisClient, 5, time.Minute),
			linkCodeHandler.GenerateLinkCode)
	}
	// WebSocket endpoint - handles authentication internally via query parameter
	api.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	// Internal routes - called by sibling services, not exposed through the gateway
	{
		api.POST("/link-codes/validate", linkCodeHandler.ValidateLinkCode)
		api.GET("/notifications/queue", notificationHandler.QueueStatus)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Consumer lifetime is tied to the shutdown signal
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if err := queueClient.ConsumeDomainEvents(consumerCtx, fanoutUseCase.HandleDomainEvent); err != nil {
		log.Error("Error starting domain event consumer: %v", err)
		panic(err)
	}

	// Start server in a goroutine
	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	// Stop accepting new messages; in-flight handlers finish against the db
	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Notification service exited")
}
