package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dorm-link/pkg/config"
	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	"dorm-link/services/bot/internal/command"
	botHTTP "dorm-link/services/bot/internal/controller/http"
	"dorm-link/services/bot/internal/repo/persistent"
	"dorm-link/services/bot/internal/service/authapi"
	"dorm-link/services/bot/internal/service/telegram"
	"dorm-link/services/bot/internal/usecase"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const longPollTimeoutSeconds = 30

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, queueClient *queue.Client) {
	// Initialize repositories
	chatLinkRepo := persistent.NewChatLinkRepository(db)

	// External collaborators
	telegramClient := telegram.NewClient(cfg.TelegramBotToken)
	validator := authapi.NewClient(cfg.NotificationServiceURL)

	// Initialize use cases
	linkUseCase := usecase.NewLinkUseCase(chatLinkRepo, log)
	deliveryUseCase := usecase.NewDeliveryUseCase(chatLinkRepo, telegramClient, log)

	// Command table is fixed at startup
	dispatcher := command.BuildDispatcher(linkUseCase, validator, log)

	// Initialize HTTP handlers
	linkHandler := botHTTP.NewLinkHandler(linkUseCase, log)

	// Setup router
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	// Internal routes - called by sibling services, not exposed through the gateway
	{
		api.GET("/links/:chat_id", linkHandler.GetLinkStatus)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Consumer and poller lifetimes are tied to the shutdown signal
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if err := queueClient.ConsumeDeliveries(workerCtx, deliveryUseCase.HandleDelivery); err != nil {
		log.Error("Error starting delivery consumer: %v", err)
		panic(err)
	}

	if telegramClient.Configured() {
		go pollUpdates(workerCtx, telegramClient, dispatcher, log)
	} else {
		log.Warn("[BOT] TELEGRAM_BOT_TOKEN is not set, inbound commands are disabled")
	}

	// Start server in a goroutine
	go func() {
		log.Info("Bot service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down bot service...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Bot service exited")
}

// pollUpdates runs the long-poll loop against the chat platform. Each update
// is handled in its own goroutine so one slow validation call does not stall
// the rest of the queue.
func pollUpdates(ctx context.Context, client *telegram.Client, dispatcher *command.Dispatcher, log *logger.Logger) {
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := client.GetUpdates(ctx, offset, longPollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("[BOT] Failed to fetch updates: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			msg := update.Message
			go func() {
				chatID := strconv.FormatInt(msg.Chat.ID, 10)
				reply := dispatcher.Dispatch(ctx, chatID, msg.Text)
				if reply == "" {
					return
				}
				if err := client.SendMessage(ctx, chatID, reply); err != nil {
					log.Error("[BOT] Failed to reply to chat %s: %v", chatID, err)
				}
			}()
		}
	}
}
