package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dorm-link/pkg/jwt"
	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	"dorm-link/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	redisClient         *redis.Client
	queueClient         *queue.Client
	logger              *logger.Logger
	jwtService          *jwt.Service
}

func NewNotificationHandler(
	notificationUseCase usecase.NotificationUseCase,
	redisClient *redis.Client,
	queueClient *queue.Client,
	log *logger.Logger,
	jwtService *jwt.Service,
) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		redisClient:         redisClient,
		queueClient:         queueClient,
		logger:              log,
		jwtService:          jwtService,
	}
}

// GetNotifications godoc
// @Summary      Get user notifications
// @Description  Get the notification ledger for the authenticated user
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of notifications to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	notifications, totalCount, err := h.notificationUseCase.GetNotifications(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
		"total":         totalCount,
		"offset":        offset,
	})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Description  Set the is_read flag on one of the caller's notifications
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if notificationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notification ID required"})
		return
	}

	if err := h.notificationUseCase.MarkRead(userID, notificationID); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Failed to mark notification read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// QueueStatus reports ready-message counts for internal dashboards.
func (h *NotificationHandler) QueueStatus(c *gin.Context) {
	tasks, err := h.queueClient.GetQueueLength(queue.NotificationTasksQueue)
	if err != nil {
		h.logger.Error("Failed to inspect task queue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect queues"})
		return
	}
	deliveries, err := h.queueClient.GetQueueLength(queue.DeliveryQueue)
	if err != nil {
		h.logger.Error("Failed to inspect delivery queue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect queues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification_tasks":    tasks,
		"notification_delivery": deliveries,
	})
}

func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")

	if userID == "" {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID = claims.UserID
	}

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", userID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.redisClient.Subscribe(ctx, fmt.Sprintf("notifications:%s", userID))
	defer pubsub.Close()

	// Drain reads so we notice the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	redisChannel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket disconnected for user %s", userID)
			return
		case msg, ok := <-redisChannel:
			if !ok || msg == nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Warn("Failed to push notification over WebSocket for user %s: %v", userID, err)
				return
			}
		}
	}
}
