package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupNotificationTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

type fakeNotificationUseCase struct {
	notifications []entity.Notification
	total         int64
	err           error

	markedUser string
	markedID   string
	markErr    error
}

func (f *fakeNotificationUseCase) GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.notifications, f.total, nil
}

func (f *fakeNotificationUseCase) MarkRead(userID, notificationID string) error {
	f.markedUser = userID
	f.markedID = notificationID
	return f.markErr
}

func TestGetNotifications_Unauthorized(t *testing.T) {
	// Setup
	logger := logger.New()
	handler := &NotificationHandler{
		logger: logger,
	}

	router := setupNotificationTestRouter()
	router.GET("/notifications", handler.GetNotifications)

	// Create request without auth
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)

	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response["error"], "Unauthorized")
}

func TestGetNotifications_Success(t *testing.T) {
	// Setup
	uc := &fakeNotificationUseCase{
		notifications: []entity.Notification{
			{ID: "n1", UserID: "u1", Title: "Inspection Passed", Type: entity.TypeInspectionResults},
		},
		total: 5,
	}
	handler := &NotificationHandler{
		notificationUseCase: uc,
		logger:              logger.New(),
	}

	router := setupNotificationTestRouter()
	router.GET("/notifications", authAs("u1"), handler.GetNotifications)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications?limit=10&offset=0", nil)

	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, float64(5), response["total"])
}

func TestMarkNotificationRead_Unauthorized(t *testing.T) {
	// Setup
	handler := &NotificationHandler{
		logger: logger.New(),
	}

	router := setupNotificationTestRouter()
	router.POST("/notifications/:id/read", handler.MarkNotificationRead)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/notifications/n1/read", nil)

	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMarkNotificationRead_Success(t *testing.T) {
	// Setup
	uc := &fakeNotificationUseCase{}
	handler := &NotificationHandler{
		notificationUseCase: uc,
		logger:              logger.New(),
	}

	router := setupNotificationTestRouter()
	router.POST("/notifications/:id/read", authAs("u1"), handler.MarkNotificationRead)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/notifications/n1/read", nil)

	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", uc.markedUser)
	assert.Equal(t, "n1", uc.markedID)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	// Setup
	uc := &fakeNotificationUseCase{markErr: usecase.ErrNotificationNotFound}
	handler := &NotificationHandler{
		notificationUseCase: uc,
		logger:              logger.New(),
	}

	router := setupNotificationTestRouter()
	router.POST("/notifications/:id/read", authAs("u1"), handler.MarkNotificationRead)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/notifications/missing/read", nil)

	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusNotFound, w.Code)
}
