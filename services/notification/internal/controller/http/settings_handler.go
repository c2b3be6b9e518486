package http

import (
	"net/http"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	preferenceUseCase usecase.PreferenceUseCase
	logger            *logger.Logger
}

func NewSettingsHandler(preferenceUseCase usecase.PreferenceUseCase, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{preferenceUseCase: preferenceUseCase, logger: log}
}

type UpdateSettingsRequest struct {
	Types    []entity.TypeSetting    `json:"types"`
	Channels []entity.ChannelSetting `json:"channels"`
}

// GetSettings godoc
// @Summary      Get notification settings
// @Description  Get per-type and per-channel settings for a user; absent rows read as disabled
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  entity.NotificationSettings
// @Failure      500  {object}  map[string]string
// @Router       /notifications/settings/{user_id} [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	callerID := c.GetString("user_id")
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	settings, err := h.preferenceUseCase.GetSettings(userID)
	if err != nil {
		h.logger.Error("Failed to get settings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateMySettings godoc
// @Summary      Update own notification settings
// @Description  Batch-upsert type and channel settings for the authenticated user; items apply independently
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateSettingsRequest true "Settings to apply"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /notifications/settings/me [patch]
func (h *SettingsHandler) UpdateMySettings(c *gin.Context) {
	// Identity comes from the token, never from the body: users mutate only
	// their own settings.
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.preferenceUseCase.UpdateSettings(userID, req.Types, req.Channels); err != nil {
		h.logger.Error("Failed to update settings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.Status(http.StatusNoContent)
}
