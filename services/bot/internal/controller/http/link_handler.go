package http

import (
	"net/http"

	"dorm-link/pkg/logger"
	"dorm-link/services/bot/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LinkHandler struct {
	linkUseCase usecase.LinkUseCase
	logger      *logger.Logger
}

func NewLinkHandler(linkUseCase usecase.LinkUseCase, log *logger.Logger) *LinkHandler {
	return &LinkHandler{linkUseCase: linkUseCase, logger: log}
}

// GetLinkStatus godoc
// @Summary Get chat link status
// @Description Returns whether a chat is linked to a user account
// @Tags links
// @Produce json
// @Param chat_id path string true "Chat ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /links/{chat_id} [get]
func (h *LinkHandler) GetLinkStatus(c *gin.Context) {
	chatID := c.Param("chat_id")

	status, err := h.linkUseCase.Status(chatID)
	if err != nil {
		h.logger.Error("Failed to get link status for chat %s: %v", chatID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get link status"})
		return
	}

	resp := gin.H{"linked": status.Linked}
	if status.LinkedAt != nil {
		resp["linked_at"] = status.LinkedAt
	}
	c.JSON(http.StatusOK, resp)
}
