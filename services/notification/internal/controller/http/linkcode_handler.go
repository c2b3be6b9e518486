package http

import (
	"errors"
	"net/http"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LinkCodeHandler struct {
	linkCodeUseCase usecase.LinkCodeUseCase
	logger          *logger.Logger
}

func NewLinkCodeHandler(linkCodeUseCase usecase.LinkCodeUseCase, log *logger.Logger) *LinkCodeHandler {
	return &LinkCodeHandler{linkCodeUseCase: linkCodeUseCase, logger: log}
}

type ValidateLinkCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GenerateLinkCode godoc
// @Summary      Generate a channel-linking code
// @Description  Issue a short-lived one-time code the caller can enter in the chat bot
// @Tags         link-codes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.LinkCode
// @Failure      500  {object}  map[string]string
// @Router       /link-codes [post]
func (h *LinkCodeHandler) GenerateLinkCode(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	code, err := h.linkCodeUseCase.Generate(userID)
	if err != nil {
		h.logger.Error("Failed to generate link code for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate link code"})
		return
	}

	c.JSON(http.StatusOK, code)
}

// ValidateLinkCode godoc
// @Summary      Validate a channel-linking code
// @Description  Consume a one-time code; called by the bot service during /auth
// @Tags         link-codes
// @Accept       json
// @Produce      json
// @Param        request body ValidateLinkCodeRequest true "Code to validate"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /link-codes/validate [post]
func (h *LinkCodeHandler) ValidateLinkCode(c *gin.Context) {
	var req ValidateLinkCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.linkCodeUseCase.Validate(req.Code)
	if err != nil {
		if errors.Is(err, usecase.ErrCodeInvalid) {
			// Unknown, used and expired all look the same to the caller.
			c.JSON(http.StatusNotFound, gin.H{"error": "Code not found"})
			return
		}
		h.logger.Error("Failed to validate link code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate link code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}
