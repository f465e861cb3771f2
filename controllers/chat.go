package controllers

import (
	"errors"
	"net/http"
	"strings"

	"PolyChat/middleware"
	"PolyChat/models"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type chatRequest struct {
	Message     string            `json:"message"`
	History     []svc.ChatMessage `json:"history"`
	Email       string            `json:"email"`
	ChatID      uint              `json:"chat_id"`
	Attachments []struct {
		ID uint `json:"id"`
	} `json:"attachments"`
}

// ChatWithProvider forwards one user utterance to the selected backend and
// returns the reply. Both turns are persisted by the dispatcher; a backend
// failure still produces a normal reply body.
func ChatWithProvider(db *gorm.DB, dispatcher *svc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")
		if !models.ValidProvider(provider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider specified"})
			return
		}

		var body chatRequest
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" || body.ChatID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and chat_id are required"})
			return
		}

		user, err := svc.ResolveOrCreate(db, strings.TrimSpace(body.Email))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		var chat models.Chat
		if err := db.First(&chat, body.ChatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}

		if !middleware.DuplicateGuard(user.Email, body.Message) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "duplicate message"})
			return
		}
		release := middleware.AcquireUserSlot(user.Email)
		defer release()

		attachmentIDs := make([]uint, 0, len(body.Attachments))
		for _, a := range body.Attachments {
			attachmentIDs = append(attachmentIDs, a.ID)
		}

		reply, err := dispatcher.Dispatch(c.Request.Context(), provider, chat.ID, user, body.Message, body.History, attachmentIDs)
		if err != nil {
			if errors.Is(err, svc.ErrInvalidProvider) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider specified"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get a response from AI provider"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": reply})
	}
}
