package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"PolyChat/models"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func chatIDParam(c *gin.Context) (uint, bool) {
	cid, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil || cid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return 0, false
	}
	return uint(cid), true
}

// CreateChat creates a chat session for an email, resolving the account on
// the way in. A missing or blank title gets the default.
func CreateChat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		user, err := svc.ResolveOrCreate(db, strings.TrimSpace(body.Email))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		title := strings.TrimSpace(body.Title)
		if title == "" {
			title = models.DefaultChatTitle
		}
		chat := models.Chat{UserID: user.ID, Title: title}
		if err := db.Create(&chat).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
			return
		}
		c.JSON(http.StatusOK, chatJSON(chat))
	}
}

// ListChats returns a user's chats, newest-created first.
func ListChats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		user, err := svc.ResolveOrCreate(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		var chats []models.Chat
		if err := db.Where("user_id = ?", user.ID).Order("created_at DESC, id DESC").Find(&chats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		result := make([]gin.H, 0, len(chats))
		for _, chat := range chats {
			result = append(result, chatJSON(chat))
		}
		c.JSON(http.StatusOK, result)
	}
}

// RenameChat updates a chat title; a blank title is rejected.
func RenameChat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, ok := chatIDParam(c)
		if !ok {
			return
		}

		var body struct {
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		var chat models.Chat
		if err := db.First(&chat, cid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		chat.Title = strings.TrimSpace(body.Title)
		if err := db.Save(&chat).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, chatJSON(chat))
	}
}

// DeleteChat cascade-deletes one chat with its messages and attachments and
// reports the removed record counts.
func DeleteChat(db *gorm.DB, storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, ok := chatIDParam(c)
		if !ok {
			return
		}

		report, err := svc.DeleteChatCascade(db, storage, cid)
		if err != nil {
			if errors.Is(err, svc.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"msg":                       "chat deleted",
			"deleted_messages_count":    report.DeletedMessagesCount,
			"deleted_attachments_count": report.DeletedAttachmentsCount,
		})
	}
}

// BatchDeleteChats deletes several chats at once. Ownership of every id is
// checked up front; one foreign id rejects the whole batch before anything
// is deleted.
func BatchDeleteChats(db *gorm.DB, storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			ChatIDs []uint `json:"chat_ids"`
			Email   string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || len(body.ChatIDs) == 0 || strings.TrimSpace(body.Email) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chat_ids array and email are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.TrimSpace(body.Email)).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		var owned int64
		if err := db.Model(&models.Chat{}).Where("id IN ? AND user_id = ?", body.ChatIDs, user.ID).Count(&owned).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if owned != int64(len(body.ChatIDs)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "some chats do not belong to this user"})
			return
		}

		var total svc.DeletionReport
		deleted := 0
		for _, cid := range body.ChatIDs {
			report, err := svc.DeleteChatCascade(db, storage, cid)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			total.DeletedMessagesCount += report.DeletedMessagesCount
			total.DeletedAttachmentsCount += report.DeletedAttachmentsCount
			deleted++
		}

		c.JSON(http.StatusOK, gin.H{
			"msg":                       "chats deleted",
			"deleted_chats_count":       deleted,
			"deleted_messages_count":    total.DeletedMessagesCount,
			"deleted_attachments_count": total.DeletedAttachmentsCount,
		})
	}
}

// GetChatStats reports message count, attachment count, and per-provider
// message counts for one chat.
func GetChatStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, ok := chatIDParam(c)
		if !ok {
			return
		}

		stats, err := svc.Stats(db, cid)
		if err != nil {
			if errors.Is(err, svc.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func chatJSON(chat models.Chat) gin.H {
	return gin.H{
		"id":         chat.ID,
		"title":      chat.Title,
		"created_at": chat.CreatedAt,
	}
}
