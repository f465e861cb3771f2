package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func fileIDParam(c *gin.Context) (uint, bool) {
	fid, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return 0, false
	}
	return uint(fid), true
}

// UploadFile accepts one multipart file plus the owning email and target
// chat id, validates it, and stores bytes and metadata.
func UploadFile(db *gorm.DB, storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
			return
		}
		email := strings.TrimSpace(c.PostForm("email"))
		chatIDStr := c.PostForm("chat_id")
		chatID, convErr := strconv.Atoi(chatIDStr)
		if email == "" || convErr != nil || chatID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and chat_id are required"})
			return
		}

		var user struct{ ID uint }
		if err := db.Table("users").Select("id").Where("email = ?", email).Take(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		var chat struct{ ID uint }
		if err := db.Table("chats").Select("id").Where("id = ? AND deleted_at IS NULL", chatID).Take(&chat).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}

		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			return
		}

		mimeType := header.Header.Get("Content-Type")
		att, err := storage.Store(data, header.Filename, mimeType, user.ID, uint(chatID))
		if err != nil {
			switch {
			case errors.Is(err, svc.ErrUnsupportedMediaType):
				c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "file type not allowed"})
			case errors.Is(err, svc.ErrPayloadTooLarge):
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large. Maximum size is 10MB"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":            att.ID,
			"original_name": att.OriginalName,
			"filename":      att.Filename,
			"mimetype":      att.MimeType,
			"size":          att.Size,
			"type":          att.Type,
			"url":           fmt.Sprintf("/api/files/%d", att.ID),
		})
	}
}

// ServeFile streams the stored bytes with the original MIME type and
// filename framing.
func ServeFile(storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		fid, ok := fileIDParam(c)
		if !ok {
			return
		}

		att, err := storage.Resolve(fid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		if _, err := os.Stat(att.Path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "physical file not found"})
			return
		}

		c.Header("Content-Type", att.MimeType)
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.OriginalName))
		c.File(att.Path)
	}
}

// ListChatAttachments returns a chat's attachments, newest first.
func ListChatAttachments(storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, ok := chatIDParam(c)
		if !ok {
			return
		}

		atts, err := storage.ListForChat(cid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attachments"})
			return
		}

		result := make([]gin.H, 0, len(atts))
		for _, att := range atts {
			result = append(result, gin.H{
				"id":            att.ID,
				"original_name": att.OriginalName,
				"filename":      att.Filename,
				"mimetype":      att.MimeType,
				"size":          att.Size,
				"type":          att.Type,
				"created_at":    att.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

// DeleteFile removes one attachment; only the owner may delete it.
func DeleteFile(db *gorm.DB, storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		fid, ok := fileIDParam(c)
		if !ok {
			return
		}
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			var body struct {
				Email string `json:"email"`
			}
			if err := c.ShouldBindJSON(&body); err == nil {
				email = strings.TrimSpace(body.Email)
			}
		}
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		var user struct{ ID uint }
		if err := db.Table("users").Select("id").Where("email = ?", email).Take(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		if err := storage.Delete(fid, user.ID); err != nil {
			switch {
			case errors.Is(err, svc.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			case errors.Is(err, svc.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to delete this file"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "file deleted"})
	}
}
