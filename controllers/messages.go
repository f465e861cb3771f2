package controllers

import (
	"net/http"

	"PolyChat/models"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMessages returns a chat's history in ascending timestamp order,
// optionally filtered to one provider.
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, ok := chatIDParam(c)
		if !ok {
			return
		}
		provider := c.Query("provider")
		if provider != "" && !models.ValidProvider(provider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider specified"})
			return
		}

		views, err := svc.History(db, cid, provider)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// BatchMessages returns a chat's history for several providers in one fetch,
// partitioned by provider tag.
func BatchMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			ChatID    uint     `json:"chat_id"`
			Providers []string `json:"providers"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.ChatID == 0 || len(body.Providers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id and providers array are required"})
			return
		}
		for _, p := range body.Providers {
			if !models.ValidProvider(p) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider specified"})
				return
			}
		}

		grouped, err := svc.HistoryBatch(db, body.ChatID, body.Providers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, grouped)
	}
}
