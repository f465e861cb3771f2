package controllers

import (
	"net/http"
	"strings"

	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateOrFindUser resolves an email to its account, creating one on first
// contact.
func CreateOrFindUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
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
		c.JSON(http.StatusOK, gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"is_premium":     user.IsPremium,
			"api_calls_made": user.APICallsMade,
		})
	}
}
