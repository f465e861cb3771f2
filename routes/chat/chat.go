package chat

import (
	"PolyChat/controllers"
	"PolyChat/middleware"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers the provider dispatch route
func Register(g *gin.RouterGroup, db *gorm.DB, dispatcher *svc.Dispatcher) {
	// Basic rate limiting on the dispatch endpoint
	g.POST("/chat/:provider", middleware.RateLimit(), controllers.ChatWithProvider(db, dispatcher))
}
