package users

import (
	"PolyChat/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers account resolution routes
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.POST("/users", controllers.CreateOrFindUser(db))
}
