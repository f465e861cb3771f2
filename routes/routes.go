package routes

import (
	"net/http"

	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chatRoutes "PolyChat/routes/chat"
	convRoutes "PolyChat/routes/conversation"
	fileRoutes "PolyChat/routes/files"
	userRoutes "PolyChat/routes/users"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, storage *svc.AttachmentStorage, dispatcher *svc.Dispatcher) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "chat relay backend running"})
	})

	api := r.Group("/api")
	userRoutes.Register(api, db)
	convRoutes.Register(api, db, storage)
	fileRoutes.Register(api, db, storage)
	chatRoutes.Register(api, db, dispatcher)
}
