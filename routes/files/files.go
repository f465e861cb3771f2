package files

import (
	"PolyChat/controllers"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers upload and file retrieval routes
func Register(g *gin.RouterGroup, db *gorm.DB, storage *svc.AttachmentStorage) {
	g.POST("/upload", controllers.UploadFile(db, storage))
	g.GET("/files/:file_id", controllers.ServeFile(storage))
	g.DELETE("/files/:file_id", controllers.DeleteFile(db, storage))
}
