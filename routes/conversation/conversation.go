package conversation

import (
	"PolyChat/controllers"
	svc "PolyChat/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers chat session routes
func Register(g *gin.RouterGroup, db *gorm.DB, storage *svc.AttachmentStorage) {
	g.POST("/chats", controllers.CreateChat(db))
	g.GET("/chats", controllers.ListChats(db))
	g.PUT("/chats/:chat_id", controllers.RenameChat(db))
	g.DELETE("/chats/batch", controllers.BatchDeleteChats(db, storage))
	g.DELETE("/chats/:chat_id", controllers.DeleteChat(db, storage))
	g.GET("/chats/:chat_id/stats", controllers.GetChatStats(db))
	g.GET("/chats/:chat_id/attachments", controllers.ListChatAttachments(storage))
	g.GET("/messages/:chat_id", controllers.GetMessages(db))
	g.POST("/messages/batch", controllers.BatchMessages(db))
}
