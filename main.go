package main

import (
	"log"
	"time"

	"PolyChat/models"
	"PolyChat/pkg/config"
	svc "PolyChat/pkg/services"
	"PolyChat/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	if config.DatabaseURL != "" {
		return gorm.Open(mysql.Open(config.DatabaseURL), &gorm.Config{})
	}
	// no DSN configured: local sqlite file
	return gorm.Open(sqlite.Open("app.db"), &gorm.Config{})
}

func main() {
	db, err := openDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}, &models.FileAttachment{}); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	storage := svc.NewAttachmentStorage(db, config.UploadDir)
	dispatcher := svc.NewDispatcher(db, storage)

	// hourly orphan-file sweep, independent of request handling
	stop := make(chan struct{})
	defer close(stop)
	storage.StartSweeper(time.Duration(config.OrphanSweepIntervalSeconds)*time.Second, stop)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", config.UploadDir)

	routes.RegisterRoutes(r, db, storage, dispatcher)
	r.Run(":" + config.Port)
}
