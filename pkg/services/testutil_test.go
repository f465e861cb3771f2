package services

import (
	"path/filepath"
	"testing"

	"PolyChat/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}, &models.FileAttachment{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUserAndChat(t *testing.T, db *gorm.DB, email string) (models.User, models.Chat) {
	t.Helper()
	user := models.User{Email: email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	chat := models.Chat{UserID: user.ID, Title: models.DefaultChatTitle}
	if err := db.Create(&chat).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return user, chat
}
