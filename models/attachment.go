package models

import "gorm.io/gorm"

const (
	AttachmentTypeImage    = "image"
	AttachmentTypeDocument = "document"
)

type FileAttachment struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	ChatID       uint   `gorm:"index;not null"`
	OriginalName string `gorm:"size:255;not null"`
	// Filename is the storage key on disk; collisions are rejected, never overwritten.
	Filename string `gorm:"uniqueIndex;size:255;not null"`
	MimeType string `gorm:"size:100;not null"`
	Size     int64  `gorm:"not null"`
	Path     string `gorm:"size:500;not null"`
	Type     string `gorm:"size:20;not null"` // "image" or "document"
}
