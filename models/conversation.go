package models

import "gorm.io/gorm"

const DefaultChatTitle = "New Chat"

type Chat struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE"`
	Title    string `gorm:"size:200"`
	Messages []Message
}
