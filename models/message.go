package models

import (
	"time"

	"gorm.io/gorm"
)

// Provider tags form a closed set; anything else is rejected before any write.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func ValidProvider(p string) bool {
	switch p {
	case ProviderOpenAI, ProviderGemini, ProviderClaude, ProviderOllama:
		return true
	}
	return false
}

type Message struct {
	gorm.Model
	ChatID      uint             `gorm:"index;not null"`
	UserID      uint             `gorm:"index;not null"`
	User        User             `gorm:"constraint:OnUpdate:CASCADE"`
	Provider    string           `gorm:"size:20;index;not null"`
	Role        string           `gorm:"size:20;not null"` // "user" or "assistant"
	Text        string           `gorm:"type:text;not null"`
	Attachments []FileAttachment `gorm:"many2many:message_attachments"`
	Timestamp   time.Time        `gorm:"index;autoCreateTime"`
}
