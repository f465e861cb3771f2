package services

import (
	"errors"
	"time"

	"PolyChat/models"

	"gorm.io/gorm"
)

// MessageView is one turn of a chat's history with its owner reduced to the
// email and attachment references expanded to full records.
type MessageView struct {
	ID          uint                    `json:"id"`
	ChatID      uint                    `json:"chat_id"`
	UserEmail   string                  `json:"user_email"`
	Provider    string                  `json:"provider"`
	Role        string                  `json:"role"`
	Text        string                  `json:"text"`
	Attachments []models.FileAttachment `json:"attachments"`
	Timestamp   time.Time               `json:"timestamp"`
}

// ChatStats aggregates a chat's ledger counts.
type ChatStats struct {
	ChatID          uint             `json:"chat_id"`
	Title           string           `json:"title"`
	CreatedAt       time.Time        `json:"created_at"`
	MessageCount    int64            `json:"message_count"`
	AttachmentCount int64            `json:"attachment_count"`
	ProviderStats   map[string]int64 `json:"provider_stats"`
}

// AppendMessage records one turn. Only user turns may carry attachments;
// assistant turns are always appended with a nil attachment list.
func AppendMessage(db *gorm.DB, chatID, userID uint, provider, role, text string, attachments []models.FileAttachment) (models.Message, error) {
	msg := models.Message{
		ChatID:    chatID,
		UserID:    userID,
		Provider:  provider,
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
	if role == models.RoleUser {
		msg.Attachments = attachments
	}
	if err := db.Create(&msg).Error; err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// History returns a chat's turns in ascending timestamp order, optionally
// restricted to one provider. Timestamp ties keep insertion order.
func History(db *gorm.DB, chatID uint, provider string) ([]MessageView, error) {
	q := db.Preload("User").Preload("Attachments").Where("chat_id = ?", chatID)
	if provider != "" {
		q = q.Where("provider = ?", provider)
	}
	var msgs []models.Message
	if err := q.Order("timestamp ASC, id ASC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, toView(m))
	}
	return views, nil
}

// HistoryBatch fetches the union of the requested providers in one query and
// partitions the result per provider, preserving timestamp order.
func HistoryBatch(db *gorm.DB, chatID uint, providers []string) (map[string][]MessageView, error) {
	var msgs []models.Message
	err := db.Preload("Attachments").
		Where("chat_id = ? AND provider IN ?", chatID, providers).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]MessageView, len(providers))
	for _, p := range providers {
		grouped[p] = []MessageView{}
	}
	for _, m := range msgs {
		grouped[m.Provider] = append(grouped[m.Provider], toView(m))
	}
	return grouped, nil
}

// Stats reports a chat's message count, attachment count, and per-provider
// message counts.
func Stats(db *gorm.DB, chatID uint) (ChatStats, error) {
	var chat models.Chat
	if err := db.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChatStats{}, ErrNotFound
		}
		return ChatStats{}, err
	}

	stats := ChatStats{
		ChatID:        chat.ID,
		Title:         chat.Title,
		CreatedAt:     chat.CreatedAt,
		ProviderStats: map[string]int64{},
	}
	if err := db.Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&stats.MessageCount).Error; err != nil {
		return ChatStats{}, err
	}
	if err := db.Model(&models.FileAttachment{}).Where("chat_id = ?", chatID).Count(&stats.AttachmentCount).Error; err != nil {
		return ChatStats{}, err
	}

	rows := []struct {
		Provider string
		Count    int64
	}{}
	err := db.Model(&models.Message{}).
		Select("provider, COUNT(*) as count").
		Where("chat_id = ?", chatID).
		Group("provider").
		Scan(&rows).Error
	if err != nil {
		return ChatStats{}, err
	}
	for _, r := range rows {
		stats.ProviderStats[r.Provider] = r.Count
	}
	return stats, nil
}

func toView(m models.Message) MessageView {
	atts := m.Attachments
	if atts == nil {
		atts = []models.FileAttachment{}
	}
	return MessageView{
		ID:          m.ID,
		ChatID:      m.ChatID,
		UserEmail:   m.User.Email,
		Provider:    m.Provider,
		Role:        m.Role,
		Text:        m.Text,
		Attachments: atts,
		Timestamp:   m.Timestamp,
	}
}
