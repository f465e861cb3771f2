package services

import (
	"errors"

	"PolyChat/models"

	"gorm.io/gorm"
)

// DeletionReport carries the record counts removed by a chat cascade delete.
type DeletionReport struct {
	DeletedMessagesCount    int64 `json:"deleted_messages_count"`
	DeletedAttachmentsCount int64 `json:"deleted_attachments_count"`
}

// DeleteChatCascade removes a chat and everything referencing it: physical
// files best-effort first, then attachment records, messages, and the chat
// itself. Each step is atomic in isolation; a crash mid-sequence leaves a
// state that a re-issued delete cleans up.
func DeleteChatCascade(db *gorm.DB, storage *AttachmentStorage, chatID uint) (DeletionReport, error) {
	var chat models.Chat
	if err := db.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeletionReport{}, ErrNotFound
		}
		return DeletionReport{}, err
	}

	atts, err := storage.ListForChat(chatID)
	if err != nil {
		return DeletionReport{}, err
	}
	storage.removeFiles(atts)

	report := DeletionReport{DeletedAttachmentsCount: int64(len(atts))}

	if err := db.Unscoped().Where("chat_id = ?", chatID).Delete(&models.FileAttachment{}).Error; err != nil {
		return DeletionReport{}, err
	}

	res := db.Unscoped().Where("chat_id = ?", chatID).Delete(&models.Message{})
	if res.Error != nil {
		return DeletionReport{}, res.Error
	}
	report.DeletedMessagesCount = res.RowsAffected

	if err := db.Unscoped().Delete(&models.Chat{}, chatID).Error; err != nil {
		return DeletionReport{}, err
	}
	return report, nil
}
