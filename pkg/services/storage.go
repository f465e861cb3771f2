package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PolyChat/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxUploadBytes = 10 * 1024 * 1024 // 10 MiB

var allowedMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"text/plain":         true,
	"text/csv":           true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// AttachmentStorage persists uploaded files on local disk and their metadata
// records in the database. Bytes are always written before metadata so the
// orphan sweep can never see a record whose file is missing.
type AttachmentStorage struct {
	db       *gorm.DB
	basePath string
}

func NewAttachmentStorage(db *gorm.DB, basePath string) *AttachmentStorage {
	os.MkdirAll(basePath, 0755)
	return &AttachmentStorage{db: db, basePath: basePath}
}

// storageKey generates a collision-resistant on-disk name: time-based prefix,
// random suffix, original extension preserved.
func storageKey(originalName string) string {
	ext := filepath.Ext(originalName)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("file-%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// Store validates and persists one upload. On a metadata write failure the
// just-written bytes are removed again, so this path leaves no orphan behind.
func (s *AttachmentStorage) Store(data []byte, originalName, mimeType string, userID, chatID uint) (models.FileAttachment, error) {
	if !allowedMimeTypes[mimeType] {
		return models.FileAttachment{}, ErrUnsupportedMediaType
	}
	if int64(len(data)) > MaxUploadBytes {
		return models.FileAttachment{}, ErrPayloadTooLarge
	}

	filename := storageKey(originalName)
	path := filepath.Join(s.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return models.FileAttachment{}, fmt.Errorf("write upload: %w", err)
	}

	attType := models.AttachmentTypeDocument
	if strings.HasPrefix(mimeType, "image/") {
		attType = models.AttachmentTypeImage
	}

	att := models.FileAttachment{
		UserID:       userID,
		ChatID:       chatID,
		OriginalName: originalName,
		Filename:     filename,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Path:         path,
		Type:         attType,
	}
	if err := s.db.Create(&att).Error; err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("[storage] rollback remove %s failed: %v", path, rmErr)
		}
		return models.FileAttachment{}, fmt.Errorf("save attachment record: %w", err)
	}
	return att, nil
}

func (s *AttachmentStorage) Resolve(id uint) (models.FileAttachment, error) {
	var att models.FileAttachment
	if err := s.db.First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FileAttachment{}, ErrNotFound
		}
		return models.FileAttachment{}, err
	}
	return att, nil
}

// ListForChat returns a chat's attachments, newest first.
func (s *AttachmentStorage) ListForChat(chatID uint) ([]models.FileAttachment, error) {
	var atts []models.FileAttachment
	err := s.db.Where("chat_id = ?", chatID).Order("created_at DESC").Find(&atts).Error
	return atts, err
}

// Delete removes an attachment owned by userID. A failing physical delete is
// logged and never blocks the metadata delete.
func (s *AttachmentStorage) Delete(id, userID uint) error {
	att, err := s.Resolve(id)
	if err != nil {
		return err
	}
	if att.UserID != userID {
		return ErrForbidden
	}

	if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("[storage] error deleting physical file %s: %v", att.Path, err)
	}
	return s.db.Unscoped().Delete(&models.FileAttachment{}, att.ID).Error
}

// removeFiles deletes the physical files of the given attachments,
// best-effort, and reports how many records they represent.
func (s *AttachmentStorage) removeFiles(atts []models.FileAttachment) {
	for _, att := range atts {
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("[storage] error deleting file %s: %v", att.Path, err)
		}
	}
}

// SweepOrphans deletes every file in the storage root that has no matching
// metadata record. Per-file failures are logged and never abort the sweep.
func (s *AttachmentStorage) SweepOrphans() {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		log.Printf("[sweep] error reading storage root: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var count int64
		if err := s.db.Model(&models.FileAttachment{}).Where("filename = ?", entry.Name()).Count(&count).Error; err != nil {
			log.Printf("[sweep] lookup for %s failed: %v", entry.Name(), err)
			continue
		}
		if count > 0 {
			continue
		}
		path := filepath.Join(s.basePath, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("[sweep] error deleting orphaned file %s: %v", entry.Name(), err)
			continue
		}
		log.Printf("[sweep] deleted orphaned file: %s", entry.Name())
	}
}

// StartSweeper runs SweepOrphans on a fixed interval until stop is closed.
func (s *AttachmentStorage) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepOrphans()
			case <-stop:
				return
			}
		}
	}()
}
