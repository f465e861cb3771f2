package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PolyChat/models"
)

func newTestStorage(t *testing.T) (*AttachmentStorage, string) {
	t.Helper()
	dir := t.TempDir()
	return NewAttachmentStorage(openTestDB(t), dir), dir
}

func TestStoreValidUpload(t *testing.T) {
	storage, dir := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "up@x.com")

	data := []byte("hello world")
	att, err := storage.Store(data, "notes.txt", "text/plain", user.ID, chat.ID)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if att.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), att.Size)
	}
	if att.Type != models.AttachmentTypeDocument {
		t.Fatalf("expected document type, got %s", att.Type)
	}
	if filepath.Ext(att.Filename) != ".txt" {
		t.Fatalf("expected original extension preserved in key, got %s", att.Filename)
	}
	stored, err := os.ReadFile(filepath.Join(dir, att.Filename))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(stored) != string(data) {
		t.Fatalf("stored bytes differ from upload")
	}
}

func TestStoreImageTypeTag(t *testing.T) {
	storage, _ := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "img@x.com")

	att, err := storage.Store([]byte{0xff, 0xd8}, "photo.jpg", "image/jpeg", user.ID, chat.ID)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if att.Type != models.AttachmentTypeImage {
		t.Fatalf("expected image type, got %s", att.Type)
	}
}

func TestStoreRejectsDisallowedMime(t *testing.T) {
	storage, dir := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "zip@x.com")

	_, err := storage.Store([]byte("PK"), "archive.zip", "application/zip", user.ID, chat.ID)
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}

	var count int64
	storage.db.Model(&models.FileAttachment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no attachment record, got %d", count)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no residual bytes, got %d files", len(entries))
	}
}

func TestStoreRejectsOversizedPayload(t *testing.T) {
	storage, dir := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "big@x.com")

	_, err := storage.Store(make([]byte, MaxUploadBytes+1), "big.txt", "text/plain", user.ID, chat.ID)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no residual bytes, got %d files", len(entries))
	}
}

func TestListForChatNewestFirst(t *testing.T) {
	storage, _ := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "list@x.com")

	first, err := storage.Store([]byte("a"), "a.txt", "text/plain", user.ID, chat.ID)
	if err != nil {
		t.Fatalf("store a: %v", err)
	}
	second, err := storage.Store([]byte("b"), "b.txt", "text/plain", user.ID, chat.ID)
	if err != nil {
		t.Fatalf("store b: %v", err)
	}
	// force distinct created_at ordering regardless of clock resolution
	storage.db.Model(&models.FileAttachment{}).Where("id = ?", second.ID).
		UpdateColumn("created_at", first.CreatedAt.Add(time.Second))

	atts, err := storage.ListForChat(chat.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(atts))
	}
	if atts[0].ID != second.ID {
		t.Fatalf("expected newest first, got id %d first", atts[0].ID)
	}
}

func TestDeleteOwnership(t *testing.T) {
	storage, _ := newTestStorage(t)
	owner, chat := seedUserAndChat(t, storage.db, "owner@x.com")
	other := models.User{Email: "other@x.com"}
	if err := storage.db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}

	att, err := storage.Store([]byte("x"), "x.txt", "text/plain", owner.ID, chat.ID)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if err := storage.Delete(att.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := storage.Delete(att.ID, owner.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := storage.Resolve(att.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := os.Stat(att.Path); !os.IsNotExist(err) {
		t.Fatalf("expected physical file removed")
	}
}

func TestSweepOrphansKeepsReferencedFiles(t *testing.T) {
	storage, dir := newTestStorage(t)
	user, chat := seedUserAndChat(t, storage.db, "sweep@x.com")

	att, err := storage.Store([]byte("keep"), "keep.txt", "text/plain", user.ID, chat.ID)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	orphan := filepath.Join(dir, "file-0-dead.txt")
	if err := os.WriteFile(orphan, []byte("orphan"), 0644); err != nil {
		t.Fatalf("write orphan: %v", err)
	}

	storage.SweepOrphans()

	if _, err := os.Stat(att.Path); err != nil {
		t.Fatalf("expected referenced file to survive sweep: %v", err)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Fatalf("expected orphan deleted by sweep")
	}
}
