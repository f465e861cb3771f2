package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"PolyChat/models"
	"PolyChat/pkg/cache"
	"PolyChat/pkg/config"

	"gorm.io/gorm"
)

var ErrInvalidProvider = errors.New("invalid provider specified")

// Dispatcher fans one logical chat request out to one of the backend
// adapters and records both sides of the exchange. The adapters are built
// once and injected; Dispatch itself holds no per-request state.
type Dispatcher struct {
	db       *gorm.DB
	storage  *AttachmentStorage
	clients  map[string]ProviderClient
	cacheTTL time.Duration
}

func NewDispatcher(db *gorm.DB, storage *AttachmentStorage) *Dispatcher {
	return &Dispatcher{
		db:      db,
		storage: storage,
		clients: map[string]ProviderClient{
			models.ProviderOpenAI: NewOpenAIClient(config.OpenAIAPIKey, config.OpenAIModel),
			models.ProviderGemini: NewGeminiClient(config.GeminiAPIKey, config.GeminiModel),
			models.ProviderClaude: NewClaudeClient(config.ClaudeAPIKey, config.ClaudeModel),
			models.ProviderOllama: NewOllamaClient(config.OllamaBaseURL, config.OllamaModel),
		},
		cacheTTL: time.Duration(config.ChatCacheTTLSeconds) * time.Second,
	}
}

// Dispatch runs the full exchange: resolve attachment references, frame the
// outgoing body, persist the user turn, invoke the backend, persist the
// assistant turn, return the reply text. Backend failures are absorbed into
// a labeled assistant reply; exactly two turns are persisted either way.
func (d *Dispatcher) Dispatch(ctx context.Context, provider string, chatID uint, user models.User, text string, history []ChatMessage, attachmentIDs []uint) (string, error) {
	client, ok := d.clients[provider]
	if !ok {
		return "", ErrInvalidProvider
	}

	// Unresolvable references are dropped, not an error; only resolved
	// attachments contribute to the framing.
	var resolved []models.FileAttachment
	for _, id := range attachmentIDs {
		att, err := d.storage.Resolve(id)
		if err != nil {
			log.Printf("[dispatch] dropping unresolved attachment %d: %v", id, err)
			continue
		}
		resolved = append(resolved, att)
	}

	body := composeBody(text, resolved)

	if _, err := AppendMessage(d.db, chatID, user.ID, provider, models.RoleUser, body, resolved); err != nil {
		return "", fmt.Errorf("save user message: %w", err)
	}

	reply := d.invoke(ctx, provider, client, body, history)

	if _, err := AppendMessage(d.db, chatID, user.ID, provider, models.RoleAssistant, reply, nil); err != nil {
		return "", fmt.Errorf("save assistant message: %w", err)
	}

	if err := d.db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("api_calls_made", gorm.Expr("api_calls_made + 1")).Error; err != nil {
		log.Printf("[dispatch] usage counter update failed for %s: %v", user.Email, err)
	}

	return reply, nil
}

func (d *Dispatcher) invoke(ctx context.Context, provider string, client ProviderClient, body string, history []ChatMessage) string {
	var key string
	if d.cacheTTL > 0 {
		parts := append([]string{provider, body}, flattenHistory(history)...)
		key = cache.KeyFromStrings(parts...)
		if v, ok := cache.Default().Get(key); ok {
			if reply, ok := v.(string); ok {
				return reply
			}
		}
	}

	reply, err := client.Invoke(ctx, body, history)
	if err != nil {
		log.Printf("[dispatch] %s error: %v", provider, err)
		return errorReply(provider, err)
	}

	if d.cacheTTL > 0 && strings.TrimSpace(reply) != "" {
		cache.Default().Set(key, reply, d.cacheTTL)
	}
	return reply
}

// composeBody appends a bracketed descriptor per resolved attachment to the
// raw text: [Image: name] for images, [Document: name, Type: mime] otherwise.
func composeBody(text string, atts []models.FileAttachment) string {
	if len(atts) == 0 {
		return text
	}
	parts := make([]string, 0, len(atts))
	for _, att := range atts {
		if att.Type == models.AttachmentTypeImage {
			parts = append(parts, fmt.Sprintf("[Image: %s]", att.OriginalName))
		} else {
			parts = append(parts, fmt.Sprintf("[Document: %s, Type: %s]", att.OriginalName, att.MimeType))
		}
	}
	context := strings.Join(parts, " ")
	if text == "" {
		return "Attachments: " + context
	}
	return text + "\n\nAttachments: " + context
}

func errorReply(provider string, err error) string {
	switch provider {
	case models.ProviderOpenAI:
		return fmt.Sprintf("OpenAI API error: %v", err)
	case models.ProviderGemini:
		return fmt.Sprintf("Gemini API error: %v", err)
	case models.ProviderClaude:
		return fmt.Sprintf("Claude API error: %v", err)
	case models.ProviderOllama:
		return fmt.Sprintf("Ollama service error: %v. Please ensure Ollama is running locally.", err)
	}
	return fmt.Sprintf("%s error: %v", provider, err)
}

func flattenHistory(history []ChatMessage) []string {
	out := make([]string, 0, len(history)*2)
	for _, m := range history {
		out = append(out, m.Role, m.Text)
	}
	return out
}
