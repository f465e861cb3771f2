package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	OpenAIAPIKey  string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	ClaudeAPIKey  string
	ClaudeModel   string
	OllamaBaseURL string
	OllamaModel   string

	DatabaseURL  string
	AppEnv       string
	IsProduction bool

	Port      string
	UploadDir string

	// runtime tunables
	RateLimitWindowSeconds     int
	RateLimitCapacity          int
	UserConcurrencyLimit       int
	DuplicateWindowSeconds     int
	ChatCacheTTLSeconds        int
	OrphanSweepIntervalSeconds int
)

// loadAppEnv skips the .env file in production; everywhere else a missing
// .env is fine (env vars may come from the host).
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	OpenAIModel = os.Getenv("OPENAI_MODEL")
	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = os.Getenv("GEMINI_MODEL")
	ClaudeAPIKey = os.Getenv("CLAUDE_API_KEY")
	ClaudeModel = os.Getenv("CLAUDE_MODEL")
	OllamaBaseURL = os.Getenv("OLLAMA_BASE_URL")
	OllamaModel = os.Getenv("OLLAMA_MODEL")

	DatabaseURL = os.Getenv("DATABASE_URL")

	AppEnv = os.Getenv("APP_ENV")
	IsProduction = AppEnv == "production"

	if OpenAIModel == "" {
		OpenAIModel = "gpt-3.5-turbo"
	}
	if GeminiModel == "" {
		GeminiModel = "gemini-1.5-flash-latest"
	}
	if ClaudeModel == "" {
		ClaudeModel = "claude-3-haiku-20240307"
	}
	if OllamaBaseURL == "" {
		OllamaBaseURL = "http://localhost:11434"
	}
	if OllamaModel == "" {
		OllamaModel = "llama3.2:latest"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8000"
	}
	// Storage root is a fixed relative path next to the binary.
	UploadDir = "./uploads"

	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 5)
	UserConcurrencyLimit = atoiOr(os.Getenv("USER_CONCURRENCY_LIMIT"), 2)
	DuplicateWindowSeconds = atoiOr(os.Getenv("DUPLICATE_WINDOW_SECONDS"), 45)
	ChatCacheTTLSeconds = atoiOr(os.Getenv("CHAT_CACHE_TTL_SECONDS"), 0)
	OrphanSweepIntervalSeconds = atoiOr(os.Getenv("ORPHAN_SWEEP_INTERVAL_SECONDS"), 3600)

	log.Printf("[config] AppEnv=%s IsProduction=%v", AppEnv, IsProduction)
	log.Printf("[config] providers: openai=%v gemini=%v claude=%v ollama=%s",
		OpenAIAPIKey != "", GeminiAPIKey != "", ClaudeAPIKey != "", OllamaBaseURL)
	log.Printf("[config] RateLimit window=%ds capacity=%d userConc=%d dupWindow=%ds cacheTTL=%ds sweep=%ds",
		RateLimitWindowSeconds, RateLimitCapacity, UserConcurrencyLimit,
		DuplicateWindowSeconds, ChatCacheTTLSeconds, OrphanSweepIntervalSeconds)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
