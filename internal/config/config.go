package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP server
	HTTPPort string

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Jobs aggregation API (ingestion source)
	JobsAPIKey     string
	JobsAPIHost    string
	JobsAPIBaseURL string
	JobsAPITimeout time.Duration
	JobsQuery      string
	JobsPageSize   int
	JobsRemoteOnly bool
	JobsIncludeAI  bool

	// Search API (organization website lookup)
	SerpAPIKey     string
	SerpAPIBaseURL string

	// Company enrichment API
	CompanyAPIKey     string
	CompanyAPIBaseURL string

	// LLM classifier
	OpenAIKey     string
	OpenAIModel   string
	ClassifyDelay time.Duration

	// Sync schedule (cron spec)
	SyncSchedule string

	// Telegram admin notifications (optional)
	TelegramToken  string
	TelegramChatID int64

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		HTTPPort:          "8080",
		RedisAddr:         "localhost:6379",
		RedisDB:           0,
		JobsAPIHost:       "active-jobs-db.p.rapidapi.com",
		JobsAPIBaseURL:    "https://active-jobs-db.p.rapidapi.com",
		JobsAPITimeout:    30 * time.Second,
		JobsQuery:         "cyber security",
		JobsPageSize:      100,
		JobsRemoteOnly:    true,
		JobsIncludeAI:     true,
		SerpAPIBaseURL:    "https://serpapi.com",
		CompanyAPIBaseURL: "https://api.thecompaniesapi.com",
		OpenAIModel:       "gpt-4o-mini",
		ClassifyDelay:     2 * time.Second,
		SyncSchedule:      "0 6 * * *",
		LogLevel:          "info",
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if port := os.Getenv("HTTP_PORT"); port != "" {
		cfg.HTTPPort = port
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	// The ingestion key stays optional at load time: the read API can serve
	// without it, and a sync run reports the missing credential as its own
	// fatal error before any network call.
	cfg.JobsAPIKey = os.Getenv("RAPIDAPI_KEY")

	if host := os.Getenv("JOBS_API_HOST"); host != "" {
		cfg.JobsAPIHost = host
	}

	if baseURL := os.Getenv("JOBS_API_BASE_URL"); baseURL != "" {
		cfg.JobsAPIBaseURL = baseURL
	}

	if timeout := os.Getenv("JOBS_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid JOBS_API_TIMEOUT: %w", err)
		}
		cfg.JobsAPITimeout = d
	}

	if query := os.Getenv("JOBS_QUERY"); query != "" {
		cfg.JobsQuery = query
	}

	if pageSize := os.Getenv("JOBS_PAGE_SIZE"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil {
			return nil, fmt.Errorf("invalid JOBS_PAGE_SIZE: %w", err)
		}
		cfg.JobsPageSize = n
	}

	if remote := os.Getenv("JOBS_REMOTE_ONLY"); remote != "" {
		v, err := strconv.ParseBool(remote)
		if err != nil {
			return nil, fmt.Errorf("invalid JOBS_REMOTE_ONLY: %w", err)
		}
		cfg.JobsRemoteOnly = v
	}

	if includeAI := os.Getenv("JOBS_INCLUDE_AI"); includeAI != "" {
		v, err := strconv.ParseBool(includeAI)
		if err != nil {
			return nil, fmt.Errorf("invalid JOBS_INCLUDE_AI: %w", err)
		}
		cfg.JobsIncludeAI = v
	}

	cfg.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	if baseURL := os.Getenv("SERPAPI_BASE_URL"); baseURL != "" {
		cfg.SerpAPIBaseURL = baseURL
	}

	cfg.CompanyAPIKey = os.Getenv("COMPANY_API_KEY")
	if baseURL := os.Getenv("COMPANY_API_BASE_URL"); baseURL != "" {
		cfg.CompanyAPIBaseURL = baseURL
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.OpenAIModel = model
	}

	if delay := os.Getenv("CLASSIFY_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return nil, fmt.Errorf("invalid CLASSIFY_DELAY: %w", err)
		}
		cfg.ClassifyDelay = d
	}

	if schedule := os.Getenv("SYNC_SCHEDULE"); schedule != "" {
		cfg.SyncSchedule = schedule
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.JobsPageSize < 1 || c.JobsPageSize > 200 {
		return fmt.Errorf("jobs page size must be between 1 and 200, got %d", c.JobsPageSize)
	}

	if c.ClassifyDelay < 0 {
		return fmt.Errorf("classify delay must not be negative: %v", c.ClassifyDelay)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
