package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	SubmissionCollection string
	Timeout              time.Duration
	Timezone             string
	ServerLog            *log.Logger
	JWTConfigs           []JWTConfig
	JWTAudience          string
	AllowedOrigins       []string

	// Notification sinks. Each credential set is optional: a sink without
	// credentials is skipped, never an error.
	NotifyTimeout     time.Duration
	ResendAPIKey      string
	ResendEndpoint    string
	EmailFrom         string
	AdminEmail        string
	GoogleClientEmail string
	GooglePrivateKey  string
	GoogleSheetID     string
	NotionAPIKey      string
	NotionDatabaseID  string
	NotionEndpoint    string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	notifyTimeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			notifyTimeout = parsed
		}
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "pocketpro-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("ADMIN_JWT_SECRET must be configured")
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "pocketpro"),
		SubmissionCollection: envOrDefault("SUBMISSION_COLLECTION", "submissions"),
		Timeout:              timeout,
		Timezone:             envOrDefault("TIMEZONE", "Asia/Taipei"),
		ServerLog:            log.New(os.Stdout, "[pocketpro-lead-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:           jwtConfigs,
		JWTAudience:          strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		NotifyTimeout:        notifyTimeout,
		ResendAPIKey:         strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		ResendEndpoint:       strings.TrimSpace(os.Getenv("RESEND_ENDPOINT")),
		EmailFrom:            envOrDefault("LEAD_EMAIL_FROM", "PocketPro <onboarding@resend.dev>"),
		AdminEmail:           envOrDefault("LEAD_ADMIN_EMAIL", "jump@pocketpro.tw"),
		GoogleClientEmail:    strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_EMAIL")),
		GooglePrivateKey:     os.Getenv("GOOGLE_PRIVATE_KEY"),
		GoogleSheetID:        strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
		NotionAPIKey:         strings.TrimSpace(os.Getenv("NOTION_API_KEY")),
		NotionDatabaseID:     strings.TrimSpace(os.Getenv("NOTION_DATABASE_ID")),
		NotionEndpoint:       strings.TrimSpace(os.Getenv("NOTION_ENDPOINT")),
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
