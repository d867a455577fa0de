package config

import (
	"os"
	"strings"
)

// Config junta todo lo que viene de env vars. Cada bloque es opcional:
// sin DB_DSN se corre in-memory, sin SEARCH_* no hay índice, etc.
type Config struct {
	Port  string
	DBDSN string

	SearchBaseURL string
	SearchAPIKey  string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	NotifyWebhookURL string
	NotifyAPIKey     string

	AuthBaseURL string
	AuthAPIKey  string
}

func FromEnv() Config {
	return Config{
		Port:  getenv("PORT", "8080"),
		DBDSN: getenv("DB_DSN", ""),

		SearchBaseURL: getenv("SEARCH_BASE_URL", ""),
		SearchAPIKey:  getenv("SEARCH_API_KEY", ""),

		SupabaseURL:    getenv("SUPABASE_URL", ""),
		SupabaseKey:    getenv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseBucket: getenv("SUPABASE_BUCKET", "animal-pictures"),

		NotifyWebhookURL: getenv("NOTIFY_WEBHOOK_URL", ""),
		NotifyAPIKey:     getenv("NOTIFY_API_KEY", ""),

		AuthBaseURL: getenv("AUTH_BASE_URL", ""),
		AuthAPIKey:  getenv("AUTH_API_KEY", ""),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
