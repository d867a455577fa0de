package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"rescue-office/internal/adapters/auth/sessionapi"
	"rescue-office/internal/adapters/images/supastore"
	"rescue-office/internal/adapters/notify/webhook"
	"rescue-office/internal/adapters/search/httpindex"
	"rescue-office/internal/adapters/storage/postgres"
	"rescue-office/internal/config"
	"rescue-office/internal/platform/logger"
	"rescue-office/internal/ports/auth"
	"rescue-office/internal/ports/images"
	"rescue-office/internal/ports/notify"
	"rescue-office/internal/ports/search"
	"rescue-office/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("db open", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		db = opened
		defer db.Close()
	}

	var verifier auth.Verifier
	if cfg.AuthBaseURL != "" {
		v, err := sessionapi.NewVerifier(sessionapi.Config{BaseURL: cfg.AuthBaseURL, APIKey: cfg.AuthAPIKey})
		if err != nil {
			log.Error("session api config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	} else {
		log.Warn("no AUTH_BASE_URL, corriendo en modo dev (X-Debug-User-ID)", nil)
	}

	var index search.Index
	if cfg.SearchBaseURL != "" {
		c, err := httpindex.NewClient(httpindex.Config{BaseURL: cfg.SearchBaseURL, APIKey: cfg.SearchAPIKey})
		if err != nil {
			log.Error("search index config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		index = c
	}

	var imageStore images.Storage
	if cfg.SupabaseURL != "" {
		st, err := supastore.New(supastore.Config{
			ProjectURL:     cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseKey,
			Bucket:         cfg.SupabaseBucket,
		})
		if err != nil {
			log.Error("supabase storage config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		imageStore = st
	}

	var notifier notify.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = webhook.NewClient(webhook.Config{EndpointURL: cfg.NotifyWebhookURL, APIKey: cfg.NotifyAPIKey})
	}

	h := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
		Index:        index,
		Images:       imageStore,
		Notifier:     notifier,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
