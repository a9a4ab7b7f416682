package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"earnwallet/internal/config"
	"earnwallet/internal/db"
	"earnwallet/internal/logger"
	"earnwallet/internal/models"
	"earnwallet/internal/router"
	"earnwallet/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Starting earnwallet")

	var st store.Store
	if cfg.DBUrl != "" {
		database := db.InitDB(cfg.DBUrl)
		defer database.Close()
		db.RunMigrations(database)
		st = store.NewMySQL(database)
	} else {
		log.Warn().Msg("DB_URL not set, using in-memory store (data is not persisted)")
		st = store.NewMemory()
	}

	// Roles are never writable through the API; the configured bootstrap
	// identity is promoted here once its record exists.
	if cfg.AdminUserID != "" {
		if err := st.SetUserRole(context.Background(), cfg.AdminUserID, string(models.RoleAdmin)); err != nil {
			log.Warn().Err(err).Str("user_id", cfg.AdminUserID).Msg("Admin bootstrap skipped")
		} else {
			log.Info().Str("user_id", cfg.AdminUserID).Msg("Admin user promoted")
		}
	}

	r := router.SetupRouter(st, cfg, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
