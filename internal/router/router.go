package router

import (
	"net/http"

	"earnwallet/internal/config"
	"earnwallet/internal/handlers"
	"earnwallet/internal/middleware"
	"earnwallet/internal/services"
	"earnwallet/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(st store.Store, cfg config.Config, logger zerolog.Logger) *mux.Router {
	ledgerService := services.NewLedgerService(st, logger)
	userService := services.NewUserService(st, logger)

	authHandler := handlers.NewAuthHandler(userService, logger, cfg.JWTSecret, cfg.DevAuth)
	walletHandler := handlers.NewWalletHandler(ledgerService, logger)
	taskHandler := handlers.NewTaskHandler(ledgerService, logger)
	adminHandler := handlers.NewAdminHandler(ledgerService, userService, logger)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	if cfg.DevAuth {
		auth.HandleFunc("/dev-token", authHandler.DevToken).Methods("POST")
	}
	protectedAuth := auth.PathPrefix("").Subrouter()
	protectedAuth.Use(middleware.Authentication(jwtSecret, logger))
	protectedAuth.HandleFunc("/user", authHandler.GetCurrentUser).Methods("GET")

	wallet := api.PathPrefix("/wallet").Subrouter()
	wallet.Use(middleware.Authentication(jwtSecret, logger))
	wallet.Use(middleware.RequestValidation())
	wallet.HandleFunc("/deposit", walletHandler.Deposit).Methods("POST")
	wallet.HandleFunc("/withdrawal", walletHandler.Withdraw).Methods("POST")
	wallet.HandleFunc("/transactions", walletHandler.GetTransactions).Methods("GET")
	wallet.HandleFunc("/stats", walletHandler.GetStats).Methods("GET")

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(middleware.Authentication(jwtSecret, logger))
	tasks.HandleFunc("", taskHandler.ListTasks).Methods("GET")
	tasks.HandleFunc("/{id}/complete", taskHandler.CompleteTask).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Authentication(jwtSecret, logger))
	admin.Use(middleware.RequestValidation())
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods("GET")
	admin.HandleFunc("/users", adminHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/status", adminHandler.UpdateUserStatus).Methods("PATCH")
	admin.HandleFunc("/withdrawals/pending", adminHandler.GetPendingWithdrawals).Methods("GET")
	admin.HandleFunc("/withdrawals/{id}", adminHandler.ResolveWithdrawal).Methods("PATCH")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
