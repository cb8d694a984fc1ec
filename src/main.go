package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"gajanji-server/src/api"
	"gajanji-server/src/auth"
	"gajanji-server/src/chat"
	"gajanji-server/src/config"
	"gajanji-server/src/db"
	store "gajanji-server/src/db/sql"
	"gajanji-server/src/logger"
	"gajanji-server/src/mail"
	"gajanji-server/src/notifier"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel})
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schema first, then the pool
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Error("Database migration failed", logger.FieldError, err)
		os.Exit(1)
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("DB connection failed", logger.FieldError, err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := db.NewViewCache(cfg.CacheMaxCost)
	if err != nil {
		log.Error("Cache initialization failed", logger.FieldError, err)
		os.Exit(1)
	}
	defer cache.Close()

	st := store.NewStore(pool)

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log)
	} else {
		log.Warn("SMTP_HOST not set, emails will only be logged")
		mailer = mail.NewLogSender(log)
	}

	var engine chat.Engine
	switch cfg.ChatEngine {
	case "gemini":
		engine, err = chat.NewGeminiEngine(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error("Chat engine initialization failed", logger.FieldError, err)
			os.Exit(1)
		}
	default:
		engine = chat.NewRasaEngine(cfg.RasaURL, cfg.ChatTimeout)
	}

	budgets := notifier.New(st, mailer, notifier.Config{
		Concurrency: cfg.NotifyConcurrency,
		Location:    cfg.Location(),
		BudgetsURL:  cfg.FrontendURL + "/user/budgets",
	}, log)

	router := api.NewRouter(api.Deps{
		Store:         st,
		Cache:         cache,
		Tokens:        auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL, cfg.VerificationTTL),
		Google:        auth.NewIDTokenVerifier(cfg.GoogleClientID),
		Mailer:        mailer,
		Budgets:       budgets,
		Chat:          chat.NewProxy(st, engine, log),
		Logger:        log,
		Location:      cfg.Location(),
		PublicBaseURL: cfg.PublicBaseURL,
		CORSOrigins:   cfg.CORSOrigins,
		ReadOnly:      cfg.ReadOnly,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", logger.FieldError, err)
		}
		cancel()
	}()

	log.Info("API server running", "port", cfg.Port, "chat_engine", cfg.ChatEngine, "read_only", cfg.ReadOnly)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server error", logger.FieldError, err)
		os.Exit(1)
	}

	<-ctx.Done()
	log.Info("Server stopped gracefully")
}
