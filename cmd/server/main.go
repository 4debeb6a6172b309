package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/ai"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/mailer"
	"fintrack-backend/internal/ratelimit"
	"fintrack-backend/internal/repository"
	"fintrack-backend/internal/scheduler"
	"fintrack-backend/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var cfg *config.Config

func init() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Configure zerolog based on config
	zerolog.TimeFieldFormat = time.RFC3339
	logLevel, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	output := os.Stdout
	if cfg.Logger.OutputPath != "" {
		file, err := os.OpenFile(cfg.Logger.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			output = file
		}
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	})
}

func main() {
	ctx := context.Background()

	// Session store carries OAuth state; it must exist before providers.
	auth.InitializeSessionStore(cfg)
	auth.InitProviders(cfg)

	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	if err := database.RunMigrations(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	llm, closeLLM, err := ai.NewCompleter(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AI client")
	}
	defer closeLLM()

	deps := server.Deps{
		Config: cfg,
		DB:     database.GetDB(),
		Mailer: mailer.New(cfg.Email, cfg.IsProduction()),
		LLM:    llm,
	}
	if cfg.Auth.Google.ClientID != "" {
		deps.Google = auth.NewGoogleVerifier(cfg.Auth.Google.ClientID)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, login throttling fails open")
		}
		deps.LoginLimiter = ratelimit.New(rdb, ratelimit.Config{
			MaxLoginAttempts:      cfg.Redis.MaxLoginAttempts,
			LoginCooldownDuration: time.Duration(cfg.Redis.LoginCooldownMinutes) * time.Minute,
		})
	}

	if err := scheduler.Initialize(cfg.Scheduler, repository.NewTokenRepository(database.GetDB())); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer scheduler.Stop()

	app := server.New(deps)

	// Start server in a goroutine
	serverAddr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		if err := app.Listen(serverAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
