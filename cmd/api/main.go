package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/repository/redis"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
	"github.com/iamasit07/connect4-ai/internal/service/cleanup"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-ai/internal/transport/http"
	"github.com/iamasit07/connect4-ai/internal/transport/websocket"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Cache (optional)
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	var store game.SessionStore
	var cache transportHttp.Pinger
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore := redis.NewSessionStore(redisClient)
		store = sessionStore
		cache = sessionStore
	}

	// 2. Services
	defaultDifficulty, err := bot.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		log.Fatal().Err(err).Str("difficulty", cfg.DefaultDifficulty).Msg("Invalid DEFAULT_DIFFICULTY")
	}

	sessionManager := game.NewSessionManager(game.Options{
		Store:             store,
		NewPolicy:         game.DefaultPolicyFactory(cfg.SearchDepth),
		DefaultDifficulty: defaultDifficulty,
		SessionTTL:        cfg.SessionTTL,
		IdleTimeout:       cfg.SessionIdleTimeout,
	})
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// 3. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval)
	go cleanupWorker.Start(ctx)

	// 4. Transports
	origins := cfg.Origins()
	wsHandler := websocket.NewHandler(websocket.NewConnectionManager(), sessionManager, tokens, origins)
	gameHandler := transportHttp.NewGameHandler(sessionManager, tokens, wsHandler, cache)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Games:     gameHandler,
		Tokens:    tokens,
		WebSocket: wsHandler.HandleWebSocket,
		Origins:   origins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Int("search_depth", cfg.SearchDepth).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
