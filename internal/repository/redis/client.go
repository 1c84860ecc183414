package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "game:"

// Connect opens a client and pings it. A nil client with a nil error means
// redis is disabled or unreachable and the caller should run memory-only.
func Connect(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info().Msg("[REDIS] Disabled, sessions are kept in memory only")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("[REDIS] Could not connect. Falling back to in-memory sessions only.")
		_ = client.Close()
		return nil, nil
	}

	log.Info().Str("addr", cfg.Addr).Msg("[REDIS] Connected successfully")
	return client, nil
}

// SessionStore caches game snapshots as JSON under game:<id>.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(gameID string) string {
	return keyPrefix + gameID
}

func (s *SessionStore) Save(ctx context.Context, snapshot domain.GameSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", snapshot.GameID, err)
	}
	return s.client.Set(ctx, sessionKey(snapshot.GameID), data, ttl).Err()
}

func (s *SessionStore) Load(ctx context.Context, gameID string) (*domain.GameSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var snapshot domain.GameSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", gameID, err)
	}
	return &snapshot, nil
}

func (s *SessionStore) Delete(ctx context.Context, gameID string) error {
	return s.client.Del(ctx, sessionKey(gameID)).Err()
}

// Ping reports whether the cache is reachable, for the health check.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
