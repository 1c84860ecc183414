package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionCleaner is satisfied by *game.SessionManager.
type SessionCleaner interface {
	CleanupOldSessions(ctx context.Context) int
}

type Worker struct {
	Sessions SessionCleaner
	Interval time.Duration
}

func NewWorker(sessions SessionCleaner, interval time.Duration) *Worker {
	return &Worker{Sessions: sessions, Interval: interval}
}

// Start runs a cleanup immediately and then on every tick until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.Interval).Msg("[CLEANUP] Background worker started")

	w.runCleanup(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup(ctx)
		}
	}
}

func (w *Worker) runCleanup(ctx context.Context) {
	log.Debug().Msg("[CLEANUP] Starting scheduled cleanup task...")

	if removed := w.Sessions.CleanupOldSessions(ctx); removed > 0 {
		log.Info().Msgf("[CLEANUP] Removed %d stale sessions", removed)
	}
}
