package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TavolaHQ/tavola_api/internal/repository"
)

// SessionCleanupWorker sweeps expired session rows on a fixed interval.
// Lookups already exclude expired rows, so the sweep only reclaims storage.
type SessionCleanupWorker struct {
	sessions *repository.SessionRepository
	interval time.Duration
}

// NewSessionCleanupWorker constructs a SessionCleanupWorker.
func NewSessionCleanupWorker(sessions *repository.SessionRepository, interval time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		sessions: sessions,
		interval: interval,
	}
}

// Start begins the cleanup loop and listens for context cancellation.
func (w *SessionCleanupWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting session cleanup worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Session cleanup worker stopped")
			return
		}
	}
}

func (w *SessionCleanupWorker) run(ctx context.Context) {
	n, err := w.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired sessions")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Swept expired sessions")
	}
}
