package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pimentellima/mockdata-server/internal/repository"
)

// CleanupJob periodically sweeps refresh tokens whose expiry has passed.
// Expired tokens are already rejected at refresh time; the sweep only keeps
// the table from growing without bound.
type CleanupJob struct {
	tokenRepo repository.RefreshTokenRepository
	interval  time.Duration
	done      chan struct{}
}

func NewCleanupJob(tokenRepo repository.RefreshTokenRepository, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		tokenRepo: tokenRepo,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to cleanup refresh tokens")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up refresh tokens")
	}
}
