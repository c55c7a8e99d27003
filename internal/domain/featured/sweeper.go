package featured

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	sweepLockKey = "featured:sweep:lock"
	sweepTimeout = 30 * time.Second
)

// Worker periodically expires overdue packages
type Worker struct {
	service  *Service
	redis    *redis.Client // optional, cross-instance sweep lock
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new expiry sweep worker
func NewWorker(service *Service, redisClient *redis.Client, interval time.Duration) *Worker {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &Worker{
		service:  service,
		redis:    redisClient,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background worker
func (w *Worker) Start() {
	log.Info().Dur("interval", w.interval).Msg("Starting featured expiry sweeper...")
	go w.loop()
}

// Stop gracefully stops the background worker
func (w *Worker) Stop() {
	log.Info().Msg("Stopping featured expiry sweeper...")
	close(w.stopCh)
}

func (w *Worker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately on startup
	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if w.redis != nil {
		ok, err := w.redis.SetNX(ctx, sweepLockKey, 1, w.interval).Result()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to acquire sweep lock, sweeping anyway")
		} else if !ok {
			log.Debug().Msg("Another instance holds the sweep lock, skipping")
			return
		} else {
			defer w.redis.Del(context.Background(), sweepLockKey)
		}
	}

	log.Debug().Msg("Starting featured expiry sweep...")

	count, err := w.service.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired featured packages")
		return
	}
	if count > 0 {
		log.Info().Int("count", count).Msg("Expired featured packages")
	}

	log.Debug().Msg("Finished featured expiry sweep")
}
