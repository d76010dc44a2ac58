package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cleaner releases per-session resources held outside the store, such as
// retrieval chunks.
type Cleaner interface {
	Cleanup(key string)
}

// Janitor periodically removes sessions that finished longer than ttl ago,
// together with their retrieval chunks. Without it the in-memory stores
// grow for the life of the process.
type Janitor struct {
	store    *Store
	cleaner  Cleaner
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewJanitor(store *Store, cleaner Cleaner, ttl, interval time.Duration, logger *slog.Logger) *Janitor {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:    store,
		cleaner:  cleaner,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweeper goroutine.
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go j.run(ctx)
}

// Stop signals the sweeper to stop and waits for it.
func (j *Janitor) Stop() {
	close(j.stop)
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			j.logger.Info("janitor stopping")
			return
		case <-ctx.Done():
			j.logger.Info("context canceled, janitor exiting")
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep removes expired finished sessions. Exported so callers can force a
// pass in tests.
func (j *Janitor) Sweep() {
	cutoff := time.Now().Add(-j.ttl)
	for _, id := range j.store.expiredFinished(cutoff) {
		if err := j.store.Delete(id); err != nil {
			continue
		}
		if j.cleaner != nil {
			j.cleaner.Cleanup(id)
		}
		j.logger.Info("janitor removed session", slog.String("session_id", id))
	}
}
