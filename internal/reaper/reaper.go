package reaper

import (
	"context"
	"log/slog"
	"time"
)

const DefaultSweepInterval = 5 * time.Minute

// GroupPurger is the slice of the store the reaper needs.
type GroupPurger interface {
	ListExpiredGroups(ctx context.Context, limit int) ([]string, error)
	DeleteGroup(ctx context.Context, groupID string) error
}

// Reaper periodically deletes groups that have outlived the retention
// window. It only reclaims storage; read visibility is enforced by the
// store's age check, so sweep latency never extends a group's life.
type Reaper struct {
	store    GroupPurger
	interval time.Duration
	logger   *slog.Logger
}

// New constructs a Reaper. A non-positive interval gets the default.
func New(store GroupPurger, interval time.Duration, logger *slog.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{store: store, interval: interval, logger: logger}
}

// Run sweeps immediately and then on a fixed interval until ctx is
// cancelled. The initial sweep reclaims groups that expired while the
// process was down. Sweep failures are logged and retried on the next
// tick, never fatal.
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("reaper started", "interval", r.interval)
	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep deletes all currently expired groups once. It returns the
// number of groups purged.
func (r *Reaper) Sweep(ctx context.Context) int {
	groupIDs, err := r.store.ListExpiredGroups(ctx, 0)
	if err != nil {
		r.logger.Error("list expired groups", "error", err)
		return 0
	}
	if len(groupIDs) == 0 {
		return 0
	}

	purged := 0
	for _, groupID := range groupIDs {
		if ctx.Err() != nil {
			return purged
		}
		if err := r.store.DeleteGroup(ctx, groupID); err != nil {
			// Retried on the next sweep.
			r.logger.Error("purge expired group", "group_id", groupID, "error", err)
			continue
		}
		purged++
	}

	r.logger.Info("sweep complete", "expired", len(groupIDs), "purged", purged)
	return purged
}
