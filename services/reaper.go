package services

import (
	"context"
	"time"

	"github.com/Govind-619/ShopSphere/utils"
)

// Reaper periodically cancels online orders whose payment never completed
type Reaper struct {
	orders    *OrderService
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
}

func NewReaper(orders *OrderService, interval, threshold time.Duration) *Reaper {
	return &Reaper{orders: orders, interval: interval, threshold: threshold, now: time.Now}
}

// WithClock sets the clock used to compute the cutoff
func (r *Reaper) WithClock(now func() time.Time) *Reaper {
	r.now = now
	return r
}

// Start sweeps every interval until ctx is cancelled
func (r *Reaper) Start(ctx context.Context) error {
	utils.LogInfo("Abandoned-order reaper started: every %s, threshold %s", r.interval, r.threshold)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Abandoned-order reaper stopped")
			return nil
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				utils.LogError("Reaper sweep failed: %v", err)
			}
		}
	}
}

// Sweep runs one pass and returns how many orders were cancelled
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.threshold)
	n, err := r.orders.ReapAbandoned(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.LogInfo("Reaper cancelled %d abandoned orders created before %s", n, cutoff.Format(time.RFC3339))
	}
	return n, nil
}
