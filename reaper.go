package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// reaper evicts idle rooms on a fixed interval. It runs independently of
// connection traffic; a missed or delayed tick only postpones eviction, so
// there is no catch-up or retry logic.
type reaper struct {
	store    *RoomStore
	interval time.Duration
	ttl      time.Duration
	log      *zap.SugaredLogger
}

func (rp *reaper) run(ctx context.Context) {
	ticker := time.NewTicker(rp.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := rp.store.sweep(now, rp.ttl); n > 0 {
				metricEvicted.Add(float64(n))
				rp.log.Infow("swept idle rooms", "evicted", n)
			}
			metricRooms.Set(float64(rp.store.count()))
		}
	}
}
