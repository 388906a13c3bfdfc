package utils

import (
	"context"
	"time"

	"coursefront/logger"
	"coursefront/store"

	"github.com/robfig/cron/v3"
)

// CachePurger is anything holding per-browser data in memory.
type CachePurger interface {
	Purge(cutoff time.Time) int
}

type Housekeeper struct {
	store  store.Store
	caches []CachePurger
	idle   time.Duration
	log    *logger.Logger
	now    func() time.Time
}

func NewHousekeeper(st store.Store, idle time.Duration, log *logger.Logger, caches ...CachePurger) *Housekeeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Housekeeper{store: st, caches: caches, idle: idle, log: log.With("component", "housekeeping"), now: time.Now}
}

// Run drops browser state idle for longer than the session lifetime.
func (h *Housekeeper) Run(ctx context.Context) {
	cutoff := h.now().Add(-h.idle)

	removed, err := h.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		h.log.Error("purging browser state failed", "error", err)
	} else if removed > 0 {
		h.log.Info("purged idle browser state", "count", removed)
	}

	for _, c := range h.caches {
		if n := c.Purge(cutoff); n > 0 {
			h.log.Info("purged idle panel cache entries", "count", n)
		}
	}
}

// StartSessionScheduler runs the housekeeper on the given cron spec.
// The returned cron must be stopped on shutdown.
func StartSessionScheduler(spec string, h *Housekeeper) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		h.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	h.log.Info("session scheduler started", "spec", spec)
	return c, nil
}
