package utils

import (
	"context"
	"testing"
	"time"

	"coursefront/models"
	"coursefront/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	cutoffs []time.Time
}

func (p *countingPurger) Purge(cutoff time.Time) int {
	p.cutoffs = append(p.cutoffs, cutoff)
	return 1
}

func TestHousekeeperRun(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, &models.BrowserState{SessionID: "old"}))

	cache := &countingPurger{}
	h := NewHousekeeper(st, time.Hour, nil, cache)
	future := time.Now().Add(2 * time.Hour)
	h.now = func() time.Time { return future }

	h.Run(ctx)

	_, err := st.Load(ctx, "old")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, cache.cutoffs, 1)
	assert.Equal(t, future.Add(-time.Hour), cache.cutoffs[0])
}

func TestStartSessionSchedulerRejectsBadSpec(t *testing.T) {
	h := NewHousekeeper(store.NewMemoryStore(), time.Hour, nil)
	_, err := StartSessionScheduler("not a cron spec", h)
	assert.Error(t, err)

	c, err := StartSessionScheduler("@every 1h", h)
	require.NoError(t, err)
	c.Stop()
}
