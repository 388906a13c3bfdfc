package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"coursefront/database"
	"coursefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	return NewGormStore(db)
}

func TestGormStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	state, err := LoadOrNew(ctx, s, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", state.SessionID)

	state.AccessToken = "access-1"
	state.RefreshToken = "refresh-1"
	state.MarkIssuedCertificate(3)
	require.NoError(t, s.Save(ctx, state))

	state.AccessToken = "access-2"
	require.NoError(t, s.Save(ctx, state))

	loaded, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "access-2", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.True(t, loaded.HasIssuedCertificate(3))

	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStorePurgeBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, &models.BrowserState{SessionID: "old"}))
	cutoff := time.Now().Add(time.Second)

	n, err := s.PurgeBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCodec(t *testing.T) {
	state := &models.BrowserState{SessionID: "r1", AccessToken: "a"}
	state.MarkSubmittedFeedback(8)

	raw, err := encodeState(state)
	require.NoError(t, err)

	decoded, err := decodeState(raw)
	require.NoError(t, err)
	assert.Equal(t, "a", decoded.AccessToken)
	assert.True(t, decoded.HasSubmittedFeedback(8))
	assert.Equal(t, "coursefront:browser:r1", redisKey("r1"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, &models.BrowserState{SessionID: "m", AccessToken: "x"}))
	loaded, err := s.Load(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, "x", loaded.AccessToken)

	// callers get copies
	loaded.AccessToken = "mutated"
	again, _ := s.Load(ctx, "m")
	assert.Equal(t, "x", again.AccessToken)

	n, err := s.PurgeBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStoreUpdateKeepsConcurrentWrites(t *testing.T) {
	stores := map[string]Store{
		"gorm":   newTestStore(t),
		"memory": NewMemoryStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, &models.BrowserState{SessionID: "u", AccessToken: "old-access", RefreshToken: "old-refresh"}))

			var wg sync.WaitGroup
			for i := uint(1); i <= 8; i++ {
				wg.Add(1)
				go func(id uint) {
					defer wg.Done()
					_, err := s.Update(ctx, "u", func(st *models.BrowserState) { st.MarkSubmittedFeedback(id) })
					assert.NoError(t, err)
				}(i)
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Update(ctx, "u", func(st *models.BrowserState) {
					st.AccessToken = "new-access"
					st.RefreshToken = "rotated-refresh"
				})
				assert.NoError(t, err)
			}()
			wg.Wait()

			loaded, err := s.Load(ctx, "u")
			require.NoError(t, err)
			assert.Equal(t, "new-access", loaded.AccessToken)
			assert.Equal(t, "rotated-refresh", loaded.RefreshToken)
			for i := uint(1); i <= 8; i++ {
				assert.True(t, loaded.HasSubmittedFeedback(i), "feedback hint %d", i)
			}
		})
	}
}

func TestStoreUpdateCreatesMissingState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	state, err := s.Update(ctx, "fresh", func(st *models.BrowserState) { st.AccessToken = "a" })
	require.NoError(t, err)
	assert.Equal(t, "fresh", state.SessionID)

	loaded, err := s.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.AccessToken)
}

func TestStoreTouchKeepsActiveStateFromPurge(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]Store{"gorm": newTestStore(t), "memory": NewMemoryStore()} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, &models.BrowserState{SessionID: "idle"}))
			require.NoError(t, s.Save(ctx, &models.BrowserState{SessionID: "active"}))

			time.Sleep(20 * time.Millisecond)
			cutoff := time.Now()
			time.Sleep(20 * time.Millisecond)
			require.NoError(t, s.Touch(ctx, "active"))
			require.NoError(t, s.Touch(ctx, "never-saved"))

			n, err := s.PurgeBefore(ctx, cutoff)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			_, err = s.Load(ctx, "active")
			assert.NoError(t, err)
			_, err = s.Load(ctx, "never-saved")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
