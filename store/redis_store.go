package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursefront/models"

	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "coursefront:browser:"
	redisUpdateRetries = 10
)

type redisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects and pings; keys expire after ttl of inactivity.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb, ttl: ttl}, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func encodeState(state *models.BrowserState) ([]byte, error) {
	return json.Marshal(state)
}

func decodeState(raw []byte) (*models.BrowserState, error) {
	var state models.BrowserState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (*models.BrowserState, error) {
	raw, err := s.rdb.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load browser state: %w", err)
	}
	state, err := decodeState(raw)
	if err != nil {
		return nil, fmt.Errorf("decode browser state: %w", err)
	}
	return state, nil
}

func (s *redisStore) Save(ctx context.Context, state *models.BrowserState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("save browser state: session id required")
	}
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now
	raw, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encode browser state: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(state.SessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save browser state: %w", err)
	}
	return nil
}

// Update runs an optimistic WATCH transaction and retries when another
// writer changed the key in between.
func (s *redisStore) Update(ctx context.Context, sessionID string, mutate func(*models.BrowserState)) (*models.BrowserState, error) {
	key := redisKey(sessionID)
	var out *models.BrowserState
	txf := func(tx *goredis.Tx) error {
		state := &models.BrowserState{SessionID: sessionID}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			if state, err = decodeState(raw); err != nil {
				return fmt.Errorf("decode browser state: %w", err)
			}
		}

		mutate(state)
		now := time.Now()
		if state.CreatedAt.IsZero() {
			state.CreatedAt = now
		}
		state.SessionID = sessionID
		state.UpdatedAt = now
		encoded, err := encodeState(state)
		if err != nil {
			return fmt.Errorf("encode browser state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			out = state
		}
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("update browser state: %w", err)
	}
	return nil, fmt.Errorf("update browser state: gave up after %d conflicting writes", redisUpdateRetries)
}

// Touch extends the key's expiry; the stored UpdatedAt is left alone.
func (s *redisStore) Touch(ctx context.Context, sessionID string) error {
	if err := s.rdb.Expire(ctx, redisKey(sessionID), s.ttl).Err(); err != nil {
		return fmt.Errorf("touch browser state: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete browser state: %w", err)
	}
	return nil
}

// Redis expires keys itself.
func (s *redisStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
