package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisTokenKeyPrefix   = "dash:token:"
	redisProfileKeyPrefix = "dash:profile:"
)

// RedisStore persists session entries in Redis with a TTL matching the token
// max age, so crashed gateway instances do not strand live sessions. Failures
// degrade the same way the memory store's absent entries do.
type RedisStore struct {
	rdb    *redis.Client
	maxAge time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewRedisStore(rdb *redis.Client, maxAge time.Duration, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		maxAge: maxAge,
		now:    time.Now,
		log:    log,
	}
}

func (r *RedisStore) StoreToken(ctx context.Context, sessionID string, tok StoredToken) bool {
	payload, err := json.Marshal(tok)
	if err != nil {
		return false
	}
	if err := r.rdb.Set(ctx, redisTokenKeyPrefix+sessionID, payload, r.maxAge).Err(); err != nil {
		r.log.Debug().Err(err).Msg("redis token store failed")
		return false
	}
	return true
}

func (r *RedisStore) RetrieveToken(ctx context.Context, sessionID string) (StoredToken, bool) {
	payload, err := r.rdb.Get(ctx, redisTokenKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Debug().Err(err).Msg("redis token retrieve failed")
		}
		return StoredToken{}, false
	}

	var tok StoredToken
	if err := json.Unmarshal(payload, &tok); err != nil {
		return StoredToken{}, false
	}
	if !tok.Live(r.now()) {
		r.Remove(ctx, sessionID)
		return StoredToken{}, false
	}
	return tok, true
}

func (r *RedisStore) StoreProfile(ctx context.Context, sessionID string, profile Profile) bool {
	payload, err := json.Marshal(profile)
	if err != nil {
		return false
	}
	if err := r.rdb.Set(ctx, redisProfileKeyPrefix+sessionID, payload, r.maxAge).Err(); err != nil {
		r.log.Debug().Err(err).Msg("redis profile store failed")
		return false
	}
	return true
}

func (r *RedisStore) RetrieveProfile(ctx context.Context, sessionID string) (Profile, bool) {
	payload, err := r.rdb.Get(ctx, redisProfileKeyPrefix+sessionID).Bytes()
	if err != nil {
		return nil, false
	}

	var profile Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, false
	}
	return profile, true
}

func (r *RedisStore) Remove(ctx context.Context, sessionID string) {
	if err := r.rdb.Del(ctx, redisTokenKeyPrefix+sessionID, redisProfileKeyPrefix+sessionID).Err(); err != nil {
		r.log.Debug().Err(err).Msg("redis remove failed")
	}
}
