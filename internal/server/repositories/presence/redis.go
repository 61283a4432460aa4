package presence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fingr/internal/common"
	"github.com/dmitrijs2005/fingr/internal/server/models"
)

const (
	recordKeyPrefix = "fingr:presence:"
	onlineSetKey    = "fingr:online"
)

// RedisRepository stores presence in Redis: one hash per user for the
// record fields plus a sorted set scored by expiry, so ListOnline is a
// single ZRANGEBYSCORE. Read-modify-write sequences (Bump) rely on the
// engine's per-username serialization.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func recordKey(username string) string {
	return recordKeyPrefix + username
}

func (r *RedisRepository) GetStatus(ctx context.Context, username string, now time.Time) (models.Status, error) {
	data, err := r.client.HGetAll(ctx, recordKey(username)).Result()
	if err != nil {
		return models.Status{}, fmt.Errorf("redis error: %w", err)
	}
	if len(data) == 0 {
		return models.Status{}, nil
	}

	p := models.Presence{Username: username, Message: data["message"]}
	p.Online = data["online"] == "1"
	if raw, ok := data["expires_at"]; ok && raw != "" {
		if unix, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			p.ExpiresAt = time.Unix(unix, 0)
		}
	}

	return models.Status{Online: p.EffectiveOnline(now), Message: p.Message}, nil
}

func (r *RedisRepository) SetOnline(ctx context.Context, username string, now time.Time, duration time.Duration, message *string) error {
	expiresAt := now.Add(duration)

	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, recordKey(username), "online", "1", "expires_at", expiresAt.Unix())
		if message != nil {
			p.HSet(ctx, recordKey(username), "message", *message)
		}
		p.ZAdd(ctx, onlineSetKey, redis.Z{Score: float64(expiresAt.Unix()), Member: username})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (r *RedisRepository) Bump(ctx context.Context, username string, now time.Time, duration time.Duration) error {
	status, err := r.GetStatus(ctx, username, now)
	if err != nil {
		return err
	}
	if !status.Online {
		return common.ErrNotOnline
	}

	expiresAt := now.Add(duration)
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, recordKey(username), "expires_at", expiresAt.Unix())
		p.ZAdd(ctx, onlineSetKey, redis.Z{Score: float64(expiresAt.Unix()), Member: username})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (r *RedisRepository) SetOffline(ctx context.Context, username string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, recordKey(username), "online", "0")
		p.ZRem(ctx, onlineSetKey, username)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (r *RedisRepository) ListOnline(ctx context.Context, now time.Time) ([]string, error) {
	usernames, err := r.client.ZRangeByScore(ctx, onlineSetKey, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	sort.Strings(usernames)
	return usernames, nil
}
