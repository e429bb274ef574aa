package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ Cache = (*Redis)(nil)

// Redis is a Cache backed by a go-redis client.
type Redis struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedis connects to addr, retrying the ping up to attempts times.
func NewRedis(addr string, attempts int) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			logrus.WithField("addr", addr).Info("connected to redis")
			return &Redis{rdb: rdb, ttl: TTL}, nil
		}
		logrus.WithField("addr", addr).Warnf("waiting for redis... (%d/%d)", i+1, attempts)
		if i+1 < attempts {
			time.Sleep(time.Second)
		}
	}
	_ = rdb.Close()
	return nil, fmt.Errorf("redis: failed to connect after %d attempts: %w", attempts, err)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("redis get error")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.rdb.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("redis set error")
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("redis delete error")
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
