// Package session 维护服务端会话记录：登录写入、登出吊销。
// JWT 自身无状态，Redis 记录以 jti 为 key，使 logout 真正生效。
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Save(ctx context.Context, jti string, uid uint, ttl time.Duration) error
	Valid(ctx context.Context, jti string) (bool, error)
	// Revoke 幂等：不存在的会话也返回成功
	Revoke(ctx context.Context, jti string) error
}

type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(addr, pass string, db int) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func key(jti string) string { return "session:" + jti }

func (s *RedisStore) Save(ctx context.Context, jti string, uid uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(jti), fmt.Sprint(uid), ttl).Err()
}

func (s *RedisStore) Valid(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, key(jti)).Err()
}
