// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/scolaria/internal/platform/constants"
)

// failureScript increments the failure counter and arms its expiry on the
// first hit, so the window starts at the first failed attempt.
var failureScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLoginThrottle implements LoginThrottle using Redis counters.
type RedisLoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginThrottle creates a Redis-backed LoginThrottle allowing limit
// failed attempts per key inside window.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client, limit: limit, window: window}
}

/*
Allowed reads the failure counter of key without touching it.

Parameters:
  - context: context.Context
  - key: string (already hashed by the caller)

Returns:
  - bool: false once limit failures were recorded in the window
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) Allowed(context context.Context, key string) (bool, error) {
	count, err := throttle.client.Get(context, throttleKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis_login_throttle_failed: %w", err)
	}

	return count < int64(throttle.limit), nil
}

// RecordFailure counts one failed attempt for key.
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, key string) error {
	err := failureScript.Run(context, throttle.client, []string{throttleKey(key)}, throttle.window.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis_login_throttle_record_failed: %w", err)
	}
	return nil
}

// Reset deletes the failure counter of key.
func (throttle *RedisLoginThrottle) Reset(context context.Context, key string) error {
	if err := throttle.client.Del(context, throttleKey(key)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}
	return nil
}

func throttleKey(key string) string {
	return constants.RedisPrefixLoginThrottle + key
}
