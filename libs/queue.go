package libs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrQueueUnavailable = errors.New("queue not initialized")

// RedisQueue is a FIFO list: producers LPUSH, consumers BRPOP.
// A message popped by a consumer that crashes before handling it is lost.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Publish(ctx context.Context, payload []byte) error {
	if q == nil || q.client == nil {
		return ErrQueueUnavailable
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.key, err)
	}
	return nil
}

// Pop blocks up to timeout. It returns (nil, nil) when nothing arrived.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if q == nil || q.client == nil {
		return nil, ErrQueueUnavailable
	}
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop %s: %w", q.key, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("brpop %s: unexpected reply %v", q.key, res)
	}
	return []byte(res[1]), nil
}
