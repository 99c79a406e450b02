package queue

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNoJob signals an empty queue on a blocking pop; callers just poll again.
var ErrNoJob = errors.New("no job available")

// Transport carries serialized jobs from the producer to the workers.
type Transport interface {
	Push(ctx context.Context, payload string) error
	// Pop blocks for a short interval waiting for the next payload and
	// returns ErrNoJob when none arrived.
	Pop(ctx context.Context) (string, error)
}

const redisQueueKey = "task_queue"

// RedisTransport is the production transport. The queue survives process
// restarts; pushed jobs wait in redis until a worker pops them.
type RedisTransport struct {
	client *redis.Client
}

func NewRedisTransport(client *redis.Client) *RedisTransport {
	return &RedisTransport{client: client}
}

func (t *RedisTransport) Push(ctx context.Context, payload string) error {
	return t.client.LPush(ctx, redisQueueKey, payload).Err()
}

func (t *RedisTransport) Pop(ctx context.Context) (string, error) {
	result, err := t.client.BRPop(ctx, 1*time.Second, redisQueueKey).Result()
	if err == redis.Nil {
		return "", ErrNoJob
	}
	if err != nil {
		return "", err
	}
	// BRPop returns [key, value].
	return result[1], nil
}

// ChannelTransport keeps the queue in process memory. Used for single-binary
// deployments and in tests.
type ChannelTransport struct {
	jobs chan string
}

func NewChannelTransport(buffer int) *ChannelTransport {
	return &ChannelTransport{jobs: make(chan string, buffer)}
}

func (t *ChannelTransport) Push(ctx context.Context, payload string) error {
	select {
	case t.jobs <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *ChannelTransport) Pop(ctx context.Context) (string, error) {
	select {
	case payload := <-t.jobs:
		return payload, nil
	case <-time.After(1 * time.Second):
		return "", ErrNoJob
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
