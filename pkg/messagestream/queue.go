package messagestream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// MessageQueue is a FIFO queue backed by a Redis list.
//
// Push appends to the tail, Pop removes from the head. Values are stored as
// JSON text. There is no consumer tracking; an element popped is gone.
type MessageQueue struct {
	name   string
	config Config
	client *redis.Client
	logger *slog.Logger
}

// NewMessageQueue creates a queue over the named Redis list. The connection
// is not opened until Connect is called.
func NewMessageQueue(name string, config Config) *MessageQueue {
	return &MessageQueue{
		name:   name,
		config: config.WithDefaults(),
		logger: slog.Default(),
	}
}

// NewMessageQueueWithClient creates a queue over an existing Redis client.
// Connect only verifies the connection; Disconnect still closes the client.
func NewMessageQueueWithClient(client *redis.Client, name string, config Config) *MessageQueue {
	return &MessageQueue{
		name:   name,
		config: config.WithDefaults(),
		client: client,
		logger: slog.Default(),
	}
}

// Name returns the queue name.
func (q *MessageQueue) Name() string {
	return q.name
}

// Connect establishes the Redis connection and verifies it with PING.
func (q *MessageQueue) Connect(ctx context.Context) error {
	if q.client == nil {
		client, err := newClient(q.config.Redis)
		if err != nil {
			q.logger.Error("queue connect failed", "queue", q.name, "error", err)
			return wrapErr(ErrConnect, q.name, err)
		}
		q.client = client
	}

	if err := q.client.Ping(ctx).Err(); err != nil {
		q.logger.Error("queue connect failed", "queue", q.name, "error", err)
		return wrapErr(ErrConnect, q.name, err)
	}

	return nil
}

// Disconnect closes the Redis connection.
func (q *MessageQueue) Disconnect(ctx context.Context) error {
	if q.client == nil {
		return nil
	}

	if err := q.client.Close(); err != nil {
		q.logger.Error("queue disconnect failed", "queue", q.name, "error", err)
		return wrapErr(ErrDisconnect, q.name, err)
	}
	q.client = nil

	return nil
}

// Push serializes value to JSON and appends it to the tail of the queue.
//
// Redis command: RPUSH queue:{name} {json}
func (q *MessageQueue) Push(ctx context.Context, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		q.logger.Error("queue push failed", "queue", q.name, "error", err)
		return wrapErr(ErrQueueWrite, q.name, err)
	}

	if err := q.client.RPush(ctx, QueueKey(q.name), data).Err(); err != nil {
		q.logger.Error("queue push failed", "queue", q.name, "error", err)
		return wrapErr(ErrQueueWrite, q.name, err)
	}

	return nil
}

// PushBatch appends multiple values in a single Redis pipeline, preserving
// the order of the input slice.
func (q *MessageQueue) PushBatch(ctx context.Context, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}

	key := QueueKey(q.name)
	pipe := q.client.Pipeline()

	for _, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			q.logger.Error("queue batch push failed", "queue", q.name, "error", err)
			return wrapErr(ErrQueueWrite, q.name, err)
		}
		pipe.RPush(ctx, key, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Error("queue batch push failed", "queue", q.name, "error", err)
		return wrapErr(ErrQueueWrite, q.name, err)
	}

	return nil
}

// Pop removes the head of the queue and decodes it into dest.
// Returns false with a nil error when the queue is empty.
//
// Redis command: LPOP queue:{name}
func (q *MessageQueue) Pop(ctx context.Context, dest interface{}) (bool, error) {
	raw, err := q.client.LPop(ctx, QueueKey(q.name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		q.logger.Error("queue pop failed", "queue", q.name, "error", err)
		return false, wrapErr(ErrQueueRead, q.name, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		q.logger.Error("queue pop failed", "queue", q.name, "error", err)
		return false, wrapErr(ErrQueueRead, q.name, err)
	}

	return true, nil
}

// Size returns the current number of elements in the queue.
//
// Redis command: LLEN queue:{name}
func (q *MessageQueue) Size(ctx context.Context) (int64, error) {
	length, err := q.client.LLen(ctx, QueueKey(q.name)).Result()
	if err != nil {
		q.logger.Error("queue size failed", "queue", q.name, "error", err)
		return 0, wrapErr(ErrQueueQuery, q.name, err)
	}

	return length, nil
}
