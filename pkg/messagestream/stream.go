package messagestream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReceivedMessage is a single entry pulled from a stream.
// Message holds the JSON text the producer wrote.
type ReceivedMessage struct {
	ID      string
	Message json.RawMessage
}

// Decode unmarshals the message payload into dest.
func (m *ReceivedMessage) Decode(dest interface{}) error {
	return json.Unmarshal(m.Message, dest)
}

// MessageStream is a consumer-group abstraction over a Redis Stream.
//
// Producers append entries with AddMessage; consumers in the stream's group
// pull them with ConsumeMessage, which acknowledges each entry as soon as it
// is handed out. Acknowledged entry IDs are buffered locally and bulk-deleted
// from the stream once the buffer crosses MaxProcessedIDs, bounding memory
// growth on the Redis side.
//
// A single instance is meant to be driven by one logical caller at a time;
// the processed-ID buffer is guarded internally but no further coordination
// between callers sharing an instance is provided. Pending-entry ownership
// across instances is delegated entirely to Redis group semantics.
type MessageStream struct {
	name     string
	config   Config
	client   *redis.Client
	consumer string
	logger   *slog.Logger

	mu           sync.Mutex
	processedIDs []string
}

// NewMessageStream creates a stream over the named Redis stream key. The
// connection is not opened until Connect is called.
func NewMessageStream(name string, config Config) *MessageStream {
	return newMessageStream(nil, name, config)
}

// NewMessageStreamWithClient creates a stream over an existing Redis client.
// Connect only verifies the connection and creates the consumer group;
// Disconnect still closes the client.
func NewMessageStreamWithClient(client *redis.Client, name string, config Config) *MessageStream {
	return newMessageStream(client, name, config)
}

func newMessageStream(client *redis.Client, name string, config Config) *MessageStream {
	config = config.WithDefaults()

	consumer := config.Consumer.Name
	if consumer == "" {
		consumer = generateConsumerName(name)
	}

	return &MessageStream{
		name:     name,
		config:   config,
		client:   client,
		consumer: consumer,
		logger:   slog.Default(),
	}
}

// Name returns the stream name.
func (s *MessageStream) Name() string {
	return s.name
}

// ConsumerName returns this instance's consumer identity within the group.
func (s *MessageStream) ConsumerName() string {
	return s.consumer
}

// ProcessedCount returns the number of acknowledged entry IDs currently
// buffered for deletion (primarily for testing).
func (s *MessageStream) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processedIDs)
}

// Connect establishes the Redis connection and idempotently creates the
// consumer group at the current stream tail, creating the stream if absent.
// A group that already exists is treated as success.
//
// Redis command: XGROUP CREATE stream:{name} {name}:consumer:group $ MKSTREAM
func (s *MessageStream) Connect(ctx context.Context) error {
	if s.client == nil {
		client, err := newClient(s.config.Redis)
		if err != nil {
			s.logger.Error("stream connect failed", "stream", s.name, "error", err)
			return wrapErr(ErrStreamConnect, s.name, err)
		}
		s.client = client
	}

	if err := s.client.Ping(ctx).Err(); err != nil {
		s.logger.Error("stream connect failed", "stream", s.name, "error", err)
		return wrapErr(ErrStreamConnect, s.name, err)
	}

	err := s.client.XGroupCreateMkStream(ctx, StreamKey(s.name), GroupName(s.name), "$").Err()
	if err != nil {
		// BUSYGROUP means the group already exists. Not an error, and the
		// existing group's cursor is left alone.
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return nil
		}
		s.logger.Error("stream connect failed", "stream", s.name, "error", err)
		return wrapErr(ErrStreamConnect, s.name, err)
	}

	return nil
}

// Disconnect flushes any remaining processed IDs (best effort, failures are
// logged and swallowed) and closes the Redis connection.
func (s *MessageStream) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	if err := s.DeleteProcessedMessages(ctx); err != nil {
		s.logger.Warn("flush on disconnect failed", "stream", s.name, "error", err)
	}

	if err := s.client.Close(); err != nil {
		s.logger.Error("stream disconnect failed", "stream", s.name, "error", err)
		return wrapErr(ErrStreamDisconnect, s.name, err)
	}
	s.client = nil

	return nil
}

// AddMessage serializes value to JSON and appends it as a new stream entry.
// Returns the Redis-assigned entry ID (e.g. "1678886400123-0").
//
// Redis command: XADD stream:{name} * message {json}
func (s *MessageStream) AddMessage(ctx context.Context, value interface{}) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("stream add failed", "stream", s.name, "error", err)
		return "", wrapErr(ErrStreamWrite, s.name, err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(s.name),
		ID:     "*",
		Values: map[string]interface{}{"message": string(data)},
	}).Result()
	if err != nil {
		s.logger.Error("stream add failed", "stream", s.name, "error", err)
		return "", wrapErr(ErrStreamWrite, s.name, err)
	}

	return id, nil
}

// GetFailedMessage claims at most one entry that is pending for any consumer
// in the group, transferring ownership to this consumer. A min-idle time of
// zero means anything unacknowledged is immediately claimable. Returns
// (nil, nil) when nothing is pending. Transport errors propagate unwrapped.
//
// Redis command: XAUTOCLAIM stream:{name} {group} {consumer} 0 0-0 COUNT 1
func (s *MessageStream) GetFailedMessage(ctx context.Context) (*ReceivedMessage, error) {
	messages, _, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey(s.name),
		Group:    GroupName(s.name),
		Consumer: s.consumer,
		MinIdle:  0,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	if len(messages) == 0 {
		return nil, nil
	}

	return receivedFromFields(messages[0].ID, messages[0].Values), nil
}

// ConsumeMessage pulls one entry from the stream. Pending entries abandoned
// by any consumer in the group are reclaimed first; otherwise the call blocks
// up to BlockTimeoutMs waiting for one new entry. Whichever path yields an
// entry, it is acknowledged immediately and its ID recorded for later
// deletion. Returns (nil, nil) when no entry was available in time.
//
// Redis command: XREADGROUP GROUP {group} {consumer} COUNT 1 BLOCK {ms} STREAMS stream:{name} >
func (s *MessageStream) ConsumeMessage(ctx context.Context) (*ReceivedMessage, error) {
	msg, err := s.GetFailedMessage(ctx)
	if err != nil {
		return nil, err
	}

	if msg == nil {
		block := time.Duration(s.config.Stream.BlockTimeoutMs) * time.Millisecond

		result, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    GroupName(s.name),
			Consumer: s.consumer,
			Streams:  []string{StreamKey(s.name), ">"},
			Count:    1,
			Block:    block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Timed out with no new entries, a normal outcome.
				s.logger.Debug("no message available", "stream", s.name)
				return nil, nil
			}
			return nil, err
		}

		if len(result) == 0 || len(result[0].Messages) == 0 {
			return nil, nil
		}

		xmsg := result[0].Messages[0]
		msg = receivedFromFields(xmsg.ID, xmsg.Values)
	}

	if err := s.acknowledge(ctx, msg.ID); err != nil {
		return nil, err
	}

	return msg, nil
}

// acknowledge removes the entry from the group's pending list and records its
// ID. Crossing MaxProcessedIDs triggers a synchronous flush.
func (s *MessageStream) acknowledge(ctx context.Context, id string) error {
	err := s.client.XAck(ctx, StreamKey(s.name), GroupName(s.name), id).Err()
	if err != nil {
		s.logger.Error("stream ack failed", "stream", s.name, "message_id", id, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.processedIDs = append(s.processedIDs, id)
	if len(s.processedIDs) > s.config.Stream.MaxProcessedIDs {
		return s.flushLocked(ctx)
	}

	return nil
}

// DeleteProcessedMessages hard-deletes every buffered acknowledged entry from
// the stream and clears the buffer. No-op when the buffer is empty. On
// failure the buffer is left intact so a retry covers the same IDs.
//
// Redis command: XDEL stream:{name} {id...}
func (s *MessageStream) DeleteProcessedMessages(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

// flushLocked requires s.mu held.
func (s *MessageStream) flushLocked(ctx context.Context) error {
	if len(s.processedIDs) == 0 {
		return nil
	}

	if err := s.client.XDel(ctx, StreamKey(s.name), s.processedIDs...).Err(); err != nil {
		s.logger.Error("stream purge failed", "stream", s.name, "ids", len(s.processedIDs), "error", err)
		return wrapErr(ErrStreamPurge, s.name, err)
	}

	s.processedIDs = s.processedIDs[:0]
	return nil
}

// Length returns the total number of entries in the stream, including
// entries already delivered to other groups.
//
// Redis command: XLEN stream:{name}
func (s *MessageStream) Length(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, StreamKey(s.name)).Result()
	if err != nil {
		s.logger.Error("stream length failed", "stream", s.name, "error", err)
		return 0, wrapErr(ErrStreamQuery, s.name, err)
	}

	return length, nil
}

// receivedFromFields extracts the JSON payload from raw stream fields.
// Entries trimmed out from under the group carry no fields; the ID is still
// returned so the entry can be acknowledged.
func receivedFromFields(id string, fields map[string]interface{}) *ReceivedMessage {
	msg := &ReceivedMessage{ID: id}

	if raw, ok := fields["message"]; ok {
		if text, ok := raw.(string); ok {
			msg.Message = json.RawMessage(text)
		}
	}

	return msg
}
