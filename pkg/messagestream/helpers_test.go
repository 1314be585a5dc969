package messagestream_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	messagestream "github.com/KGS-Ben/message-stream/pkg/messagestream"
)

// newTestRedis starts an in-process Redis and returns a client for it.
// Both are torn down via t.Cleanup; a double close from Disconnect is fine.
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	cli := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = cli.Close() })

	return s, cli
}

// testConfig returns a Config tuned for fast tests: short blocking reads.
func testConfig() messagestream.Config {
	cfg := messagestream.DefaultConfig()
	cfg.Stream.BlockTimeoutMs = 50
	return cfg
}

// newConnectedStream builds and connects a MessageStream over the client.
func newConnectedStream(t *testing.T, cli *redis.Client, name string, cfg messagestream.Config) *messagestream.MessageStream {
	t.Helper()

	ms := messagestream.NewMessageStreamWithClient(cli, name, cfg)
	require.NoError(t, ms.Connect(context.Background()))
	return ms
}

// newConnectedQueue builds and connects a MessageQueue over the client.
func newConnectedQueue(t *testing.T, cli *redis.Client, name string, cfg messagestream.Config) *messagestream.MessageQueue {
	t.Helper()

	q := messagestream.NewMessageQueueWithClient(cli, name, cfg)
	require.NoError(t, q.Connect(context.Background()))
	return q
}
