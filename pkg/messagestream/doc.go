// Package messagestream provides thin queue and stream wrappers on top of Redis.
//
// MessageQueue is a FIFO queue backed by a Redis list; MessageStream is a
// consumer-group abstraction backed by a Redis Stream. Both encode values as
// JSON text and delegate all durability, ordering, and delivery guarantees to
// Redis itself.
//
// # Quick Start
//
// Push and pop through a queue:
//
//	cfg := messagestream.DefaultConfig()
//	queue := messagestream.NewMessageQueue("orders", cfg)
//	if err := queue.Connect(ctx); err != nil { ... }
//	defer queue.Disconnect(ctx)
//
//	_ = queue.Push(ctx, map[string]int{"orderId": 123})
//
//	var order map[string]int
//	found, err := queue.Pop(ctx, &order)
//
// Produce and consume through a stream:
//
//	stream := messagestream.NewMessageStream("orders", cfg)
//	if err := stream.Connect(ctx); err != nil { ... }
//	defer stream.Disconnect(ctx)
//
//	id, err := stream.AddMessage(ctx, map[string]string{"hello": "world"})
//
//	msg, err := stream.ConsumeMessage(ctx)
//	if msg != nil {
//	    fmt.Println("Received:", msg.ID, string(msg.Message))
//	}
//
// # Configuration
//
// Use DefaultConfig() for sensible defaults, then override specific fields.
// Use ConfigFromEnv() to read Redis connection details and the consumer name
// from environment variables.
//
// # Redis Protocol
//
// A queue named X lives at key "queue:X" (RPUSH / LPOP / LLEN). A stream
// named X lives at key "stream:X" with consumer group "X:consumer:group"
// (XADD / XAUTOCLAIM / XREADGROUP / XACK / XDEL / XLEN). Entry payloads are
// stored as JSON text under the "message" field.
package messagestream
