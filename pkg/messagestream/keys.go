package messagestream

// QueueKey returns the Redis list key for a queue: "queue:{name}"
func QueueKey(name string) string {
	return "queue:" + name
}

// StreamKey returns the Redis stream key for a stream: "stream:{name}"
func StreamKey(name string) string {
	return "stream:" + name
}

// GroupName returns the consumer group name for a stream: "{name}:consumer:group"
func GroupName(name string) string {
	return name + ":consumer:group"
}
