package messagestream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	messagestream "github.com/KGS-Ben/message-stream/pkg/messagestream"
)

func TestQueueKey(t *testing.T) {
	assert.Equal(t, "queue:orders", messagestream.QueueKey("orders"))
}

func TestStreamKey(t *testing.T) {
	assert.Equal(t, "stream:orders", messagestream.StreamKey("orders"))
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "orders:consumer:group", messagestream.GroupName("orders"))
}
