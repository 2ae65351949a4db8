package queue

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleMessageAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reservations.log")
	c := NewConsumer("amqp://unused", "q", 0, NewAuditLog(path), zap.NewNop())

	at := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.handleMessage([]byte(`{"reservation_id":7,"space_id":3,"user_id":2,"action":"created","to":"pending","actor_id":2,"occurred_at":"2030-01-01T10:00:00Z"}`)))
	require.NoError(t, c.handleMessage([]byte(`{"reservation_id":7,"space_id":3,"user_id":2,"action":"cancelled","from":"pending","to":"canceled","actor_id":9,"occurred_at":"2030-01-01T10:05:00Z"}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "["+at.Format(time.RFC3339)+"] reservation created | reservation_id=7 | space_id=3 | user_id=2 | - -> pending | actor_id=2", lines[0])
	assert.Contains(t, lines[1], "pending -> canceled | actor_id=9")
}

func TestHandleMessageRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservations.log")
	c := NewConsumer("amqp://unused", "q", 0, NewAuditLog(path), zap.NewNop())

	assert.Error(t, c.handleMessage([]byte("not json")))
	assert.Error(t, c.handleMessage([]byte(`{"space_id":3}`)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSleepHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), ReservationEvent{}))
}
