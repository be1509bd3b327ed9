package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())
	require.NoError(t, queue.Publish(ctx, &payload{Name: "a"}))
	require.NoError(t, queue.Publish(ctx, &payload{Name: "b"}))
	assert.Equal(t, 2, queue.Size())

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", msg.T().Name)
	assert.NotEmpty(t, msg.ID())
	require.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
	assert.Equal(t, 1, queue.Size())

	assert.Error(t, queue.Publish(ctx, nil))
}

func TestQueue_Nack(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](Config{MaxRetries: 1, DeadLetter: true, QueueBuffer: 4})
	require.NoError(t, queue.Publish(ctx, &payload{Name: "a"}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, msg.Nack(errors.New("boom")))
	assert.Equal(t, 1, queue.Size())

	retry, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, msg.ID(), retry.ID())
	require.NoError(t, retry.Nack(errors.New("boom")))
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := queue.TryConsume()
	assert.False(t, ok)
}
