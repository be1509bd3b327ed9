package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/idregistry/internal/clock"
	"github.com/viant/idregistry/internal/idgen"
	"github.com/viant/idregistry/service/messaging/memory"
)

func TestPublisher(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return now }
	idgen.NewFunc = func() string { return "evt-1" }
	defer func() {
		clock.NowFunc = time.Now
		idgen.NewFunc = idgen.DefaultNewFunc
	}()

	ctx := context.Background()
	publisher := NewPublisher[Change](memory.NewQueue[Event[Change]](memory.DefaultConfig()))

	change := Change{Operation: OperationRegistryCreated, Database: "Items", Code: "0100a1", Label: "Sword", Revision: 3}
	require.NoError(t, publisher.Publish(ctx, &Event[Change]{Context: &Context{Method: "CreateRegistry"}, Data: change}))
	assert.Error(t, publisher.Publish(ctx, nil))

	actual, err := publisher.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", actual.ID)
	assert.Equal(t, now, actual.CreatedAt)
	assert.Equal(t, change, actual.Data)
	assert.Equal(t, "CreateRegistry", actual.Context.Method)
}
