package event

import (
	"time"

	"github.com/viant/idregistry/internal/clock"
	"github.com/viant/idregistry/internal/idgen"
)

// Context describes where an event originated.
type Context struct {
	EventType   string `json:"eventType"`
	Service     string `json:"service"`
	Method      string `json:"method"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

// Event wraps a payload with identity and timing metadata.
type Event[T any] struct {
	ID        string                 `json:"id"`
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event stamped with a fresh ID and the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		ID:        idgen.New(),
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
