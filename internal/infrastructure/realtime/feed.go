package realtime

import (
	"context"

	"lokapasar/internal/domain/entity"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one row-level change on the messages collection. Delivery is
// at-least-once with no ordering guarantee across distinct subscriptions.
type Event struct {
	Type    EventType
	Message *entity.Message
}

// Feed is the change-notification interface over the record store. The
// returned stop function must be called on teardown: subscriptions are
// scoped to the given thread ids and a leaked listener keeps acting on
// events for threads no longer displayed.
type Feed interface {
	SubscribeMessages(ctx context.Context, threadIDs []string) (<-chan Event, func(), error)
}
