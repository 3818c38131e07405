package ports

import (
	"context"
	"reflect"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
)

// EventPublisher hands domain events to their subscribers without waiting
// for them to be handled.
type EventPublisher interface {
	Publish(event domain.Event) error
}

// EventSubscriber registers handlers by concrete event type.
// Handlers run one at a time, in publish order.
type EventSubscriber interface {
	Subscribe(eventType reflect.Type, handler func(context.Context, domain.Event)) error
}
