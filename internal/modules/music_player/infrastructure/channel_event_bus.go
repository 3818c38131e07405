package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/application/ports"
	"github.com/Tyr597972/DiscordBot/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// DefaultEventBufferSize is the default buffer size for the notification channel.
const DefaultEventBufferSize = 100

var (
	// ErrEventBusClosed is returned when publishing or subscribing after Close.
	ErrEventBusClosed = errors.New("event bus closed")
	// ErrEventBufferFull is returned when an event was dropped because the buffer was full.
	ErrEventBufferFull = errors.New("event buffer full")
)

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

type eventHandler func(context.Context, domain.Event)

// ChannelEventBus provides a channel-based event bus for async event handling.
//
// TrackEndedEvents travel on their own lane: they are never dropped, and each
// guild's are delivered in publish order by a worker of that guild, so a slow
// guild never holds back another. Every other event goes through one buffered
// notification channel with a single dispatcher; when it is full the event is
// dropped.
type ChannelEventBus struct {
	notifications chan domain.Event
	handlers      map[reflect.Type][]eventHandler
	logger        *zap.Logger

	// trackEnded holds undelivered TrackEndedEvents of guilds whose worker is running.
	laneMu     sync.Mutex
	trackEnded map[snowflake.ID][]domain.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int, logger *zap.Logger) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		notifications: make(chan domain.Event, bufferSize),
		handlers:      make(map[reflect.Type][]eventHandler),
		trackEnded:    make(map[snowflake.ID][]domain.Event),
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}

	bus.wg.Add(1)
	go bus.dispatchNotifications()

	return bus
}

func (b *ChannelEventBus) dispatchNotifications() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.notifications:
			if !ok {
				return
			}
			b.deliver(event)
		}
	}
}

// dispatchTrackEnded delivers one guild's TrackEndedEvents until none are left.
func (b *ChannelEventBus) dispatchTrackEnded(guildID snowflake.ID) {
	defer b.wg.Done()
	for {
		b.laneMu.Lock()
		pending := b.trackEnded[guildID]
		if len(pending) == 0 || b.ctx.Err() != nil {
			delete(b.trackEnded, guildID)
			b.laneMu.Unlock()
			return
		}
		event := pending[0]
		pending[0] = nil
		b.trackEnded[guildID] = pending[1:]
		b.laneMu.Unlock()

		b.deliver(event)
	}
}

func (b *ChannelEventBus) deliver(event domain.Event) {
	b.mu.RLock()
	handlers := b.handlers[reflect.TypeOf(event)]
	b.mu.RUnlock()
	for _, handler := range handlers {
		b.invoke(handler, event)
	}
}

// invoke runs one handler, keeping the dispatcher alive if it panics.
func (b *ChannelEventBus) invoke(handler eventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("type", reflect.TypeOf(event).String()),
				zap.Stringer("guild", event.EventGuildID()),
				zap.Any("panic", r),
			)
		}
	}()
	handler(b.ctx, event)
}

// Publish queues an event for delivery without blocking.
// TrackEndedEvents are always accepted until Close. Other events are dropped
// with ErrEventBufferFull if the notification buffer is full.
func (b *ChannelEventBus) Publish(event domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventType := reflect.TypeOf(event).String()

	if b.closed {
		b.logger.Warn("attempted to publish to closed event bus", zap.String("type", eventType))
		return ErrEventBusClosed
	}

	if _, ok := event.(domain.TrackEndedEvent); ok {
		b.publishTrackEnded(event)
		b.logger.Debug("published event",
			zap.String("type", eventType),
			zap.Stringer("guild", event.EventGuildID()),
		)
		return nil
	}

	select {
	case b.notifications <- event:
		b.logger.Debug("published event",
			zap.String("type", eventType),
			zap.Stringer("guild", event.EventGuildID()),
		)
		return nil
	default:
		b.logger.Warn("event buffer full, dropping event", zap.String("type", eventType))
		return fmt.Errorf("%w: %s", ErrEventBufferFull, eventType)
	}
}

// publishTrackEnded appends to the guild's lane, starting its worker if idle.
// Must be called with b.mu read-locked so Close cannot be waiting yet.
func (b *ChannelEventBus) publishTrackEnded(event domain.Event) {
	guildID := event.EventGuildID()

	b.laneMu.Lock()
	defer b.laneMu.Unlock()

	pending, running := b.trackEnded[guildID]
	b.trackEnded[guildID] = append(pending, event)
	if !running {
		b.wg.Add(1)
		go b.dispatchTrackEnded(guildID)
	}
}

// Subscribe registers a handler for events of exactly eventType.
func (b *ChannelEventBus) Subscribe(
	eventType reflect.Type,
	handler func(context.Context, domain.Event),
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Close stops all dispatchers and waits for running handlers to return.
// Events not yet delivered are dropped.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	close(b.notifications)
	b.wg.Wait()

	b.logger.Debug("channel event bus closed")
}
