package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Publisher is what services depend on.
type Publisher interface {
	Publish(ev Event)
}

// Bus is an in-process fan-out of domain events to subscriber channels.
// Publish never blocks; a slow subscriber drops events instead of stalling
// the request path.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		log: log.With(zap.String("component", "event_bus")),
	}
}

// Subscribe returns a channel receiving all future events.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 64
	}

	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)

	return ch
}

func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn("Dropping event for slow subscriber",
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// LogEvents consumes a subscription and logs every event. Runs until the bus
// is closed.
func LogEvents(ch <-chan Event, log *zap.Logger) {
	for ev := range ch {
		log.Info("Domain event",
			zap.String("type", string(ev.Type)),
			zap.String("booking_id", ev.BookingID.String()),
			zap.String("slot_id", ev.SlotID.String()),
			zap.String("lot_id", ev.LotID.String()),
			zap.String("status", ev.Status),
			zap.Time("at", ev.At),
		)
	}
}
