// Package events is the in-process change feed. Every committed calendar or
// catalog write is published here so that caches and open websocket
// sessions can refresh without polling.
package events

import (
	"sync"
	"time"

	"timesheet/internal/log"
)

const (
	SlotAssigned   Type = "slot.assigned"
	SlotCleared    Type = "slot.cleared"
	WeekCleared    Type = "week.cleared"
	WeekStatus     Type = "week.status"
	AccountChanged Type = "account.changed"
)

const defaultBuffer = 64

type Type string

// Event describes one committed change.
type Event struct {
	Type      Type      `json:"type"`
	WeekID    string    `json:"weekId,omitempty"`
	SlotID    string    `json:"slotId,omitempty"`
	AccountID string    `json:"accountId,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Broker fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Broker struct {
	mu       sync.RWMutex
	subs     map[int]chan Event
	handlers []func(Event)
	nextID   int
	closed   bool
	logger   *log.Logger
	now      func() time.Time
}

func NewBroker(logger *log.Logger) *Broker {
	if logger == nil {
		logger = log.Discard()
	}
	return &Broker{
		subs:   make(map[int]chan Event),
		logger: logger.WithComponent(log.ComponentEvents),
		now:    time.Now,
	}
}

// Subscribe returns a channel of future events and a cancel func that
// closes it. buffer <= 0 uses the default size.
func (b *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Handle registers fn to run synchronously inside Publish, before any
// subscriber channel is written. fn must not publish.
func (b *Broker) Handle(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Publish stamps e, runs the handlers and delivers it to every subscriber.
func (b *Broker) Publish(e Event) {
	if e.At.IsZero() {
		e.At = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, fn := range b.handlers {
		fn(e)
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("Dropping event for slow subscriber",
				"subscriber", id,
				log.FieldEventType, string(e.Type),
				log.FieldWeekID, e.WeekID)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
