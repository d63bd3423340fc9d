package event

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// HandlerFunc handles a delivered event.
type HandlerFunc func(ev Event)

// PanicHandler is called when a handler panics.
type PanicHandler func(ev Event, recovered any)

// Bus delivers events synchronously to matching subscribers.
// It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	nextID uint64

	panicHandler PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the handler called when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is a registered handler.
type Subscription struct {
	id      uint64
	pattern Topic
	handler HandlerFunc
	bus     *Bus
	active  atomic.Bool
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Pattern returns the topic pattern.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// IsActive returns true until Unsubscribe is called.
func (s *Subscription) IsActive() bool {
	return s.active.Load()
}

// Unsubscribe removes the subscription from its bus.
func (s *Subscription) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.bus.remove(s.id)
}

// Subscribe registers fn for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		pattern: pattern,
		handler: fn,
		bus:     b,
	}
	sub.active.Store(true)
	b.subs = append(b.subs, sub)
	return sub, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every subscriber matching topic and returns
// the number of handlers that completed without panicking.
func (b *Bus) Publish(topic Topic, payload any) (int, error) {
	if !topic.IsValid() {
		return 0, ErrInvalidTopic
	}

	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if topic.Matches(s.pattern) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	b.published.Add(1)

	ev := Event{Topic: topic, Payload: payload, Time: time.Now()}
	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		if b.deliver(s, ev) {
			delivered++
		}
	}
	b.delivered.Add(uint64(delivered))
	return delivered, nil
}

func (b *Bus) deliver(s *Subscription, ev Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			b.panics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(ev, r)
			}
		}
	}()
	s.handler(ev)
	return true
}

// Count returns the number of active subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats holds bus counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Panics    uint64
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Panics:    b.panics.Load(),
	}
}
