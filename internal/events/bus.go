// internal/events/bus.go
package events

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subscription represents a subscription to the bus.
type Subscription interface {
	ID() string
	// Unsubscribe removes the subscription.
	Unsubscribe()
}

type busEntry struct {
	id    string
	seq   uint64
	kinds KindSet
	h     Handler
}

// Bus fans every delivered event out to subscribed handlers.
// Bus itself implements Handler, so it can be passed straight to a Dispatcher.
// Delivery is synchronous, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]busEntry
	seq      uint64
	snapshot []busEntry
	logger   *zap.Logger
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string]busEntry),
		logger:   logger.Named("event_bus"),
	}
}

// Subscribe registers h for the given kinds.
func (b *Bus) Subscribe(kinds KindSet, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	b.seq++
	b.handlers[id] = busEntry{id: id, seq: b.seq, kinds: kinds, h: h}
	b.rebuild()

	b.logger.Debug("Handler subscribed",
		zap.String("kinds", kinds.String()),
		zap.String("subscription_id", id))

	return &subscription{id: id, bus: b}
}

// SubscribeFuncs is a convenience wrapper around Subscribe.
func (b *Bus) SubscribeFuncs(kinds KindSet, fns HandlerFuncs) Subscription {
	return b.Subscribe(kinds, fns)
}

func (b *Bus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.handlers[id]; !ok {
		return
	}
	delete(b.handlers, id)
	b.rebuild()

	b.logger.Debug("Handler unsubscribed", zap.String("subscription_id", id))
}

// rebuild must be called with mu held.
func (b *Bus) rebuild() {
	snap := make([]busEntry, 0, len(b.handlers))
	for _, e := range b.handlers {
		snap = append(snap, e)
	}
	sort.Slice(snap, func(i, j int) bool { return snap[i].seq < snap[j].seq })
	b.snapshot = snap
}

// Kinds returns the union of kinds any subscriber wants.
func (b *Bus) Kinds() KindSet {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var s KindSet
	for _, e := range b.snapshot {
		s |= e.kinds
	}
	return s
}

// Len returns the number of subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.snapshot)
}

func (b *Bus) each(k Kind, fn func(Handler)) {
	b.mu.RLock()
	snap := b.snapshot
	b.mu.RUnlock()

	for _, e := range snap {
		if e.kinds.Has(k) {
			fn(e.h)
		}
	}
}

func (b *Bus) OnCreate(ev *CreateEvent, ctx EventContext) {
	b.each(KindCreate, func(h Handler) { h.OnCreate(ev, ctx) })
}

func (b *Bus) OnCreateV2(ev *CreateV2Event, ctx EventContext) {
	b.each(KindCreateV2, func(h Handler) { h.OnCreateV2(ev, ctx) })
}

func (b *Bus) OnComplete(ev *CompleteEvent, ctx EventContext) {
	b.each(KindComplete, func(h Handler) { h.OnComplete(ev, ctx) })
}

func (b *Bus) OnTrade(ev *TradeEvent, ctx EventContext) {
	b.each(KindTrade, func(h Handler) { h.OnTrade(ev, ctx) })
}

func (b *Bus) OnBuy(ev *BuyEvent, ctx EventContext) {
	b.each(KindBuy, func(h Handler) { h.OnBuy(ev, ctx) })
}

func (b *Bus) OnSell(ev *SellEvent, ctx EventContext) {
	b.each(KindSell, func(h Handler) { h.OnSell(ev, ctx) })
}

func (b *Bus) OnCreatePool(ev *CreatePoolEvent, ctx EventContext) {
	b.each(KindCreatePool, func(h Handler) { h.OnCreatePool(ev, ctx) })
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id  string
	bus *Bus
}

func (s *subscription) ID() string { return s.id }

// Unsubscribe removes this subscription from the bus.
func (s *subscription) Unsubscribe() {
	s.bus.unsubscribe(s.id)
}
