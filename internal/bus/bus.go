// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bus implements the in-process change propagation channel. Content
// and account mutations are published here and fan out to subscribers: the
// render cache, the SSE bridge and any admin view that wants live updates.
//
// Delivery is at most once. Publish never blocks: a subscriber whose buffer
// is full misses the message, and subscribers that attach after a publish
// never see it. Consumers are expected to re-read authoritative state from
// the repository on receipt, so a missed message costs one refresh, not
// correctness.
package bus

import (
	"log/slog"
	"sync"
	"time"
)

// Topic identifies the kind of change a message announces.
type Topic string

const (
	TopicSectionUpdated   Topic = "section.updated"
	TopicListChanged      Topic = "list.changed"
	TopicBrandUpdated     Topic = "brand.updated"
	TopicOperatorsChanged Topic = "operators.changed"
)

// Message is the payload delivered to subscribers. Name carries the section
// or list the change applies to; it is empty for operator changes.
type Message struct {
	Topic     Topic     `json:"topic"`
	Name      string    `json:"name,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	At        time.Time `json:"at"`
}

// Subscription is a registered listener. Close detaches it; after Close
// returns, no further messages are delivered and C is closed.
type Subscription struct {
	id     uint64
	ch     chan Message
	topics map[Topic]bool // nil means all topics
	bus    *Bus
	once   sync.Once
}

// C returns the channel messages are delivered on.
func (s *Subscription) C() <-chan Message {
	return s.ch
}

// Close detaches the subscription from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.id)
	s.closeChan()
}

// closeChan closes the delivery channel exactly once, whichever of
// Subscription.Close and Bus.Close gets there first.
func (s *Subscription) closeChan() {
	s.once.Do(func() { close(s.ch) })
}

// Bus is the in-process publish/subscribe hub.
type Bus struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// New creates a Bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger,
		subs:   make(map[uint64]*Subscription),
	}
}

// Subscribe registers a listener with the given buffer size. With no topics
// given the subscription receives everything; otherwise only the listed
// topics are delivered.
func (b *Bus) Subscribe(buffer int, topics ...Topic) *Subscription {
	if buffer <= 0 {
		buffer = 8
	}

	sub := &Subscription{
		ch:  make(chan Message, buffer),
		bus: b,
	}
	if len(topics) > 0 {
		sub.topics = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			sub.topics[t] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		// A closed bus hands out a dead subscription rather than nil so
		// shutdown races stay panic-free.
		sub.closeChan()
		return sub
	}
	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub
	return sub
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish delivers msg to every matching subscriber without blocking. A
// subscriber that cannot keep up is skipped.
func (b *Bus) Publish(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if sub.topics != nil && !sub.topics[msg.Topic] {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			b.logger.Warn("bus subscriber lagging, message dropped",
				"topic", string(msg.Topic), "name", msg.Name)
		}
	}
}

// Close shuts the bus down. All subscriptions are detached and their
// channels closed; subsequent Publish calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.closeChan()
	}
}
