// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-exhibitions/spacecms/internal/testutil"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New(testutil.TestLogger())
	defer b.Close()

	a := b.Subscribe(4)
	c := b.Subscribe(4)

	b.Publish(Message{Topic: TopicSectionUpdated, Name: "hero", UpdatedBy: "admin"})

	for _, sub := range []*Subscription{a, c} {
		select {
		case msg := <-sub.C():
			assert.Equal(t, TopicSectionUpdated, msg.Topic)
			assert.Equal(t, "hero", msg.Name)
			assert.False(t, msg.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive message")
		}
	}
}

func TestTopicFilter(t *testing.T) {
	b := New(testutil.TestLogger())
	defer b.Close()

	brandOnly := b.Subscribe(4, TopicBrandUpdated)

	b.Publish(Message{Topic: TopicSectionUpdated, Name: "hero"})
	b.Publish(Message{Topic: TopicBrandUpdated, Name: "brand"})

	select {
	case msg := <-brandOnly.C():
		assert.Equal(t, TopicBrandUpdated, msg.Topic)
	case <-time.After(time.Second):
		t.Fatal("filtered subscriber did not receive matching message")
	}

	select {
	case msg := <-brandOnly.C():
		t.Fatalf("unexpected extra message: %+v", msg)
	default:
	}
}

// A full subscriber buffer drops the overflow instead of blocking the
// publisher: delivery is at most once, never queued unboundedly.
func TestPublishDropsWhenBufferFull(t *testing.T) {
	b := New(testutil.TestLogger())
	defer b.Close()

	sub := b.Subscribe(1)

	b.Publish(Message{Topic: TopicListChanged, Name: "services"})
	b.Publish(Message{Topic: TopicListChanged, Name: "case_studies"})

	msg := <-sub.C()
	assert.Equal(t, "services", msg.Name)

	select {
	case msg := <-sub.C():
		t.Fatalf("dropped message was delivered: %+v", msg)
	default:
	}
}

// Subscribers attached after a publish never see it: no replay.
func TestNoReplayForLateSubscribers(t *testing.T) {
	b := New(testutil.TestLogger())
	defer b.Close()

	b.Publish(Message{Topic: TopicSectionUpdated, Name: "about"})

	late := b.Subscribe(4)
	select {
	case msg := <-late.C():
		t.Fatalf("late subscriber received replayed message: %+v", msg)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(testutil.TestLogger())
	defer b.Close()

	sub := b.Subscribe(4)
	sub.Close()

	// Publishing after Close must neither panic nor deliver.
	b.Publish(Message{Topic: TopicOperatorsChanged})

	_, open := <-sub.C()
	assert.False(t, open, "channel should be closed after unsubscribe")
}

func TestBusClose(t *testing.T) {
	b := New(testutil.TestLogger())

	sub := b.Subscribe(4)
	b.Close()

	_, open := <-sub.C()
	require.False(t, open)

	b.Publish(Message{Topic: TopicSectionUpdated})

	dead := b.Subscribe(4)
	_, open = <-dead.C()
	assert.False(t, open, "subscriptions on a closed bus are dead on arrival")

	// Closing a detached subscription again must be safe.
	sub.Close()
}
