// Package events is the typed publish-subscribe bus shared by the drawing
// components. Dispatch is synchronous and runs subscribers in registration
// order. A notification emitted from inside a subscriber is queued and
// delivered after every subscriber of the current notification has run, so a
// chain of notifications is always processed one link at a time.
//
// The bus is not safe for concurrent use; hosts that serve several
// goroutines funnel every call through a single owner goroutine.
package events

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/teranos/comex/logger"
)

// Channel names a notification stream carrying payloads of type T.
type Channel[T any] struct {
	name string
}

// NewChannel declares a channel. Two channels with the same name and payload
// type address the same subscribers.
func NewChannel[T any](name string) Channel[T] {
	return Channel[T]{name: name}
}

// Name returns the channel name.
func (c Channel[T]) Name() string { return c.name }

type subscription struct {
	channel string
	owner   string
	active  bool
	call    func(any)
}

// Subscription is the handle returned by On.
type Subscription struct {
	bus *Bus
	sub *subscription
}

// Unsubscribe detaches the subscriber. A subscriber removed while a
// notification is being dispatched is not called for the rest of it.
// Calling Unsubscribe more than once is a no-op.
func (s Subscription) Unsubscribe() {
	if s.sub == nil || !s.sub.active {
		return
	}
	s.bus.remove(s.sub)
}

// Active reports whether the subscription is still attached.
func (s Subscription) Active() bool {
	return s.sub != nil && s.sub.active
}

// Bus dispatches notifications to subscribers.
type Bus struct {
	subs        map[string][]*subscription
	queue       []delivery
	dispatching bool
	owners      map[string]int
	log         *zap.SugaredLogger
}

type delivery struct {
	channel string
	payload any
}

// NewBus returns an empty bus. A nil logger discards bus diagnostics.
func NewBus(log *zap.SugaredLogger) *Bus {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bus{
		subs:   make(map[string][]*subscription),
		owners: make(map[string]int),
		log:    log.Named("events"),
	}
}

// Owner returns a fresh owner tag of the form "prefix#n". Components tag
// their subscriptions with it so teardown can be verified with Count.
func (b *Bus) Owner(prefix string) string {
	b.owners[prefix]++
	return fmt.Sprintf("%s#%d", prefix, b.owners[prefix])
}

// On subscribes fn to ch on behalf of owner.
func On[T any](b *Bus, ch Channel[T], owner string, fn func(T)) Subscription {
	sub := &subscription{
		channel: ch.name,
		owner:   owner,
		active:  true,
		call: func(payload any) {
			fn(payload.(T))
		},
	}
	b.subs[ch.name] = append(b.subs[ch.name], sub)
	b.log.Debugw("subscribed", logger.FieldChannel, ch.name, logger.FieldOwner, owner)
	return Subscription{bus: b, sub: sub}
}

// Emit delivers payload to every subscriber of ch. When called from inside a
// subscriber the delivery is queued behind the notification in progress.
func Emit[T any](b *Bus, ch Channel[T], payload T) {
	b.queue = append(b.queue, delivery{channel: ch.name, payload: payload})
	if b.dispatching {
		return
	}
	b.drain()
}

func (b *Bus) drain() {
	b.dispatching = true
	defer func() {
		b.dispatching = false
		// A panicking subscriber abandons the rest of the chain.
		b.queue = nil
	}()

	for len(b.queue) > 0 {
		d := b.queue[0]
		b.queue = b.queue[1:]

		subs := make([]*subscription, len(b.subs[d.channel]))
		copy(subs, b.subs[d.channel])

		b.log.Debugw("dispatch", logger.FieldChannel, d.channel, logger.FieldListenerCount, len(subs))
		for _, sub := range subs {
			if sub.active {
				sub.call(d.payload)
			}
		}
	}
}

func (b *Bus) remove(target *subscription) {
	target.active = false
	list := b.subs[target.channel]
	for i, sub := range list {
		if sub == target {
			b.subs[target.channel] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[target.channel]) == 0 {
		delete(b.subs, target.channel)
	}
	b.log.Debugw("unsubscribed", logger.FieldChannel, target.channel, logger.FieldOwner, target.owner)
}

// UnsubscribeOwner detaches every subscription held by owner and returns how
// many were removed.
func (b *Bus) UnsubscribeOwner(owner string) int {
	var victims []*subscription
	for _, list := range b.subs {
		for _, sub := range list {
			if sub.owner == owner {
				victims = append(victims, sub)
			}
		}
	}
	for _, sub := range victims {
		b.remove(sub)
	}
	return len(victims)
}

// Count returns the number of active subscriptions held by owner.
func (b *Bus) Count(owner string) int {
	n := 0
	for _, list := range b.subs {
		for _, sub := range list {
			if sub.owner == owner {
				n++
			}
		}
	}
	return n
}

// Total returns the number of active subscriptions on the bus.
func (b *Bus) Total() int {
	n := 0
	for _, list := range b.subs {
		n += len(list)
	}
	return n
}

// Listeners returns the number of active subscriptions on a channel.
func (b *Bus) Listeners(name string) int {
	return len(b.subs[name])
}
