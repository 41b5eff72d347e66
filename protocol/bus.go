package protocol

import (
	"sort"
	"sync"
	"time"
)

// Listener reacts to a published Event
type Listener func(Event)

type subscription struct {
	kinds    map[Kind]struct{} // nil means every kind
	listener Listener
}

// Bus is a synchronous observer registry. A session owns one Bus and hands
// it to the decks and cards it builds, so subscriptions end with the session.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]subscription
	next   int
	closed bool
	now    func() time.Time
}

// NewBus constructs an empty Bus
func NewBus() *Bus {
	return &Bus{
		subs: map[int]subscription{},
		now:  time.Now,
	}
}

// Subscribe registers a listener for every notification and returns a handle
// for Unsubscribe. A nil listener is ignored and -1 is returned.
func (b *Bus) Subscribe(l Listener) int {
	return b.subscribe(nil, l)
}

// SubscribeKinds registers a listener for the given kinds only
func (b *Bus) SubscribeKinds(l Listener, kinds ...Kind) int {
	set := map[Kind]struct{}{}
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return b.subscribe(set, l)
}

func (b *Bus) subscribe(kinds map[Kind]struct{}, l Listener) int {
	if l == nil {
		return -1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return -1
	}

	handle := b.next
	b.next++
	b.subs[handle] = subscription{kinds: kinds, listener: l}
	return handle
}

// Unsubscribe removes the listener identified by handle
func (b *Bus) Unsubscribe(handle int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, handle)
}

// Len returns the number of live subscriptions
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers e to every matching listener in subscription order.
// Listeners run on the caller's goroutine and may unsubscribe themselves.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = b.now()
	}

	for _, l := range b.matching(e.Kind) {
		l(e)
	}
}

func (b *Bus) matching(k Kind) []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handles := make([]int, 0, len(b.subs))
	for h, s := range b.subs {
		if s.kinds != nil {
			if _, ok := s.kinds[k]; !ok {
				continue
			}
		}
		handles = append(handles, h)
	}
	sort.Ints(handles)

	ls := make([]Listener, 0, len(handles))
	for _, h := range handles {
		ls = append(ls, b.subs[h].listener)
	}
	return ls
}

// Close drops every subscription and refuses new ones
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = map[int]subscription{}
	b.closed = true
}
