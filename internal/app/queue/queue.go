// Package queue provides the playback queue and its manager.
package queue

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// Queue is an ordered sequence of media items. The front element is the next
// playback candidate and is removed, not peeked, when consumed. Queue is not
// safe for concurrent use on its own; the owning Manager serializes access.
type Queue struct {
	items []*media.Item
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{items: make([]*media.Item, 0)}
}

// Enqueue appends an item to the back of the queue.
func (q *Queue) Enqueue(it *media.Item) {
	q.items = append(q.items, it)
}

// DequeueFront removes and returns the first item. The second return value
// is false when the queue is empty.
func (q *Queue) DequeueFront() (*media.Item, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	it := q.items[0]
	q.items = q.items[1:]
	return it, true
}

// PeekFront returns the first item without removing it.
func (q *Queue) PeekFront() (*media.Item, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// RemoveByIdentity removes the first element that is the same *media.Item.
// Removing an item that is not queued is a no-op.
func (q *Queue) RemoveByIdentity(it *media.Item) bool {
	for i, cur := range q.items {
		if cur == it {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Move relocates the element at from to position to. Both indexes are
// clamped into [0, len-1]; equal indexes after clamping are a no-op.
func (q *Queue) Move(from, to int) {
	if len(q.items) == 0 {
		return
	}
	from = clampIndex(from, len(q.items))
	to = clampIndex(to, len(q.items))
	if from == to {
		return
	}

	it := q.items[from]
	q.items = append(q.items[:from], q.items[from+1:]...)
	q.items = append(q.items, nil)
	copy(q.items[to+1:], q.items[to:])
	q.items[to] = it
}

// Shuffle performs an unbiased in-place permutation.
func (q *Queue) Shuffle() {
	rng := newRand()
	rng.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.items = q.items[:0]
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued items in order.
func (q *Queue) Items() []*media.Item {
	out := make([]*media.Item, len(q.items))
	copy(out, q.items)
	return out
}

// Names returns the display names of all queued items in order.
func (q *Queue) Names() []string {
	return lo.Map(q.items, func(it *media.Item, _ int) string {
		return it.DisplayName()
	})
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length-1 {
		return length - 1
	}
	return i
}

// newRand seeds math/rand from crypto/rand, falling back to the wall clock.
func newRand() *rand.Rand {
	var seed int64
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
