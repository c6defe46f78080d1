// Package retention bounds how many announcements each destination keeps
// per category.
package retention

import "github.com/five82/crier/internal/filter"

// Eviction names the oldest retained entry that the sink must drop.
type Eviction struct {
	Destination int
	Tag         filter.Tag
	Seq         uint64
}

type lane struct {
	next uint64
	held []uint64 // FIFO of sequence numbers
}

// Buffer tracks retained entries per (destination, category). Not safe for
// concurrent use.
type Buffer struct {
	limits map[int]int
	lanes  map[int]map[filter.Tag]*lane
}

// NewBuffer returns an empty buffer with no limits set.
func NewBuffer() *Buffer {
	return &Buffer{
		limits: make(map[int]int),
		lanes:  make(map[int]map[filter.Tag]*lane),
	}
}

// SetLimit sets the per-category cap for dest. Zero or negative disables
// eviction. Lowering a limit trims one entry per later Record.
func (b *Buffer) SetLimit(dest, limit int) {
	if limit < 0 {
		limit = 0
	}
	b.limits[dest] = limit
}

// Record retains one new entry for (dest, tag) and returns an eviction for
// the oldest entry when the cap is exceeded. Other categories of the same
// destination are never touched.
func (b *Buffer) Record(dest int, tag filter.Tag) *Eviction {
	l := b.lane(dest, tag)
	l.next++
	l.held = append(l.held, l.next)

	limit := b.limits[dest]
	if limit <= 0 || len(l.held) <= limit {
		return nil
	}
	oldest := l.held[0]
	l.held = l.held[1:]
	return &Eviction{Destination: dest, Tag: tag, Seq: oldest}
}

// Held returns the number of retained entries for (dest, tag).
func (b *Buffer) Held(dest int, tag filter.Tag) int {
	if l, ok := b.lanes[dest][tag]; ok {
		return len(l.held)
	}
	return 0
}

// Reset clears every count for dest, as when its content is cleared.
// Sequence numbers restart at 1.
func (b *Buffer) Reset(dest int) {
	delete(b.lanes, dest)
}

// Forget drops dest entirely, including its limit.
func (b *Buffer) Forget(dest int) {
	delete(b.lanes, dest)
	delete(b.limits, dest)
}

func (b *Buffer) lane(dest int, tag filter.Tag) *lane {
	byTag, ok := b.lanes[dest]
	if !ok {
		byTag = make(map[filter.Tag]*lane)
		b.lanes[dest] = byTag
	}
	l, ok := byTag[tag]
	if !ok {
		l = &lane{}
		byTag[tag] = l
	}
	return l
}
