package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crier/internal/filter"
)

var (
	hit  = filter.Tag{Group: "Combat", Category: "Hit"}
	miss = filter.Tag{Group: "Combat", Category: "Miss"}
)

func TestRecord_EvictsOldestPastLimit(t *testing.T) {
	b := NewBuffer()
	b.SetLimit(0, 3)

	for i := 0; i < 3; i++ {
		assert.Nil(t, b.Record(0, hit))
	}
	ev := b.Record(0, hit)
	require.NotNil(t, ev)
	assert.Equal(t, Eviction{Destination: 0, Tag: hit, Seq: 1}, *ev)
	assert.Equal(t, 3, b.Held(0, hit))

	ev = b.Record(0, hit)
	require.NotNil(t, ev)
	assert.Equal(t, uint64(2), ev.Seq)
}

func TestRecord_UnlimitedNeverEvicts(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 1000; i++ {
		require.Nil(t, b.Record(2, hit))
	}
	assert.Equal(t, 1000, b.Held(2, hit))

	b.SetLimit(2, 0)
	assert.Nil(t, b.Record(2, hit))
}

func TestRecord_CategoriesAreIndependent(t *testing.T) {
	b := NewBuffer()
	b.SetLimit(0, 2)

	b.Record(0, miss)
	b.Record(0, hit)
	b.Record(0, hit)
	ev := b.Record(0, hit)
	require.NotNil(t, ev)
	assert.Equal(t, hit, ev.Tag)
	assert.Equal(t, 1, b.Held(0, miss))

	assert.Nil(t, b.Record(0, miss))
	assert.Equal(t, 2, b.Held(0, miss))
}

func TestRecord_DestinationsAreIndependent(t *testing.T) {
	b := NewBuffer()
	b.SetLimit(0, 1)
	b.SetLimit(1, 5)

	b.Record(0, hit)
	b.Record(1, hit)
	assert.NotNil(t, b.Record(0, hit))
	assert.Nil(t, b.Record(1, hit))
	assert.Equal(t, 2, b.Held(1, hit))
}

func TestReset_RestartsSequence(t *testing.T) {
	b := NewBuffer()
	b.SetLimit(0, 1)
	b.Record(0, hit)
	b.Record(0, hit)
	b.Record(0, miss)

	b.Reset(0)
	assert.Equal(t, 0, b.Held(0, hit))
	assert.Equal(t, 0, b.Held(0, miss))
	assert.Nil(t, b.Record(0, hit))
	ev := b.Record(0, hit)
	require.NotNil(t, ev, "reset keeps the limit")
	assert.Equal(t, uint64(1), ev.Seq)
}

func TestForget_DropsLimit(t *testing.T) {
	b := NewBuffer()
	b.SetLimit(3, 1)
	b.Record(3, hit)
	b.Forget(3)
	assert.Zero(t, b.Held(3, hit))
	assert.Nil(t, b.Record(3, hit))
	assert.Nil(t, b.Record(3, hit))
}
