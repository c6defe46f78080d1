package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crier/internal/filter"
)

func TestEditSession_CommitSavesOnlyDirtyParts(t *testing.T) {
	store := &memoryStore{spec: combatSpec()}
	e := newEngine(t, store, &recordingSink{}, Destination{ID: 0})
	s := e.Begin()

	require.NoError(t, s.SetVisible(missTag, 0, true))
	patterns, visibility := s.Dirty()
	assert.False(t, patterns)
	assert.True(t, visibility)

	require.NoError(t, s.Commit(context.Background()))
	assert.Empty(t, store.patterns)
	require.Len(t, store.visibility, 1)
	assert.Equal(t, filter.Visibility{0: true}, store.visibility[0]["Combat.Miss"])

	require.NoError(t, s.Commit(context.Background()))
	assert.Len(t, store.visibility, 1, "second commit without edits is a no-op")
}

func TestEditSession_ReplacePattern(t *testing.T) {
	store := &memoryStore{spec: combatSpec()}
	e := newEngine(t, store, &recordingSink{}, Destination{ID: 0})
	s := e.Begin()

	require.ErrorIs(t, s.ReplacePattern(hitTag, 0, `hit(`), filter.ErrInvalidPattern)
	patterns, _ := s.Dirty()
	assert.False(t, patterns, "rejected edit leaves session clean")
	assert.True(t, e.Process("Urist hits").Matched)

	require.NoError(t, s.ReplacePattern(hitTag, 0, `hits?\b`))
	patterns, _ = s.Dirty()
	assert.False(t, patterns, "identical text is not an edit")

	require.NoError(t, s.ReplacePattern(hitTag, 0, `strikes`))
	assert.False(t, e.Process("Urist hits").Matched)
	assert.True(t, e.Process("Urist strikes").Matched)

	require.NoError(t, s.Commit(context.Background()))
	require.Len(t, store.patterns, 1)
	assert.Equal(t, []string{`strikes`}, store.patterns[0][0].Categories[0].Patterns)
}

func TestEditSession_FailedSaveKeepsMemoryAndStaysDirty(t *testing.T) {
	store := &memoryStore{spec: combatSpec(), saveErr: errors.New("disk full")}
	e := newEngine(t, store, &recordingSink{}, Destination{ID: 0})
	s := e.Begin()

	got, err := s.Toggle(missTag, 0)
	require.NoError(t, err)
	assert.True(t, got)

	require.Error(t, s.Commit(context.Background()))
	visible, err := e.GetVisible(missTag, 0)
	require.NoError(t, err)
	assert.True(t, visible, "memory is the source of truth")
	_, dirty := s.Dirty()
	assert.True(t, dirty)

	store.saveErr = nil
	require.NoError(t, s.Commit(context.Background()))
	_, dirty = s.Dirty()
	assert.False(t, dirty)
}

func TestEditSession_ReadOnlyLoader(t *testing.T) {
	e := newEngine(t, Static(combatSpec()), &recordingSink{}, Destination{ID: 0})
	s := e.Begin()
	require.NoError(t, s.SetGroupColor("Combat", "#00FF00"))
	assert.ErrorIs(t, s.Commit(context.Background()), ErrReadOnly)
	assert.Equal(t, "#00FF00", e.Palette().GroupColor("Combat"))
}

func TestEditSession_Errors(t *testing.T) {
	e := newEngine(t, Static(combatSpec()), &recordingSink{}, Destination{ID: 0})
	s := e.Begin()
	assert.ErrorIs(t, s.SetVisible(hitTag, 5, true), filter.ErrUnknownDestination)
	_, err := s.Toggle(filter.Tag{Group: "x", Category: "y"}, 0)
	assert.ErrorIs(t, err, filter.ErrUnknownCategory)
	assert.ErrorIs(t, s.SetGroupColor("nope", "#000"), filter.ErrUnknownGroup)

	patterns, visibility := s.Dirty()
	assert.False(t, patterns)
	assert.False(t, visibility)
}
