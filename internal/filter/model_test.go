package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combatModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(
		GroupSpec{
			Name:  "Combat",
			Color: "#FF0000",
			Categories: []CategorySpec{
				{Name: "Hit", Patterns: []string{`hits?\b`}},
				{Name: "Miss", Patterns: []string{`misses`, `dodges`}},
			},
		},
		GroupSpec{
			Name: "Labor",
			Categories: []CategorySpec{
				{Name: "Job", Patterns: []string{`cancels (?P<body>.*)`}},
			},
		},
	)
	require.NoError(t, err)
	return m
}

func TestNewModel_DefaultsAndOrder(t *testing.T) {
	m := combatModel(t)

	assert.Equal(t, []Tag{
		{Group: "Combat", Category: "Hit"},
		{Group: "Combat", Category: "Miss"},
		{Group: "Labor", Category: "Job"},
	}, m.Tags())

	g, ok := m.Group("Labor")
	require.True(t, ok)
	assert.Equal(t, defaultGroupColor, g.Color)
}

func TestNewModel_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		spec []GroupSpec
		want error
	}{
		{
			name: "bad regex",
			spec: []GroupSpec{{Name: "G", Categories: []CategorySpec{{Name: "C", Patterns: []string{`(`}}}}},
			want: ErrInvalidPattern,
		},
		{
			name: "duplicate group",
			spec: []GroupSpec{{Name: "G"}, {Name: "G"}},
			want: ErrDuplicateGroup,
		},
		{
			name: "duplicate category",
			spec: []GroupSpec{{Name: "G", Categories: []CategorySpec{{Name: "C"}, {Name: "C"}}}},
			want: ErrDuplicateCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.spec...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "err = %v, want %v", err, tt.want)
		})
	}
}

func TestNewModel_CategoriesNeverShareVisibility(t *testing.T) {
	shared := map[string]any{"0": "true", "1": false}
	m, err := NewModel(GroupSpec{
		Name: "G",
		Categories: []CategorySpec{
			{Name: "A", Show: shared},
			{Name: "B", Show: shared},
		},
	})
	require.NoError(t, err)
	r := NewRegistry(m, 0, 1)

	a := Tag{Group: "G", Category: "A"}
	b := Tag{Group: "G", Category: "B"}
	require.NoError(t, r.SetVisible(a, 1, true))

	got, err := r.GetVisible(b, 1)
	require.NoError(t, err)
	assert.False(t, got, "toggling A must not change B")
	got, err = r.GetVisible(b, 0)
	require.NoError(t, err)
	assert.True(t, got, "loaded flag survives registration")
	assert.Equal(t, false, shared["1"], "source map must not be mutated")
}

func TestReplacePattern(t *testing.T) {
	m := combatModel(t)
	hit := Tag{Group: "Combat", Category: "Hit"}

	changed, err := m.ReplacePattern(hit, 0, `hits?\b`)
	require.NoError(t, err)
	assert.False(t, changed, "identical text is a no-op")

	changed, err = m.ReplacePattern(hit, 0, `strikes`)
	require.NoError(t, err)
	assert.True(t, changed)

	cat, _ := m.Category(hit)
	assert.Equal(t, []string{`strikes`}, cat.Patterns())
}

func TestReplacePattern_InvalidKeepsPrevious(t *testing.T) {
	m := combatModel(t)
	miss := Tag{Group: "Combat", Category: "Miss"}

	// Simulates keystroke-level edits where an intermediate state is invalid.
	for _, text := range []string{`dod(`, `dod(g`, `[`} {
		_, err := m.ReplacePattern(miss, 1, text)
		require.ErrorIs(t, err, ErrInvalidPattern)
	}
	cat, _ := m.Category(miss)
	assert.Equal(t, []string{`misses`, `dodges`}, cat.Patterns())
}

func TestReplacePattern_Errors(t *testing.T) {
	m := combatModel(t)

	_, err := m.ReplacePattern(Tag{Group: "Combat", Category: "Nope"}, 0, `x`)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = m.ReplacePattern(Tag{Group: "Combat", Category: "Hit"}, 4, `x`)
	assert.ErrorIs(t, err, ErrPatternIndex)
}

func TestSetGroupColor(t *testing.T) {
	m := combatModel(t)
	require.NoError(t, m.SetGroupColor("Combat", "#00FF00"))
	g, _ := m.Group("Combat")
	assert.Equal(t, "#00FF00", g.Color)

	assert.ErrorIs(t, m.SetGroupColor("Nope", "#000"), ErrUnknownGroup)
}

func TestSpec_RoundTripsThroughNewModel(t *testing.T) {
	m := combatModel(t)
	r := NewRegistry(m)
	require.NoError(t, r.RegisterDestination(0))
	require.NoError(t, r.SetVisible(Tag{Group: "Combat", Category: "Hit"}, 0, true))

	again, err := NewModel(m.Spec()...)
	require.NoError(t, err)
	assert.Equal(t, m.Spec(), again.Spec())
	assert.Equal(t, m.Visibility(), again.Visibility())
}
