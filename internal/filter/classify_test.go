package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	m := combatModel(t)
	c := NewClassifier(m)

	tests := []struct {
		name    string
		line    string
		want    Tag
		body    string
		matched bool
	}{
		{"hit", "Urist hits the goblin", Tag{"Combat", "Hit"}, "Urist hits the goblin", true},
		{"second pattern", "The goblin dodges!", Tag{"Combat", "Miss"}, "The goblin dodges!", true},
		{"body capture", "Urist cancels Store Item:  Needs empty bin", Tag{"Labor", "Job"}, "Store Item:  Needs empty bin", true},
		{"no match", "It is now summer.", Tag{}, "", false},
		{"empty", "", Tag{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := c.Classify(tt.line)
			require.Equal(t, tt.matched, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, rec.Tag)
			assert.Equal(t, tt.body, rec.Body)
			assert.Equal(t, tt.line, rec.Line)
		})
	}
}

func TestClassify_FirstMatchWinsByOrder(t *testing.T) {
	m, err := NewModel(
		GroupSpec{Name: "A", Categories: []CategorySpec{{Name: "Broad", Patterns: []string{`goblin`}}}},
		GroupSpec{Name: "B", Categories: []CategorySpec{{Name: "Specific", Patterns: []string{`the goblin runs`}}}},
	)
	require.NoError(t, err)

	rec, ok := NewClassifier(m).Classify("the goblin runs.")
	require.True(t, ok)
	assert.Equal(t, Tag{Group: "A", Category: "Broad"}, rec.Tag, "order beats specificity")
}

func TestClassify_NoCrossLineState(t *testing.T) {
	c := NewClassifier(combatModel(t))
	line := "Urist hits the goblin"
	first, _ := c.Classify(line)
	for _, other := range []string{"misses", "nothing", "cancels x"} {
		c.Classify(other)
	}
	again, _ := c.Classify(line)
	assert.Equal(t, first, again)
}

func TestClassify_SeesPatternEdits(t *testing.T) {
	m := combatModel(t)
	c := NewClassifier(m)
	_, err := m.ReplacePattern(Tag{Group: "Combat", Category: "Hit"}, 0, `strikes`)
	require.NoError(t, err)

	_, ok := c.Classify("Urist hits the goblin")
	assert.False(t, ok)
	rec, ok := c.Classify("Urist strikes the goblin")
	require.True(t, ok)
	assert.Equal(t, "Hit", rec.Tag.Category)
}

func TestClassify_PreservesSpacing(t *testing.T) {
	m, err := NewModel(GroupSpec{Name: "G", Categories: []CategorySpec{
		{Name: "C", Patterns: []string{`^\*\* (?P<body>.*) \*\*$`}},
	}})
	require.NoError(t, err)
	rec, ok := NewClassifier(m).Classify("**   two  spaces   **")
	require.True(t, ok)
	assert.Equal(t, "  two  spaces  ", rec.Body)
}
