package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/wordcolor"
)

func TestReport_ListsCategoriesAndUnknownColors(t *testing.T) {
	model, err := filter.NewModel(filter.GroupSpec{
		Name:  "Combat",
		Color: "#FF5555",
		Categories: []filter.CategorySpec{
			{Name: "Hit", Patterns: []string{`hits?\b`}, Show: map[string]any{"0": true, "1": false, "7": "true"}},
		},
	})
	require.NoError(t, err)
	words := wordcolor.Table{
		Colors: map[string]wordcolor.Color{"red": {FG: "#FF0000"}},
		Words:  map[string]map[string]string{"Combat": {"goblin": "red", "troll": "teal"}},
	}

	var out bytes.Buffer
	require.NoError(t, report(&out, model, words, 4))

	got := out.String()
	assert.Contains(t, got, "Combat #FF5555")
	assert.Contains(t, got, "windows [0 7?]")
	assert.Contains(t, got, "1 groups, 1 categories, 1 colors")
	assert.Contains(t, got, "warning: undefined color Combat/troll -> teal")
	assert.NotContains(t, got, "goblin")
}

func TestScanLines_TrimsCarriageReturns(t *testing.T) {
	var lines []string
	require.NoError(t, scanLines(strings.NewReader("a\r\nb\n"), func(s string) { lines = append(lines, s) }))
	assert.Equal(t, []string{"a", "b"}, lines)
}
