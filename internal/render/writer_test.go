package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/wordcolor"
)

var hit = filter.Tag{Group: "Combat", Category: "Hit"}

func plainRenderer(buf *bytes.Buffer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(buf)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func TestWriter_PrintsSelectedDestinations(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Options{
		Destinations:    []int{1},
		ShowTags:        true,
		ShowDestination: true,
		Renderer:        plainRenderer(&buf),
	})

	spans := []wordcolor.Span{{Text: "Urist hits the "}, {Text: "goblin", Color: "red"}, {Text: "."}}
	require.NoError(t, w.Append(0, hit, spans, hit.Label()))
	require.NoError(t, w.Append(1, hit, spans, hit.Label()))

	assert.Equal(t, "#1 [Combat][Hit] Urist hits the goblin.\n", buf.String())
}

func TestWriter_ColorsWithProfile(t *testing.T) {
	var buf bytes.Buffer
	r := lipgloss.NewRenderer(&buf)
	r.SetColorProfile(termenv.TrueColor)
	w := NewWriter(&buf, Options{Renderer: r})
	w.SetPalette(engine.Palette{Colors: map[string]wordcolor.Color{"red": {FG: "#FF0000"}}})

	out := w.Format(hit, []wordcolor.Span{{Text: "goblin", Color: "red"}, {Text: " flees", Color: "unknown"}}, hit.Label())
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "goblin")
	assert.Contains(t, out, " flees")
	assert.NotContains(t, out, "[Combat]", "tags off by default")
}

func TestWriter_EvictOnlyCounts(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Options{Destinations: []int{0}, Renderer: plainRenderer(&buf)})
	require.NoError(t, w.EvictOldest(0, hit))
	require.NoError(t, w.EvictOldest(3, hit))
	assert.Equal(t, 1, w.Evicted())
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriter_WriteErrorIsReturned(t *testing.T) {
	w := NewWriter(failingWriter{}, Options{Renderer: lipgloss.NewRenderer(&bytes.Buffer{})})
	assert.Error(t, w.Append(0, hit, []wordcolor.Span{{Text: "x"}}, ""))
}

func TestWriter_BodyTakesGroupColor(t *testing.T) {
	var buf bytes.Buffer
	r := lipgloss.NewRenderer(&buf)
	r.SetColorProfile(termenv.TrueColor)
	w := NewWriter(&buf, Options{ShowTags: true, Renderer: r})
	w.SetPalette(engine.Palette{
		Groups: map[string]string{"Combat": "#FF0000"},
		Colors: map[string]wordcolor.Color{"gold": {FG: "#FFD700"}, "shade": {BG: "#000000"}},
	})

	spans := []wordcolor.Span{
		{Text: "Urist hits the "},
		{Text: "goblin", Color: "gold"},
		{Text: " "},
		{Text: "troll", Color: "shade"},
	}
	require.NoError(t, w.Append(0, hit, spans, hit.Label()))
	out := buf.String()

	red := "\x1b[38;2;255;0;0m"
	assert.Contains(t, out, red+"Urist hits the ")
	assert.Contains(t, out, "\x1b[38;2;255;215;0mgoblin")
	assert.Regexp(t, `\x1b\[[0-9;]*38;2;255;0;0[0-9;]*mtroll`, out, "background-only word keeps the group color")
	assert.Regexp(t, `\x1b\[[0-9;]*48;2;0;0;0[0-9;]*mtroll`, out)
	assert.NotContains(t, out, red+"[Combat]", "prefix stays neutral")
}

func TestWriter_KeepsTabs(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Options{Renderer: plainRenderer(&buf)})
	w.SetPalette(engine.Palette{Groups: map[string]string{"Combat": "#FF0000"}})
	require.NoError(t, w.Append(0, hit, []wordcolor.Span{{Text: "a\tb"}}, ""))
	assert.Equal(t, "a\tb\n", buf.String())
}
