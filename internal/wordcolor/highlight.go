package wordcolor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Span is a run of text. Color names an entry in the Table; empty is plain.
type Span struct {
	Text  string
	Color string
}

// separator is what may follow a highlighted word: whitespace, closing
// punctuation, or end of text. It is captured and re-emitted verbatim.
const separator = `(\s|[.,;:!?)\]]|$)`

type groupMatcher struct {
	re     *regexp.Regexp
	colors map[string]string
}

// Highlighter holds one compiled matcher per group.
type Highlighter struct {
	table         Table
	caseSensitive bool
	groups        map[string]groupMatcher
}

// NewHighlighter compiles matchers for every group in table. Case
// sensitivity is fixed for the lifetime of the Highlighter. Without it,
// words that differ only in case share the color of the one that sorts
// first.
func NewHighlighter(table Table, caseSensitive bool) *Highlighter {
	h := &Highlighter{
		table:         table,
		caseSensitive: caseSensitive,
		groups:        make(map[string]groupMatcher, len(table.Words)),
	}
	for group, words := range table.Words {
		if m, ok := compileGroup(group, words, caseSensitive); ok {
			h.groups[group] = m
		}
	}
	return h
}

func compileGroup(group string, words map[string]string, caseSensitive bool) (groupMatcher, bool) {
	sorted := make([]string, 0, len(words))
	for word := range words {
		if word != "" {
			sorted = append(sorted, word)
		}
	}
	sort.Strings(sorted)

	colors := make(map[string]string, len(sorted))
	list := make([]string, 0, len(sorted))
	for _, word := range sorted {
		key := word
		if !caseSensitive {
			key = strings.ToLower(word)
		}
		if prev, dup := colors[key]; dup {
			if prev != words[word] {
				log.Warn().Str("group", group).Str("word", word).Str("kept", prev).Msg("highlight word differs only in case, ignoring its color")
			}
			continue
		}
		colors[key] = words[word]
		list = append(list, word)
	}
	if len(list) == 0 {
		return groupMatcher{}, false
	}
	// Longest first so overlapping alternatives prefer the fuller word.
	sort.Slice(list, func(i, j int) bool {
		if len(list[i]) != len(list[j]) {
			return len(list[i]) > len(list[j])
		}
		return list[i] < list[j]
	})
	quoted := make([]string, len(list))
	for i, w := range list {
		quoted[i] = regexp.QuoteMeta(w)
	}
	// Go's \b only knows ASCII word characters, so the leading edge is
	// checked in Highlight with isWordRune instead. The separator bounds
	// the trailing edge.
	pattern := `((?:` + strings.Join(quoted, "|") + `))` + separator
	if !caseSensitive {
		pattern = `(?i)` + pattern
	}
	return groupMatcher{re: regexp.MustCompile(pattern), colors: colors}, true
}

// Table returns the table the highlighter was built from.
func (h *Highlighter) Table() Table {
	return h.table
}

// Highlight partitions body into spans. Concatenating the span texts always
// reproduces body exactly. Adjacent plain spans are merged.
func (h *Highlighter) Highlight(group, body string) []Span {
	m, ok := h.groups[group]
	if !ok {
		return []Span{{Text: body}}
	}

	var out spanBuilder
	pos, from := 0, 0
	for from < len(body) {
		loc := m.re.FindStringSubmatchIndex(body[from:])
		if loc == nil {
			break
		}
		start, wordEnd, sepStart, end := from+loc[2], from+loc[3], from+loc[4], from+loc[1]
		if splitsWord(body, start) {
			_, size := utf8.DecodeRuneInString(body[start:])
			from = start + max(size, 1)
			continue
		}
		out.plain(body[pos:start])
		word := body[start:wordEnd]
		out.add(Span{Text: word, Color: m.colorFor(word, h.caseSensitive)})
		out.plain(body[sepStart:end])
		pos, from = end, end
	}
	out.plain(body[pos:])
	if len(out.spans) == 0 {
		return []Span{{Text: body}}
	}
	return out.spans
}

// splitsWord reports whether i falls between two word runes of s.
func splitsWord(s string, i int) bool {
	if i == 0 || i >= len(s) {
		return false
	}
	before, _ := utf8.DecodeLastRuneInString(s[:i])
	after, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(before) && isWordRune(after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func (m groupMatcher) colorFor(word string, caseSensitive bool) string {
	if !caseSensitive {
		word = strings.ToLower(word)
	}
	return m.colors[word]
}

type spanBuilder struct {
	spans []Span
}

func (b *spanBuilder) plain(text string) {
	b.add(Span{Text: text})
}

func (b *spanBuilder) add(s Span) {
	if s.Text == "" {
		return
	}
	if n := len(b.spans); n > 0 && s.Color == "" && b.spans[n-1].Color == "" {
		b.spans[n-1].Text += s.Text
		return
	}
	b.spans = append(b.spans, s)
}
