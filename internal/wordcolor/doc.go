// Package wordcolor splits announcement text into plain and highlighted
// spans using per-group highlight words.
//
// # Overview
//
// A Table is loaded from a TOML file with two sections. Colors maps a color
// name to a foreground and an optional background. Words maps a group name
// to the words highlighted in that group's announcements and the color name
// for each:
//
//	[colors]
//	gold = { fg = "#FFD700" }
//	shade = { fg = "#FFFFFF", bg = "#000000" }
//
//	[words.Combat]
//	goblin = "gold"
//	"goblin king" = "shade"
//
// A missing file is an empty table, which highlights nothing.
//
// # Matching
//
// NewHighlighter compiles one regular expression per group. Alternatives
// are tried longest first, so "goblin king" wins over "goblin" where both
// match. A word is highlighted only when it stands alone:
//
//   - it must not continue a word, so "hobgoblin" leaves "goblin" plain
//   - it must be followed by whitespace, closing punctuation or the end of
//     the text, so "goblins" leaves it plain too
//
// Word runes are letters, digits, underscores and combining marks in any
// script, so accented and non-Latin words follow the same rules as ASCII.
//
// # Case
//
// Case sensitivity is chosen once per Highlighter. When matching ignores
// case, words that differ only in case collapse to the color of the one
// that sorts first, and a warning is logged if their colors disagree.
//
// # Spans
//
// Highlight returns spans whose texts concatenate back to the input
// exactly. Plain runs are merged, and a group without words yields a single
// plain span. Span.Color is a color name, resolved by the renderer through
// the table's Colors; an unknown name renders like the text around it.
package wordcolor
