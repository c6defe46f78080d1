package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Tag identifies a category within its group.
type Tag struct {
	Group    string
	Category string
}

func (t Tag) String() string {
	return t.Group + "." + t.Category
}

// Label is the prefix shown before an announcement when tags are visible.
func (t Tag) Label() string {
	return "[" + t.Group + "][" + t.Category + "] "
}

// GroupSpec is the plain description of a group used to build or export a Model.
type GroupSpec struct {
	Name       string         `toml:"name" yaml:"name"`
	Color      string         `toml:"color" yaml:"color"`
	Categories []CategorySpec `toml:"category" yaml:"categories"`
}

// CategorySpec is the plain description of a category.
type CategorySpec struct {
	Name     string         `toml:"name" yaml:"name"`
	Patterns []string       `toml:"patterns" yaml:"patterns"`
	Show     map[string]any `toml:"show,omitempty" yaml:"show,omitempty"`
}

const defaultGroupColor = "#808080"

// Model is the ordered set of groups and categories lines are classified into.
type Model struct {
	groups []*Group
	index  map[Tag]*Category
}

// Group is a top-level classification bucket with a display color.
type Group struct {
	Name       string
	Color      string
	Categories []*Category
}

// Category holds ordered patterns and per-destination visibility.
type Category struct {
	Name     string
	tag      Tag
	patterns []*regexp.Regexp
	show     Visibility
}

// NewModel compiles groups into a Model. Each category receives its own
// visibility map built from the normalized spec.
func NewModel(specs ...GroupSpec) (*Model, error) {
	m := &Model{index: make(map[Tag]*Category)}
	seen := make(map[string]struct{}, len(specs))
	for _, gs := range specs {
		name := strings.TrimSpace(gs.Name)
		if name == "" {
			return nil, fmt.Errorf("group name is empty")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, name)
		}
		seen[name] = struct{}{}

		color := strings.TrimSpace(gs.Color)
		if color == "" {
			color = defaultGroupColor
		}
		g := &Group{Name: name, Color: color}
		for _, cs := range gs.Categories {
			tag := Tag{Group: name, Category: strings.TrimSpace(cs.Name)}
			if tag.Category == "" {
				return nil, fmt.Errorf("group %s: category name is empty", name)
			}
			if _, dup := m.index[tag]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, tag)
			}
			cat := &Category{
				Name:     tag.Category,
				tag:      tag,
				patterns: make([]*regexp.Regexp, 0, len(cs.Patterns)),
				show:     NormalizeVisibility(cs.Show),
			}
			for i, text := range cs.Patterns {
				re, err := regexp.Compile(text)
				if err != nil {
					return nil, fmt.Errorf("%w: %s pattern %d %q: %v", ErrInvalidPattern, tag, i, text, err)
				}
				cat.patterns = append(cat.patterns, re)
			}
			g.Categories = append(g.Categories, cat)
			m.index[tag] = cat
		}
		m.groups = append(m.groups, g)
	}
	return m, nil
}

// Groups returns the groups in classification order.
func (m *Model) Groups() []*Group {
	return m.groups
}

// Group looks up a group by name.
func (m *Model) Group(name string) (*Group, bool) {
	for _, g := range m.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Category looks up a category by tag.
func (m *Model) Category(tag Tag) (*Category, bool) {
	c, ok := m.index[tag]
	return c, ok
}

// Tags returns every tag in group order, then category order.
func (m *Model) Tags() []Tag {
	tags := make([]Tag, 0, len(m.index))
	for _, g := range m.groups {
		for _, c := range g.Categories {
			tags = append(tags, c.tag)
		}
	}
	return tags
}

// ReplacePattern swaps the pattern at index. The new text is compiled before
// anything is replaced, so a failure leaves the category unchanged. changed
// is false when text equals the current pattern.
func (m *Model) ReplacePattern(tag Tag, index int, text string) (bool, error) {
	cat, ok := m.index[tag]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCategory, tag)
	}
	if index < 0 || index >= len(cat.patterns) {
		return false, fmt.Errorf("%w: %s has %d patterns, got index %d", ErrPatternIndex, tag, len(cat.patterns), index)
	}
	if cat.patterns[index].String() == text {
		return false, nil
	}
	re, err := regexp.Compile(text)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, text, err)
	}
	cat.patterns[index] = re
	return true, nil
}

// SetGroupColor changes the display color of a group.
func (m *Model) SetGroupColor(name, color string) error {
	g, ok := m.Group(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	g.Color = strings.TrimSpace(color)
	if g.Color == "" {
		g.Color = defaultGroupColor
	}
	return nil
}

// Spec exports a deep copy of the model, including visibility flags.
func (m *Model) Spec() []GroupSpec {
	out := make([]GroupSpec, 0, len(m.groups))
	for _, g := range m.groups {
		gs := GroupSpec{Name: g.Name, Color: g.Color}
		for _, c := range g.Categories {
			gs.Categories = append(gs.Categories, CategorySpec{
				Name:     c.Name,
				Patterns: c.Patterns(),
				Show:     c.show.Raw(),
			})
		}
		out = append(out, gs)
	}
	return out
}

// Visibility exports a copy of every category's flags keyed by tag string.
func (m *Model) Visibility() map[string]Visibility {
	out := make(map[string]Visibility, len(m.index))
	for tag, c := range m.index {
		out[tag.String()] = c.show.Clone()
	}
	return out
}

// Tag returns the category's identity.
func (c *Category) Tag() Tag {
	return c.tag
}

// Patterns returns the source text of each compiled pattern, in match order.
func (c *Category) Patterns() []string {
	out := make([]string, len(c.patterns))
	for i, re := range c.patterns {
		out[i] = re.String()
	}
	return out
}

// Show returns a copy of the category's visibility flags.
func (c *Category) Show() Visibility {
	return c.show.Clone()
}
