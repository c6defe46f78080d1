package filter

// bodyGroup names the optional capture group that selects the text handed
// on for highlighting.
const bodyGroup = "body"

// Record is a classified announcement.
type Record struct {
	Tag  Tag
	Body string
	Line string
}

// Classifier matches raw lines against a Model.
type Classifier struct {
	model *Model
}

// NewClassifier binds a classifier to model. Pattern edits made through the
// model are seen by later calls.
func NewClassifier(model *Model) *Classifier {
	return &Classifier{model: model}
}

// Classify returns the first category, in group order then category order
// then pattern order, with a pattern matching line. ok is false when nothing
// matches; that is a normal outcome.
func (c *Classifier) Classify(line string) (Record, bool) {
	if c == nil || c.model == nil {
		return Record{}, false
	}
	for _, g := range c.model.groups {
		for _, cat := range g.Categories {
			for _, re := range cat.patterns {
				loc := re.FindStringSubmatchIndex(line)
				if loc == nil {
					continue
				}
				body := line
				if idx := re.SubexpIndex(bodyGroup); idx > 0 && loc[2*idx] >= 0 {
					body = line[loc[2*idx]:loc[2*idx+1]]
				}
				return Record{Tag: cat.tag, Body: body, Line: line}, true
			}
		}
	}
	return Record{}, false
}
