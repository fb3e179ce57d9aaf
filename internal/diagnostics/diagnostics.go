// Package diagnostics provides category-keyed collection of positioned
// problem reports shared by every compiler component.
//
// Each owner (HTML, CSS, JS, Template) declares its own closed set of
// diagnostic categories and stores problems under them, so callers can
// re-check a single rule family without discarding unrelated results.
// Ranges are byte offsets into the owning unit's raw source text; offset
// translation happens when diagnostics cross ownership boundaries.
package diagnostics

// Severity represents the severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single positioned problem report. From and To are byte
// offsets into the raw source text of the unit that produced it.
type Diagnostic struct {
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
	From     int      `json:"from" yaml:"from"`
	To       int      `json:"to" yaml:"to"`
}

// Range is a half-open [From, To) offset pair.
type Range struct {
	From int
	To   int
}

// Collection stores diagnostics keyed by a closed category set. The zero
// value is not usable; construct with NewCollection.
type Collection[C ~string] struct {
	categories []C
	entries    map[C][]Diagnostic
}

// NewCollection creates a collection that recognizes exactly the given
// categories. Adding to an unknown category is silently dropped, which is
// what lets owners with different category sets delegate to one another.
func NewCollection[C ~string](categories ...C) *Collection[C] {
	c := &Collection[C]{
		categories: categories,
		entries:    make(map[C][]Diagnostic, len(categories)),
	}
	for _, cat := range categories {
		c.entries[cat] = nil
	}
	return c
}

// Categories returns the closed category set in declaration order.
func (c *Collection[C]) Categories() []C {
	out := make([]C, len(c.categories))
	copy(out, c.categories)
	return out
}

// Has reports whether category is part of the collection's category set.
func (c *Collection[C]) Has(category C) bool {
	_, ok := c.entries[category]
	return ok
}

// Add appends diagnostics under category. Unknown categories are dropped.
func (c *Collection[C]) Add(category C, diags ...Diagnostic) {
	if _, ok := c.entries[category]; !ok {
		return
	}
	c.entries[category] = append(c.entries[category], diags...)
}

// Clear removes all diagnostics stored under the given categories. With no
// arguments it clears every category.
func (c *Collection[C]) Clear(categories ...C) {
	if len(categories) == 0 {
		categories = c.categories
	}
	for _, cat := range categories {
		if _, ok := c.entries[cat]; ok {
			c.entries[cat] = nil
		}
	}
}

// Get returns the diagnostics stored under the given categories in category
// declaration order. With no arguments it returns every category's
// diagnostics.
func (c *Collection[C]) Get(categories ...C) []Diagnostic {
	return c.GetWithOffset(0, categories...)
}

// GetWithOffset returns diagnostics like Get, with every range shifted by
// offset. Used when a sub-AST's diagnostics are merged into the coordinate
// space of its enclosing document.
func (c *Collection[C]) GetWithOffset(offset int, categories ...C) []Diagnostic {
	if len(categories) == 0 {
		categories = c.categories
	}
	var out []Diagnostic
	for _, cat := range categories {
		for _, d := range c.entries[cat] {
			d.From += offset
			d.To += offset
			out = append(out, d)
		}
	}
	return out
}

// HasProblems reports whether any diagnostics are stored under the given
// categories (all categories when none are named).
func (c *Collection[C]) HasProblems(categories ...C) bool {
	if len(categories) == 0 {
		categories = c.categories
	}
	for _, cat := range categories {
		if len(c.entries[cat]) > 0 {
			return true
		}
	}
	return false
}

// ByCategory returns a snapshot of the stored diagnostics keyed by plain
// category name, for merging across owners with different category types.
func (c *Collection[C]) ByCategory(categories ...C) map[string][]Diagnostic {
	if len(categories) == 0 {
		categories = c.categories
	}
	out := make(map[string][]Diagnostic, len(categories))
	for _, cat := range categories {
		if diags, ok := c.entries[cat]; ok && len(diags) > 0 {
			copied := make([]Diagnostic, len(diags))
			copy(copied, diags)
			out[string(cat)] = copied
		}
	}
	return out
}

// Owner is implemented by AST engines that run named rule families and
// collect diagnostics per category.
type Owner interface {
	// Lint runs the rule families named by categories. Unrecognized names
	// are ignored.
	Lint(categories ...string)
	// CollectDiagnostics returns stored diagnostics keyed by category name.
	CollectDiagnostics(categories ...string) map[string][]Diagnostic
	// Recognizes reports whether category names one of the owner's rule
	// families.
	Recognizes(category string) bool
}

// DelegateLint runs the rule families owner recognizes out of categories,
// then merges owner's results into dst under the same category names with
// every range shifted by offset. Categories dst does not define are dropped.
// This is how a Template defers HTML-specific linting to its HTML AST while
// keeping Template-specific categories separate.
func DelegateLint[C ~string](dst *Collection[C], owner Owner, offset int, categories ...C) {
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		if owner.Recognizes(string(cat)) {
			names = append(names, string(cat))
		}
	}
	if len(names) == 0 {
		return
	}
	owner.Lint(names...)
	for name, diags := range owner.CollectDiagnostics(names...) {
		cat := C(name)
		if !dst.Has(cat) {
			continue
		}
		for _, d := range diags {
			d.From += offset
			d.To += offset
			dst.Add(cat, d)
		}
	}
}
