package classify

import (
	"strings"
)

// Uncategorized is the sentinel label returned whenever no category can be
// determined. Every classification path falls back to it; callers never see
// an error.
const Uncategorized = "Uncategorized"

// incomePrefix marks the reserved income labels. Descriptions matching an
// income keyword are resolved before the rest of the table so generic
// keywords can never shadow an income entry.
const incomePrefix = "Income"

// Category is one row of the keyword table: a label and the lowercase
// substring keywords that map to it. Declaration order matters; the
// earliest declared category wins when keywords from several categories
// match the same description.
type Category struct {
	Label    string
	Keywords []string
}

// Table is an ordered keyword table. It is immutable after construction
// and safe for concurrent use.
type Table struct {
	labels  []string
	income  []Category
	general []Category
}

// NewTable builds a keyword table from the given ordered category list.
// Categories carrying the reserved income prefix are split out and checked
// before all others.
func NewTable(categories []Category) *Table {
	t := &Table{}
	for _, c := range categories {
		t.labels = append(t.labels, c.Label)
		if strings.HasPrefix(c.Label, incomePrefix) {
			t.income = append(t.income, c)
		} else {
			t.general = append(t.general, c)
		}
	}
	return t
}

// Classify maps a free-text description to a category label. It is pure:
// same input, same output, no I/O. An empty description is Uncategorized
// immediately; otherwise matching is a case-folded substring check, income
// labels first, then the general table in declared order.
func (t *Table) Classify(description string) string {
	if description == "" {
		return Uncategorized
	}

	desc := strings.ToLower(description)

	for _, c := range t.income {
		for _, kw := range c.Keywords {
			if strings.Contains(desc, kw) {
				return c.Label
			}
		}
	}

	for _, c := range t.general {
		for _, kw := range c.Keywords {
			if strings.Contains(desc, kw) {
				return c.Label
			}
		}
	}

	return Uncategorized
}

// Labels returns every category label in declaration order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}
