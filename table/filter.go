package table

import (
	"fmt"

	"golang.org/x/text/collate"

	"github.com/tablebind-project/tablebind"
)

// FilterGroup designates an accessor path to be filtered by one or multiple
// Filters. A FilterGroup acts as an OR chain - all Filters contained in a
// single group are OR'd against each other. Multiple groups, on the other
// hand, are AND'd.
type FilterGroup struct {
	path    tablebind.Accessor
	filters []Filter
}

// NewFilterGroup constructs a new FilterGroup.
func NewFilterGroup(path string, filters []Filter) FilterGroup {
	return FilterGroup{
		path:    tablebind.Accessor(path),
		filters: filters,
	}
}

// NewSimpleFilterGroup is a shortcut for constructing a FilterGroup with one
// Filter per value, all sharing the same FilterMode. This is essentially an
// OR group over a single mode.
func NewSimpleFilterGroup(path string, mode tablebind.FilterMode, values ...interface{}) FilterGroup {
	filters := make([]Filter, len(values))
	for i, value := range values {
		filters[i] = NewFilter(mode, value)
	}

	return NewFilterGroup(path, filters)
}

// Path is the accessor path which is to be filtered on.
func (g FilterGroup) Path() tablebind.Accessor {
	return g.path
}

// Filters returns all filters which are OR-chained within the group.
func (g FilterGroup) Filters() []Filter {
	filters := make([]Filter, len(g.filters))
	copy(filters, g.filters)

	return filters
}

// matches resolves the group's path against the record once and ORs the
// group's filters over the resolved value.
func (g FilterGroup) matches(record interface{}, collator *collate.Collator) (bool, error) {
	value, err := g.path.ResolveQuiet(record)
	if err != nil {
		return false, err
	}

	for _, filter := range g.filters {
		matched, err := filter.matches(value, collator)
		if err != nil {
			return false, err
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}

// Filter describes a single FilterMode with an applicable value to be
// filtered by.
type Filter struct {
	mode  tablebind.FilterMode
	value interface{}
}

// NewFilter constructs a new Filter.
func NewFilter(mode tablebind.FilterMode, value interface{}) Filter {
	return Filter{
		mode:  mode,
		value: value,
	}
}

// Mode is the mode in which the column is filtered.
func (f Filter) Mode() tablebind.FilterMode {
	return f.mode
}

// Value returns the actual value to filter by.
func (f Filter) Value() interface{} {
	return f.value
}

func (f Filter) matches(value interface{}, collator *collate.Collator) (bool, error) {
	result := tablebind.CompareWithCollator(value, f.value, collator)

	switch f.mode {
	case tablebind.FilterEquals:
		return result == 0, nil
	case tablebind.FilterNotEquals:
		return result != 0, nil
	case tablebind.FilterGreater:
		return result > 0, nil
	case tablebind.FilterGreaterEquals:
		return result >= 0, nil
	case tablebind.FilterLesser:
		return result < 0, nil
	case tablebind.FilterLesserEquals:
		return result <= 0, nil
	default:
		return false, fmt.Errorf("unknown filter mode %s", f.mode)
	}
}
