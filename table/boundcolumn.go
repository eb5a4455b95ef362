package table

import (
	"strings"

	"github.com/tablebind-project/tablebind"
	"github.com/tablebind-project/tablebind/column"
)

// BoundColumn is the runtime pairing of a column declaration with a table
// instance. Its ordering related properties are computed on every access
// against the table's current state, never cached across ordering changes.
type BoundColumn struct {
	table *Table
	col   *column.Column
	name  string
}

// Name returns the exposed column name.
func (bc BoundColumn) Name() string {
	return bc.name
}

// Column returns the underlying declaration.
func (bc BoundColumn) Column() *column.Column {
	return bc.col
}

// Accessor returns the effective accessor: the declared path, or the
// column's own name when none was declared.
func (bc BoundColumn) Accessor() tablebind.Accessor {
	if accessor := bc.col.Accessor(); accessor != "" {
		return accessor
	}

	return tablebind.Accessor(bc.name)
}

// Header returns the effective human readable header: the declared verbose
// name, else the table's header lookup, else the humanized column name.
func (bc BoundColumn) Header() string {
	if name := bc.col.VerboseName(); name != "" {
		return name
	}

	if bc.table.headers != nil {
		if header, err := bc.table.headers.Display(bc.name); err == nil {
			return header
		}
	}

	return humanizeName(bc.name)
}

// Default resolves the effective empty cell replacement, falling back to
// the table wide default when the column declares none.
func (bc BoundColumn) Default(record interface{}) (interface{}, bool) {
	if value, ok := bc.col.DefaultFor(record); ok {
		return value, true
	}

	if bc.table.defaultValue != nil {
		return bc.table.defaultValue, true
	}

	return nil, false
}

// Orderable reports whether the column may drive the sort, falling back to
// the table level default when the column does not declare it.
func (bc BoundColumn) Orderable() bool {
	if orderable, declared := bc.col.Orderable(); declared {
		return orderable
	}

	return bc.table.orderable
}

// Visible reports whether the column takes part in display iteration.
func (bc BoundColumn) Visible() bool {
	return bc.col.Visible()
}

// Attrs returns the column's opaque rendering attributes.
func (bc BoundColumn) Attrs() map[string]string {
	return bc.col.Attrs()
}

// OrderByAlias returns the logical, column name keyed ordering state.
func (bc BoundColumn) OrderByAlias() OrderAlias {
	bare := tablebind.OrderBy(bc.name)
	for _, key := range bc.table.orderBy {
		if key.Bare() == bare {
			return OrderAlias{
				alias:           key,
				ordered:         true,
				descendingFirst: bc.col.DescendingFirst(),
			}
		}
	}

	return OrderAlias{
		alias:           bare,
		descendingFirst: bc.col.DescendingFirst(),
	}
}

// IsOrdered reports whether the column currently drives the sort.
func (bc BoundColumn) IsOrdered() bool {
	return bc.OrderByAlias().IsOrdered()
}

// OrderBy returns the physical sort keys the column contributes: its
// explicitly declared multi key tuple, or a single key built from its
// accessor, with every key's sign flipped while the logical alias is in the
// descending state. The indirection lets one logical column sort by several
// underlying keys while still participating in the single column toggle.
func (bc BoundColumn) OrderBy() tablebind.OrderByTuple {
	keys := bc.col.OrderBy()
	if len(keys) == 0 {
		keys = tablebind.OrderByTuple{tablebind.OrderBy(bc.Accessor())}
	}

	if bc.OrderByAlias().IsDescending() {
		return keys.Opposite()
	}

	return append(tablebind.OrderByTuple(nil), keys...)
}

// OrderAlias is the three state, logical ordering view of a single column:
// unordered, ascending or descending, keyed by the column's name rather
// than its physical sort keys.
type OrderAlias struct {
	alias           tablebind.OrderBy
	ordered         bool
	descendingFirst bool
}

// OrderBy returns the current alias: the signed column name while ordered,
// the bare name otherwise.
func (a OrderAlias) OrderBy() tablebind.OrderBy {
	return a.alias
}

// IsOrdered reports whether the column currently participates in the sort.
func (a OrderAlias) IsOrdered() bool {
	return a.ordered
}

// IsAscending reports whether the column is currently ordered ascending.
func (a OrderAlias) IsAscending() bool {
	return a.ordered && a.alias.IsAscending()
}

// IsDescending reports whether the column is currently ordered descending.
func (a OrderAlias) IsDescending() bool {
	return a.ordered && a.alias.IsDescending()
}

// Next returns the alias a sort toggle transitions to: unordered columns
// begin ascending (or descending, for descending first columns), ordered
// columns reverse.
func (a OrderAlias) Next() tablebind.OrderBy {
	if !a.ordered {
		if a.descendingFirst {
			return a.alias.Bare().Opposite()
		}

		return a.alias.Bare()
	}

	return a.alias.Opposite()
}

func humanizeName(name string) string {
	words := strings.ReplaceAll(name, "_", " ")
	if words == "" {
		return words
	}

	return strings.ToUpper(words[:1]) + words[1:]
}
