package table

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// BoundColumns holds a table's bound columns in their resolved sequence
// order and supports lookup by name.
type BoundColumns struct {
	table   *Table
	columns *ordereddict.Dict
}

func newBoundColumns(t *Table, names []string, columns map[string]BoundColumn) BoundColumns {
	dict := ordereddict.NewDict()
	for _, name := range names {
		dict.Set(name, columns[name])
	}

	return BoundColumns{table: t, columns: dict}
}

// Len returns the number of bound columns.
func (bcs BoundColumns) Len() int {
	return len(bcs.columns.Keys())
}

// Names returns the column names in sequence order.
func (bcs BoundColumns) Names() []string {
	return bcs.columns.Keys()
}

// Get returns the bound column with the given name.
func (bcs BoundColumns) Get(name string) (BoundColumn, error) {
	value, ok := bcs.columns.Get(name)
	if !ok {
		return BoundColumn{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}

	return value.(BoundColumn), nil
}

// All returns every bound column in sequence order.
func (bcs BoundColumns) All() []BoundColumn {
	all := make([]BoundColumn, 0, bcs.Len())
	for _, name := range bcs.columns.Keys() {
		value, _ := bcs.columns.Get(name)
		all = append(all, value.(BoundColumn))
	}

	return all
}

// Visible returns the bound columns marked visible, in sequence order.
func (bcs BoundColumns) Visible() []BoundColumn {
	visible := make([]BoundColumn, 0, bcs.Len())
	for _, bc := range bcs.All() {
		if bc.Visible() {
			visible = append(visible, bc)
		}
	}

	return visible
}
